package token

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"backoffice-agent/internal/config"
	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/apierror"
	"backoffice-agent/internal/infrastructure/credential"
)

type recordingListener struct {
	mu      sync.Mutex
	reasons []string
}

func (l *recordingListener) SessionEnded(ctx context.Context, reason string) {
	l.mu.Lock()
	l.reasons = append(l.reasons, reason)
	l.mu.Unlock()
}

func (l *recordingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.reasons)
}

func newTestService(t *testing.T, baseURL string) (TokenService, *recordingListener) {
	t.Helper()
	cfg := &config.Config{API: config.APIConfig{
		BaseURL:          baseURL,
		RefreshTokenPath: "/auth/refresh-token",
		RefreshTimeout:   2 * time.Second,
	}}
	listener := &recordingListener{}
	return NewTokenService(cfg, credential.NewMemoryStore(), listener, zap.NewNop()), listener
}

func TestRefreshSingleFlight(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/refresh-token" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["refreshToken"] != "r.r.r" {
			t.Errorf("refreshToken = %q", body["refreshToken"])
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("refresh call must not carry a bearer")
		}
		atomic.AddInt32(&calls, 1)
		<-release
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "n.n.n", "refreshToken": "m.m.m"})
	}))
	defer srv.Close()

	svc, _ := newTestService(t, srv.URL)
	ctx := context.Background()
	_ = svc.Store(ctx, entity.TokenPair{AccessToken: "o.o.o", RefreshToken: "r.r.r"})

	const n = 8
	var wg sync.WaitGroup
	results := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Refresh(ctx, "o.o.o")
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("refresh calls = %d, want 1", got)
	}
	for i := 0; i < n; i++ {
		if errs[i] != nil || results[i] != "n.n.n" {
			t.Fatalf("caller %d got %q, %v", i, results[i], errs[i])
		}
	}

	creds, _ := svc.Credentials(ctx)
	if creds.AccessToken != "n.n.n" || creds.RefreshToken != "m.m.m" {
		t.Fatalf("credentials = %+v", creds)
	}
}

func TestRefreshSkipsWhenTokenAlreadyRotated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no refresh call expected")
	}))
	defer srv.Close()

	svc, _ := newTestService(t, srv.URL)
	ctx := context.Background()
	_ = svc.Store(ctx, entity.TokenPair{AccessToken: "new.new.new", RefreshToken: "r.r.r"})

	got, err := svc.Refresh(ctx, "old.old.old")
	if err != nil || got != "new.new.new" {
		t.Fatalf("Refresh = %q, %v", got, err)
	}
}

func TestUnauthenticatedRefreshUsesStoredToken(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"accessToken":"x.x.x","refreshToken":"y.y.y"}`))
	}))
	defer srv.Close()

	svc, _ := newTestService(t, srv.URL)
	ctx := context.Background()
	_ = svc.Store(ctx, entity.TokenPair{AccessToken: "new.new.new", RefreshToken: "r.r.r"})

	got, err := svc.Refresh(ctx, "")
	if err != nil || got != "new.new.new" {
		t.Fatalf("Refresh = %q, %v", got, err)
	}
	if calls.Load() != 0 {
		t.Fatalf("refresh calls = %d", calls.Load())
	}

	got, err = svc.ForceRefresh(ctx)
	if err != nil || got != "x.x.x" {
		t.Fatalf("ForceRefresh = %q, %v", got, err)
	}
	if calls.Load() != 1 {
		t.Fatalf("refresh calls = %d", calls.Load())
	}
}

func TestRefreshReadsNestedData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"accessToken":"x.x.x","refreshToken":"y.y.y"}}`))
	}))
	defer srv.Close()

	svc, _ := newTestService(t, srv.URL)
	ctx := context.Background()
	_ = svc.Store(ctx, entity.TokenPair{AccessToken: "o.o.o", RefreshToken: "r.r.r"})

	got, err := svc.Refresh(ctx, "o.o.o")
	if err != nil || got != "x.x.x" {
		t.Fatalf("Refresh = %q, %v", got, err)
	}
}

func TestRefreshFailureEndsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Refresh token expired"}`))
	}))
	defer srv.Close()

	svc, listener := newTestService(t, srv.URL)
	ctx := context.Background()
	_ = svc.Store(ctx, entity.TokenPair{AccessToken: "o.o.o", RefreshToken: "r.r.r"})

	_, err := svc.Refresh(ctx, "o.o.o")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	apiErr, ok := apierror.As(err)
	if !ok || apiErr.Status() != http.StatusUnauthorized || apiErr.Message != "Refresh token expired" {
		t.Fatalf("expected refresh error in chain, got %v", err)
	}

	creds, _ := svc.Credentials(ctx)
	if !creds.IsEmpty() {
		t.Fatalf("credentials not cleared: %+v", creds)
	}
	if listener.count() != 1 {
		t.Fatalf("listener calls = %d", listener.count())
	}
}

func TestRefreshIncompletePairIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accessToken":"only.access.token"}`))
	}))
	defer srv.Close()

	svc, listener := newTestService(t, srv.URL)
	ctx := context.Background()
	_ = svc.Store(ctx, entity.TokenPair{AccessToken: "o.o.o", RefreshToken: "r.r.r"})

	_, err := svc.Refresh(ctx, "o.o.o")
	if !errors.Is(err, ErrIncompleteTokenPair) || !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unexpected error %v", err)
	}
	if listener.count() != 1 {
		t.Fatalf("listener calls = %d", listener.count())
	}
}

func TestRefreshWithoutRefreshTokenMakesNoCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	for _, refresh := range []string{"", "undefined", "not-a-jwt"} {
		svc, listener := newTestService(t, srv.URL)
		ctx := context.Background()
		_ = svc.Store(ctx, entity.TokenPair{AccessToken: "o.o.o", RefreshToken: refresh})

		_, err := svc.Refresh(ctx, "o.o.o")
		if !errors.Is(err, ErrNoRefreshToken) {
			t.Fatalf("refresh %q: expected ErrNoRefreshToken, got %v", refresh, err)
		}
		if listener.count() != 1 {
			t.Fatalf("refresh %q: listener calls = %d", refresh, listener.count())
		}
	}
	if calls != 0 {
		t.Fatalf("network calls = %d", calls)
	}
}

func TestAccessTokenMalformedEndsSession(t *testing.T) {
	svc, listener := newTestService(t, "http://unused")
	ctx := context.Background()
	_ = svc.Store(ctx, entity.TokenPair{AccessToken: "garbage", RefreshToken: "r.r.r"})

	if tok, ok := svc.AccessToken(ctx); ok || tok != "" {
		t.Fatalf("AccessToken = %q, %v", tok, ok)
	}
	if listener.count() != 1 {
		t.Fatalf("listener calls = %d", listener.count())
	}
	creds, _ := svc.Credentials(ctx)
	if !creds.IsEmpty() {
		t.Fatalf("credentials not cleared: %+v", creds)
	}
}

func TestAccessTokenAbsentIsSilent(t *testing.T) {
	svc, listener := newTestService(t, "http://unused")
	if _, ok := svc.AccessToken(context.Background()); ok {
		t.Fatalf("expected no token")
	}
	if listener.count() != 0 {
		t.Fatalf("listener calls = %d", listener.count())
	}
}
