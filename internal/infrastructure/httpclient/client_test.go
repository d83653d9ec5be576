package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"backoffice-agent/internal/config"
	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/apierror"
	"backoffice-agent/internal/infrastructure/credential"
	"backoffice-agent/internal/infrastructure/notify"
	"backoffice-agent/internal/infrastructure/token"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(level notify.Level, message string) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type fixture struct {
	client   HTTPClient
	tokens   token.TokenService
	notifier *recordingNotifier
}

func newFixture(t *testing.T, baseURL string) *fixture {
	t.Helper()
	cfg := &config.Config{API: config.APIConfig{
		BaseURL:          baseURL,
		Timeout:          5 * time.Second,
		RefreshTimeout:   5 * time.Second,
		RefreshTokenPath: "/auth/refresh-token",
	}}
	logger := zap.NewNop()
	tokens := token.NewTokenService(cfg, credential.NewMemoryStore(), nil, logger)
	notifier := &recordingNotifier{}
	return &fixture{
		client:   NewHTTPClient(cfg, tokens, notifier, nil, logger),
		tokens:   tokens,
		notifier: notifier,
	}
}

func (f *fixture) login(t *testing.T, access, refresh string) {
	t.Helper()
	if err := f.tokens.Store(context.Background(), entity.TokenPair{AccessToken: access, RefreshToken: refresh}); err != nil {
		t.Fatalf("store tokens: %v", err)
	}
}

func TestBearerAttachedOnlyForWellFormedTokens(t *testing.T) {
	cases := []struct {
		token string
		want  string
	}{
		{"abc.def.ghi", "Bearer abc.def.ghi"},
		{"not-a-jwt", ""},
		{"a.b", ""},
		{"a.b.c.d", ""},
		{"undefined", ""},
		{"null", ""},
		{"", ""},
	}

	for _, tc := range cases {
		var mu sync.Mutex
		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			got = r.Header.Get("Authorization")
			mu.Unlock()
			_, _ = w.Write([]byte(`[]`))
		}))

		f := newFixture(t, srv.URL)
		f.login(t, tc.token, "r.r.r")
		if err := f.client.Get(context.Background(), "/states", nil, nil); err != nil {
			t.Fatalf("token %q: %v", tc.token, err)
		}
		srv.Close()

		mu.Lock()
		if got != tc.want {
			t.Errorf("token %q: Authorization = %q, want %q", tc.token, got, tc.want)
		}
		mu.Unlock()
	}
}

func TestMalformedTokenClearsStateBeforeSending(t *testing.T) {
	var f *fixture
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("request must be unauthenticated")
		}
		creds, _ := f.tokens.Credentials(r.Context())
		if !creds.IsEmpty() {
			t.Errorf("credential state not cleared before send: %+v", creds)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f = newFixture(t, srv.URL)
	f.login(t, "not-a-jwt", "r.r.r")

	if err := f.client.Get(context.Background(), "/states", nil, nil); err != nil {
		t.Fatalf("get: %v", err)
	}
}

func TestRefreshAndReplayIsTransparent(t *testing.T) {
	var doctorCalls, refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/doctors", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&doctorCalls, 1)
		if r.Header.Get("Authorization") != "Bearer new.access.token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"jwt expired"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":1,"name":"Dr. Rao"}]}`))
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		_, _ = w.Write([]byte(`{"accessToken":"new.access.token","refreshToken":"new.refresh.token"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := newFixture(t, srv.URL)
	f.login(t, "old.access.token", "old.refresh.token")

	var result struct {
		Success bool `json:"success"`
		Data    []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := f.client.Get(context.Background(), "/doctors", nil, &result); err != nil {
		t.Fatalf("get: %v", err)
	}

	if len(result.Data) != 1 || result.Data[0].Name != "Dr. Rao" {
		t.Fatalf("result = %+v", result)
	}
	if atomic.LoadInt32(&doctorCalls) != 2 || atomic.LoadInt32(&refreshCalls) != 1 {
		t.Fatalf("doctor calls = %d, refresh calls = %d", doctorCalls, refreshCalls)
	}

	creds, _ := f.tokens.Credentials(context.Background())
	if creds.AccessToken != "new.access.token" || creds.RefreshToken != "new.refresh.token" {
		t.Fatalf("credentials = %+v", creds)
	}
}

func TestReplayThat401sIsNotRefreshedAgain(t *testing.T) {
	var doctorCalls, refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/doctors", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&doctorCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"revoked"}`))
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&refreshCalls, 1)
		_, _ = w.Write([]byte(`{"accessToken":"new.access.token` + string(rune('0'+n)) + `","refreshToken":"n.r.t"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := newFixture(t, srv.URL)
	f.login(t, "old.access.token", "old.refresh.token")

	err := f.client.Get(context.Background(), "/doctors", nil, nil)
	apiErr, ok := apierror.As(err)
	if !ok || apiErr.Status() != http.StatusUnauthorized || apiErr.Message != "revoked" {
		t.Fatalf("expected 401 error, got %v", err)
	}
	if atomic.LoadInt32(&doctorCalls) != 2 || atomic.LoadInt32(&refreshCalls) != 1 {
		t.Fatalf("doctor calls = %d, refresh calls = %d", doctorCalls, refreshCalls)
	}
}

func TestRefreshNetworkFailureEndsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/doctors", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		conn, _, err := w.(http.Hijacker).Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		_ = conn.Close()
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := newFixture(t, srv.URL)
	f.login(t, "old.access.token", "old.refresh.token")

	err := f.client.Get(context.Background(), "/doctors", nil, nil)
	if !errors.Is(err, token.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !errors.Is(err, apierror.ErrNetwork) {
		t.Fatalf("expected the refresh network error in chain, got %v", err)
	}

	creds, _ := f.tokens.Credentials(context.Background())
	if !creds.IsEmpty() {
		t.Fatalf("credentials not cleared: %+v", creds)
	}
}

func TestNoBearerAfterLogout(t *testing.T) {
	var got []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.Header.Get("Authorization"))
		mu.Unlock()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	f.login(t, "abc.def.ghi", "r.r.r")
	ctx := context.Background()

	_ = f.client.Get(ctx, "/auth/profile", nil, nil)
	if err := f.tokens.Logout(ctx, "user logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	_ = f.client.Get(ctx, "/states", nil, nil)

	creds, _ := f.tokens.Credentials(ctx)
	if creds.AccessToken != "" || creds.RefreshToken != "" {
		t.Fatalf("credentials = %+v", creds)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] == "" || got[1] != "" {
		t.Fatalf("authorization headers = %q", got)
	}
}

func TestNetworkFailureNotifiesOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	f := newFixture(t, baseURL)
	err := f.client.Get(context.Background(), "/states", nil, nil)

	apiErr, ok := apierror.As(err)
	if !ok || !apiErr.IsNetwork() || !apiErr.Notified {
		t.Fatalf("expected notified network error, got %v", err)
	}
	if msgs := f.notifier.all(); len(msgs) != 1 || msgs[0] != NetworkErrorMessage {
		t.Fatalf("notifications = %q", msgs)
	}
}

func TestCancelledRequestIsNotNotified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := f.client.Get(ctx, "/states", nil, nil); err == nil {
		t.Fatalf("expected error")
	}
	if msgs := f.notifier.all(); len(msgs) != 0 {
		t.Fatalf("notifications = %q", msgs)
	}
}

func TestErrorShapeIsUniformAcrossPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Validation failed","errors":[{"msg":"name is required"}]}`))
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	ctx := context.Background()

	jsonErr := f.client.Post(ctx, "/hospitals", map[string]string{"name": ""}, nil)
	uploadErr := f.client.Upload(ctx, UploadRequest{
		Method: http.MethodPost,
		Path:   "/hospitals",
		Form:   NewForm().AddFile("documents", FileUpload{Filename: "a.pdf", Content: []byte("%PDF")}),
	}, nil)

	for name, err := range map[string]error{"json": jsonErr, "upload": uploadErr} {
		apiErr, ok := apierror.As(err)
		if !ok {
			t.Fatalf("%s: expected *apierror.Error, got %v", name, err)
		}
		if apiErr.Message != "Validation failed" || apiErr.Status() != http.StatusUnprocessableEntity {
			t.Fatalf("%s: message=%q status=%d", name, apiErr.Message, apiErr.Status())
		}
		if !strings.Contains(string(apiErr.Response.Data), "name is required") {
			t.Fatalf("%s: data = %s", name, apiErr.Response.Data)
		}
	}
}

func TestRequestsCarryRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing X-Request-ID")
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		if r.URL.RawQuery != "limit=10&page=2" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL+"/")
	query := map[string][]string{"page": {"2"}, "limit": {"10"}}
	if err := f.client.Get(context.Background(), "states", query, nil); err != nil {
		t.Fatalf("get: %v", err)
	}
}
