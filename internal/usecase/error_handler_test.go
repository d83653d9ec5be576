package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/apierror"
	"backoffice-agent/internal/infrastructure/httpclient"
	"backoffice-agent/internal/infrastructure/token"
)

func response(status int, body string) error {
	return apierror.FromResponse(http.MethodGet, "http://x/states", status, fmt.Sprintf("%d %s", status, http.StatusText(status)), []byte(body))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		class   ErrorClass
		message string
	}{
		{"network", apierror.Network(http.MethodGet, "http://x", errors.New("dial tcp: refused")), ClassNetwork, httpclient.NetworkErrorMessage},
		{"unauthorized", response(401, `{"message":"jwt expired"}`), ClassAuth, msgSessionExpired},
		{"refresh failed", fmt.Errorf("%w: refresh failed: %w", token.ErrUnauthorized, response(500, "")), ClassAuth, msgSessionExpired},
		{"no refresh token", token.ErrNoRefreshToken, ClassMalformedCredential, msgLoginAgain},
		{"malformed token", fmt.Errorf("wrapped: %w", token.ErrMalformedToken), ClassMalformedCredential, msgLoginAgain},
		{"bad request with message", response(400, `{"message":"Name is required"}`), ClassClient, "Name is required"},
		{"bad request without message", response(400, `{}`), ClassClient, "Invalid request"},
		{"forbidden with message", response(403, `{"message":"Admins only"}`), ClassClient, "Admins only"},
		{"forbidden without message", response(403, `oops`), ClassClient, "Access denied"},
		{"not found", response(404, `{"message":"no such state"}`), ClassClient, "Resource not found"},
		{"validation list", response(422, `{"errors":[{"msg":"email invalid"},{"msg":""},{"msg":"phone invalid"}]}`), ClassClient, "email invalid, phone invalid"},
		{"validation message", response(422, `{"message":"Bad data"}`), ClassClient, "Bad data"},
		{"validation empty", response(422, `{}`), ClassClient, "Validation failed"},
		{"other 4xx", response(409, `{"message":"Duplicate code"}`), ClassClient, "Duplicate code"},
		{"other 4xx bare", response(429, ``), ClassClient, "Request failed (status 429)"},
		{"500", response(500, `{"message":"stack trace"}`), ClassServer, msgServerError},
		{"502", response(502, ``), ClassServer, msgServerError},
		{"503", response(503, ``), ClassServer, msgServerError},
		{"504", response(504, ``), ClassServer, msgServerError},
		{"other 5xx", response(507, ``), ClassServer, "Server error (status 507). Please try again later."},
		{"file type", fmt.Errorf("%w: %q", entity.ErrInvalidFileType, "photo"), ClassClient, "Invalid file type"},
		{"invalid input", ErrInvalidInput, ClassClient, "Invalid request"},
		{"deadline", context.DeadlineExceeded, ClassNetwork, httpclient.NetworkErrorMessage},
		{"unknown", errors.New("boom"), ClassUnknown, msgUnexpected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.err)
			if got.Class != tc.class || got.Message != tc.message {
				t.Fatalf("Classify = %+v, want class %q message %q", got, tc.class, tc.message)
			}
		})
	}
}

func TestClassifyKeepsStatus(t *testing.T) {
	if got := Classify(response(404, ``)); got.Status != 404 {
		t.Fatalf("status = %d", got.Status)
	}
	if got := Classify(nil); got.Class != "" {
		t.Fatalf("nil error classified as %+v", got)
	}
}

func TestHandleNotifiesOnce(t *testing.T) {
	notifier := &recordingNotifier{}
	h := NewErrorHandler(notifier, zap.NewNop())

	c := h.Handle(response(404, ``))
	if c.Class != ClassClient {
		t.Fatalf("class = %q", c.Class)
	}
	if got := notifier.all(); len(got) != 1 || got[0] != "Resource not found" {
		t.Fatalf("notifications = %v", got)
	}
}

func TestHandleSkipsErrorsAlreadyReported(t *testing.T) {
	notifier := &recordingNotifier{}
	h := NewErrorHandler(notifier, zap.NewNop())

	apiErr := apierror.Network(http.MethodGet, "http://x", errors.New("refused"))
	apiErr.Notified = true

	c := h.Handle(fmt.Errorf("failed to list states: %w", apiErr))
	if c.Class != ClassNetwork {
		t.Fatalf("class = %q", c.Class)
	}
	if got := notifier.all(); len(got) != 0 {
		t.Fatalf("notified again: %v", got)
	}

	h.Handle(nil)
	if got := notifier.all(); len(got) != 0 {
		t.Fatalf("nil error notified: %v", got)
	}
}
