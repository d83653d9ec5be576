// Package apierror defines the failure shape shared by every request path.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNetwork marks failures where no response was received.
var ErrNetwork = errors.New("network error")

// Response carries what the server answered with.
type Response struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Error is returned for transport failures (Response == nil) and for
// non-2xx answers, whichever path the request took.
type Error struct {
	Message  string    `json:"message"`
	Method   string    `json:"method,omitempty"`
	URL      string    `json:"url,omitempty"`
	Response *Response `json:"response,omitempty"`
	Err      error     `json:"-"`

	// Notified is set once the user has been told about this failure.
	Notified bool `json:"-"`
}

func (e *Error) Error() string {
	if e.Response != nil {
		return fmt.Sprintf("%s %s: status=%d: %s", e.Method, e.URL, e.Response.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Response == nil {
		return ErrNetwork
	}
	return e.Err
}

// Status returns the HTTP status, or 0 when no response arrived.
func (e *Error) Status() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.Status
}

// IsNetwork reports whether the request never got an answer.
func (e *Error) IsNetwork() bool {
	return e.Response == nil
}

// Network wraps a transport failure.
func Network(method, url string, cause error) *Error {
	return &Error{
		Message: "Network error",
		Method:  method,
		URL:     url,
		Err:     cause,
	}
}

// FromResponse builds the error for a non-2xx answer. The message is the
// server's "message" field when the body is a JSON object carrying one, the
// status line otherwise.
func FromResponse(method, url string, status int, statusLine string, body []byte) *Error {
	msg := ServerMessage(body)
	if msg == "" {
		msg = statusLine
	}
	if msg == "" {
		msg = fmt.Sprintf("%d %s", status, http.StatusText(status))
	}

	resp := &Response{Status: status}
	if len(body) > 0 {
		if json.Valid(body) {
			resp.Data = json.RawMessage(body)
		} else {
			quoted, _ := json.Marshal(string(body))
			resp.Data = quoted
		}
	}

	return &Error{
		Message:  msg,
		Method:   method,
		URL:      url,
		Response: resp,
	}
}

// ServerMessage extracts the "message" field of a JSON error body.
func ServerMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Message) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(payload.Message, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// As is errors.As for *Error.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
