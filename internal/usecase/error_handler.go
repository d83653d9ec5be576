package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/apierror"
	"backoffice-agent/internal/infrastructure/document"
	"backoffice-agent/internal/infrastructure/httpclient"
	"backoffice-agent/internal/infrastructure/notify"
	"backoffice-agent/internal/infrastructure/preview"
	"backoffice-agent/internal/infrastructure/token"
)

type ErrorClass string

const (
	ClassNetwork             ErrorClass = "network"
	ClassAuth                ErrorClass = "auth"
	ClassClient              ErrorClass = "client"
	ClassServer              ErrorClass = "server"
	ClassMalformedCredential ErrorClass = "malformed_credential"
	ClassUnknown             ErrorClass = "unknown"
)

const (
	msgNetwork        = httpclient.NetworkErrorMessage
	msgSessionExpired = "Your session has expired. Please log in again."
	msgLoginAgain     = "Please log in again."
	msgServerError    = "Server error. Please try again later."
	msgUnexpected     = "Something went wrong. Please try again."
)

// Classification is the user-facing reading of an error.
type Classification struct {
	Class   ErrorClass `json:"class"`
	Status  int        `json:"status,omitempty"`
	Message string     `json:"message"`
}

// ErrorHandler turns any error from the API core into one user message.
type ErrorHandler interface {
	Classify(err error) Classification
	// Handle classifies err and notifies the user exactly once.
	Handle(err error) Classification
}

type errorHandler struct {
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewErrorHandler(notifier notify.Notifier, logger *zap.Logger) ErrorHandler {
	return &errorHandler{
		notifier: notifier,
		logger:   logger,
	}
}

func (h *errorHandler) Classify(err error) Classification {
	return Classify(err)
}

func (h *errorHandler) Handle(err error) Classification {
	if err == nil {
		return Classification{}
	}

	c := Classify(err)
	h.logger.Warn("Request failed",
		zap.String("class", string(c.Class)),
		zap.Int("status", c.Status),
		zap.Error(err),
	)

	// the client already told the user about requests that never got an answer
	if apiErr, ok := apierror.As(err); ok && apiErr.Notified {
		return c
	}

	level := notify.LevelWarning
	if c.Class == ClassServer || c.Class == ClassNetwork || c.Class == ClassUnknown {
		level = notify.LevelError
	}
	h.notifier.Notify(level, c.Message)
	return c
}

// Classify maps err onto the error taxonomy. It has no side effects.
func Classify(err error) Classification {
	switch {
	case err == nil:
		return Classification{}

	case errors.Is(err, token.ErrNoRefreshToken), errors.Is(err, token.ErrMalformedToken):
		return Classification{Class: ClassMalformedCredential, Message: msgLoginAgain}

	case errors.Is(err, token.ErrUnauthorized):
		return Classification{Class: ClassAuth, Status: http.StatusUnauthorized, Message: msgSessionExpired}
	}

	if apiErr, ok := apierror.As(err); ok {
		if apiErr.IsNetwork() {
			return Classification{Class: ClassNetwork, Message: msgNetwork}
		}
		return classifyStatus(apiErr)
	}

	switch {
	case errors.Is(err, entity.ErrInvalidFileType):
		return Classification{Class: ClassClient, Message: "Invalid file type"}
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, httpclient.ErrMethodNotAllowed),
		errors.Is(err, document.ErrInvalidFilename),
		errors.Is(err, ErrUnknownResource):
		return Classification{Class: ClassClient, Message: "Invalid request"}
	case errors.Is(err, preview.ErrTooLarge):
		return Classification{Class: ClassClient, Message: "File is too large to preview"}
	case errors.Is(err, context.Canceled):
		return Classification{Class: ClassUnknown, Message: "Request was cancelled"}
	case errors.Is(err, context.DeadlineExceeded):
		return Classification{Class: ClassNetwork, Message: msgNetwork}
	}

	return Classification{Class: ClassUnknown, Message: msgUnexpected}
}

func classifyStatus(apiErr *apierror.Error) Classification {
	status := apiErr.Status()
	serverMsg := apierror.ServerMessage(apiErr.Response.Data)

	c := Classification{Class: ClassClient, Status: status}
	switch {
	case status == http.StatusUnauthorized:
		c.Class = ClassAuth
		c.Message = msgSessionExpired
	case status == http.StatusBadRequest:
		c.Message = lo.Ternary(serverMsg != "", serverMsg, "Invalid request")
	case status == http.StatusForbidden:
		c.Message = lo.Ternary(serverMsg != "", serverMsg, "Access denied")
	case status == http.StatusNotFound:
		c.Message = "Resource not found"
	case status == http.StatusUnprocessableEntity:
		c.Message = validationMessage(apiErr.Response.Data, serverMsg)
	case status >= 400 && status < 500:
		c.Message = lo.Ternary(serverMsg != "", serverMsg, fmt.Sprintf("Request failed (status %d)", status))
	case status == http.StatusInternalServerError, status == http.StatusBadGateway,
		status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		c.Class = ClassServer
		c.Message = msgServerError
	case status >= 500:
		c.Class = ClassServer
		c.Message = fmt.Sprintf("Server error (status %d). Please try again later.", status)
	default:
		c.Class = ClassUnknown
		c.Message = msgUnexpected
	}
	return c
}

type validationError struct {
	Msg string `json:"msg"`
}

// validationMessage joins errors[].msg, falling back to the server message.
func validationMessage(data json.RawMessage, serverMsg string) string {
	var body struct {
		Errors []validationError `json:"errors"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		msgs := lo.FilterMap(body.Errors, func(e validationError, _ int) (string, bool) {
			m := strings.TrimSpace(e.Msg)
			return m, m != ""
		})
		if len(msgs) > 0 {
			return strings.Join(msgs, ", ")
		}
	}
	if serverMsg != "" {
		return serverMsg
	}
	return "Validation failed"
}
