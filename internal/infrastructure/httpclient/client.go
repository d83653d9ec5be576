package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"backoffice-agent/internal/config"
	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/apierror"
	"backoffice-agent/internal/infrastructure/notify"
	"backoffice-agent/internal/infrastructure/token"
)

// NetworkErrorMessage is shown whenever a request gets no response.
const NetworkErrorMessage = "Network error. Please check your connection."

const requestIDHeader = "X-Request-ID"

type HTTPClient interface {
	// Get performs a GET; query may be nil.
	Get(ctx context.Context, path string, query url.Values, result interface{}) error
	// Post sends body as JSON.
	Post(ctx context.Context, path string, body interface{}, result interface{}) error
	Put(ctx context.Context, path string, body interface{}, result interface{}) error
	Patch(ctx context.Context, path string, body interface{}, result interface{}) error
	Delete(ctx context.Context, path string, result interface{}) error
	// Upload sends a multipart form with optional progress reporting.
	Upload(ctx context.Context, req UploadRequest, result interface{}) error
	// Fetch retrieves a binary file.
	Fetch(ctx context.Context, path string) (*FilePayload, error)
}

// APILogSaver persists a record of every call made.
type APILogSaver interface {
	Save(ctx context.Context, log *entity.APILog) error
}

type httpClient struct {
	client   *http.Client
	transfer *http.Client
	config   *config.Config
	baseURL  string
	tokens   token.TokenService
	notifier notify.Notifier
	saver    APILogSaver
	logger   *zap.Logger
}

func NewHTTPClient(cfg *config.Config, tokens token.TokenService, notifier notify.Notifier, saver APILogSaver, logger *zap.Logger) HTTPClient {
	logger.Info("HTTP client initialized",
		zap.String("base_url", cfg.API.BaseURL),
		zap.Duration("timeout", cfg.API.Timeout),
	)

	return &httpClient{
		client: &http.Client{
			Timeout: cfg.API.Timeout,
		},
		// uploads and file transfers are bounded by ctx only
		transfer: &http.Client{},
		config:   cfg,
		baseURL:  config.NormalizeBaseURL(cfg.API.BaseURL),
		tokens:   tokens,
		notifier: notifier,
		saver:    saver,
		logger:   logger,
	}
}

// outgoing is a fully built request that can be sent more than once.
type outgoing struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	accept      string
	logBody     []byte
	transfer    bool
	progress    *progressTracker
}

type incoming struct {
	status     int
	statusLine string
	header     http.Header
	body       []byte
	url        string
}

func (c *httpClient) buildURL(path string, query url.Values) string {
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	return fullURL
}

// send performs the request, refreshing the session and replaying once if
// the server answers 401. A replay that gets 401 again is returned as is.
func (c *httpClient) send(ctx context.Context, out *outgoing) (*incoming, error) {
	bearer, _ := c.tokens.AccessToken(ctx)

	retried := false
	for {
		in, err := c.roundTrip(ctx, out, bearer, retried)
		if err != nil {
			return nil, err
		}

		if in.status != http.StatusUnauthorized || retried {
			return in, nil
		}

		c.logger.Info("Received 401 Unauthorized, attempting to refresh token",
			zap.String("method", out.method),
			zap.String("path", out.path),
		)

		fresh, err := c.tokens.Refresh(ctx, bearer)
		if err != nil {
			c.logger.Error("Failed to refresh token", zap.Error(err))
			return nil, err
		}

		c.logger.Info("Token refreshed, retrying request", zap.String("path", out.path))
		bearer = fresh
		retried = true
	}
}

func (c *httpClient) roundTrip(ctx context.Context, out *outgoing, bearer string, retried bool) (*incoming, error) {
	fullURL := c.buildURL(out.path, out.query)

	var bodyReader io.Reader
	if out.body != nil {
		bodyReader = bytes.NewReader(out.body)
		if out.progress != nil {
			bodyReader = out.progress.wrap(bodyReader, int64(len(out.body)))
		}
	}

	req, err := http.NewRequestWithContext(ctx, out.method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if out.body != nil {
		req.ContentLength = int64(len(out.body))
	}

	contentType := out.contentType
	if contentType == "" {
		contentType = "application/json"
	}
	accept := out.accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", accept)
	req.Header.Set(requestIDHeader, uuid.NewString())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	logBody := out.logBody
	if logBody == nil {
		logBody = out.body
	}
	c.logRequest(out.method, fullURL, req.Header, logBody, retried)

	hc := c.client
	if out.transfer {
		hc = c.transfer
	}

	startTime := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return nil, c.networkFailure(ctx, req, logBody, startTime, retried, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.networkFailure(ctx, req, logBody, startTime, retried, err)
	}

	duration := time.Since(startTime)

	c.logResponse(resp.StatusCode, resp.Status, duration, resp.Header, respBody)
	storedBody := respBody
	if !isTextual(resp.Header.Get("Content-Type")) {
		storedBody = []byte(fmt.Sprintf("[%d bytes %s]", len(respBody), resp.Header.Get("Content-Type")))
	}
	c.saveAPILog(req.Header.Get(requestIDHeader), out.method, fullURL, logBody, storedBody, resp.StatusCode, duration, retried)

	return &incoming{
		status:     resp.StatusCode,
		statusLine: resp.Status,
		header:     resp.Header,
		body:       respBody,
		url:        fullURL,
	}, nil
}

// networkFailure records a request that got no response and tells the user,
// unless the caller cancelled it.
func (c *httpClient) networkFailure(ctx context.Context, req *http.Request, logBody []byte, startTime time.Time, retried bool, cause error) error {
	duration := time.Since(startTime)
	fullURL := req.URL.String()

	c.logger.Warn("Request failed without response",
		zap.String("method", req.Method),
		zap.String("url", fullURL),
		zap.Duration("duration", duration),
		zap.Error(cause),
	)
	c.saveAPILog(req.Header.Get(requestIDHeader), req.Method, fullURL, logBody, nil, 0, duration, retried)

	apiErr := apierror.Network(req.Method, fullURL, cause)
	if errors.Is(ctx.Err(), context.Canceled) {
		return apiErr
	}

	c.notifier.Notify(notify.LevelError, NetworkErrorMessage)
	apiErr.Notified = true
	return apiErr
}

// finish turns a final response into the caller's result or an error.
func (c *httpClient) finish(method string, in *incoming, result interface{}) error {
	if in.status < 200 || in.status >= 300 {
		return apierror.FromResponse(method, in.url, in.status, in.statusLine, in.body)
	}
	return decodeResult(in.body, result)
}

// decodeResult unmarshals JSON into result. A *string result receives the raw
// text when the body is not JSON.
func decodeResult(body []byte, result interface{}) error {
	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		if s, ok := result.(*string); ok {
			*s = string(body)
			return nil
		}
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (c *httpClient) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}, result interface{}) error {
	out := &outgoing{
		method: method,
		path:   path,
		query:  query,
	}

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		out.body = jsonBody
	}

	in, err := c.send(ctx, out)
	if err != nil {
		return err
	}
	return c.finish(method, in, result)
}

func (c *httpClient) Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.doRequest(ctx, http.MethodGet, path, query, nil, result)
}

func (c *httpClient) Post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.doRequest(ctx, http.MethodPost, path, nil, body, result)
}

func (c *httpClient) Put(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.doRequest(ctx, http.MethodPut, path, nil, body, result)
}

func (c *httpClient) Patch(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.doRequest(ctx, http.MethodPatch, path, nil, body, result)
}

func (c *httpClient) Delete(ctx context.Context, path string, result interface{}) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil, result)
}
