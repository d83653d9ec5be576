package httpclient

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"

	"backoffice-agent/internal/infrastructure/apierror"
)

// ErrMethodNotAllowed is returned for uploads that are neither POST nor PUT.
var ErrMethodNotAllowed = errors.New("upload method must be POST or PUT")

// UploadRequest describes a multipart call. Method defaults to POST.
type UploadRequest struct {
	Method   string
	Path     string
	Form     *Form
	Progress ProgressFunc
}

// FilePayload is a file returned by the server.
type FilePayload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (c *httpClient) Upload(ctx context.Context, req UploadRequest, result interface{}) error {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodPost
	}
	if method != http.MethodPost && method != http.MethodPut {
		return fmt.Errorf("%w: %s", ErrMethodNotAllowed, req.Method)
	}

	form := req.Form
	if form == nil {
		form = NewForm()
	}

	body, contentType, summary, err := form.encode()
	if err != nil {
		return err
	}

	tracker := newProgressTracker(req.Progress)
	defer tracker.settle()

	in, err := c.send(ctx, &outgoing{
		method:      method,
		path:        req.Path,
		body:        body,
		contentType: contentType,
		logBody:     summary,
		transfer:    true,
		progress:    tracker,
	})
	if err != nil {
		return err
	}
	return c.finish(method, in, result)
}

func (c *httpClient) Fetch(ctx context.Context, filePath string) (*FilePayload, error) {
	in, err := c.send(ctx, &outgoing{
		method:   http.MethodGet,
		path:     filePath,
		accept:   "*/*",
		transfer: true,
	})
	if err != nil {
		return nil, err
	}

	if in.status < 200 || in.status >= 300 {
		return nil, apierror.FromResponse(http.MethodGet, in.url, in.status, in.statusLine, in.body)
	}

	contentType := in.header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(in.body)
	}

	return &FilePayload{
		Filename:    filenameFromDisposition(in.header.Get("Content-Disposition"), path.Base(filePath)),
		ContentType: contentType,
		Data:        in.body,
	}, nil
}

func filenameFromDisposition(disposition, fallback string) string {
	if disposition == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil || params["filename"] == "" {
		return fallback
	}
	return params["filename"]
}
