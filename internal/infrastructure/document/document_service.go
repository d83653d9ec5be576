package document

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"backoffice-agent/internal/config"
	"backoffice-agent/internal/infrastructure/httpclient"
)

// ErrInvalidFilename is returned when a name reduces to nothing usable.
var ErrInvalidFilename = errors.New("invalid filename")

// DocumentService handles local file operations
type DocumentService interface {
	// LocalFile reads a file from disk as an upload part
	LocalFile(path string) (httpclient.FileUpload, error)

	// SaveDownload writes content into the download folder under name and
	// returns the final path. The file appears complete or not at all.
	SaveDownload(name string, content []byte) (string, error)

	// GetDownloadPath returns the full path to the download folder
	GetDownloadPath() string
}

type documentService struct {
	config *config.FilesConfig
	logger *zap.Logger
}

func NewDocumentService(cfg *config.Config, logger *zap.Logger) (DocumentService, error) {
	svc := &documentService{
		config: &cfg.Files,
		logger: logger,
	}

	if err := os.MkdirAll(svc.GetDownloadPath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create download directory %s: %w", svc.GetDownloadPath(), err)
	}

	logger.Info("Document service initialized",
		zap.String("download_folder", svc.GetDownloadPath()),
	)

	return svc, nil
}

func (s *documentService) GetDownloadPath() string {
	return filepath.Clean(s.config.DownloadDir)
}

func (s *documentService) LocalFile(path string) (httpclient.FileUpload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return httpclient.FileUpload{}, fmt.Errorf("failed to read document file: %w", err)
	}

	filename := filepath.Base(path)
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	s.logger.Info("Document loaded successfully",
		zap.String("filename", filename),
		zap.String("content_type", contentType),
		zap.Int("size_bytes", len(content)),
	)

	return httpclient.FileUpload{
		Filename:    filename,
		ContentType: contentType,
		Content:     content,
	}, nil
}

// SanitizeFilename strips any directory part from name.
func SanitizeFilename(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == ".." || base == "/" || base == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return base, nil
}

func (s *documentService) SaveDownload(name string, content []byte) (string, error) {
	filename, err := SanitizeFilename(name)
	if err != nil {
		return "", err
	}

	dir := s.GetDownloadPath()
	finalPath := filepath.Join(dir, filename)

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write download: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move download into place: %w", err)
	}

	s.logger.Info("File saved to download folder",
		zap.String("filename", filename),
		zap.String("path", finalPath),
		zap.Int("size_bytes", len(content)),
	)

	return finalPath, nil
}
