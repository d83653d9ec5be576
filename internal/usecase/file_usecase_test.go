package usecase

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"backoffice-agent/internal/infrastructure/document"
	"backoffice-agent/internal/infrastructure/preview"
)

type recordingOpener struct {
	mu       sync.Mutex
	urls     []string
	launches bool
}

func (o *recordingOpener) Launches() bool { return o.launches }

func (o *recordingOpener) Open(url string) error {
	o.mu.Lock()
	o.urls = append(o.urls, url)
	o.mu.Unlock()
	return nil
}

func newFileUsecase(t *testing.T, b *backend, opener preview.Opener) (FileUsecase, *preview.Registry) {
	t.Helper()
	logger := zap.NewNop()
	docs, err := document.NewDocumentService(b.cfg, logger)
	if err != nil {
		t.Fatalf("document service: %v", err)
	}
	registry := preview.NewRegistry(b.cfg, logger)
	return NewFileUsecase(b.cfg, b.client, docs, registry, opener, logger), registry
}

func TestViewRegistersPreviewAndOpensIt(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/view/agreement 1.pdf" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `inline; filename="agreement.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.4"))
	})

	opener := &recordingOpener{}
	files, registry := newFileUsecase(t, b, opener)

	link, err := files.View(context.Background(), "agreement 1.pdf")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if link.URL != "http://localhost:8088/preview/"+link.ID {
		t.Fatalf("url = %q", link.URL)
	}
	if link.Filename != "agreement.pdf" {
		t.Fatalf("filename = %q", link.Filename)
	}

	entry, ok := registry.Get(link.ID)
	if !ok || string(entry.Data) != "%PDF-1.4" || entry.ContentType != "application/pdf" {
		t.Fatalf("entry = %+v", entry)
	}

	opener.mu.Lock()
	defer opener.mu.Unlock()
	if len(opener.urls) != 1 || opener.urls[0] != link.URL {
		t.Fatalf("opened = %v", opener.urls)
	}
}

func TestViewUsesPublicBaseURL(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	})
	b.cfg.App.BaseURL = "https://agent.local/"

	files, _ := newFileUsecase(t, b, &recordingOpener{})
	link, err := files.View(context.Background(), "x.txt")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !strings.HasPrefix(link.URL, "https://agent.local/preview/") {
		t.Fatalf("url = %q", link.URL)
	}
}

func TestDownloadSavesUnderDisplayName(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/download/f-123.pdf" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("contents"))
	})

	files, _ := newFileUsecase(t, b, &recordingOpener{})

	path, err := files.Download(context.Background(), "f-123.pdf", "../License.pdf")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if filepath.Base(path) != "License.pdf" || filepath.Dir(path) != b.cfg.Files.DownloadDir {
		t.Fatalf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "contents" {
		t.Fatalf("saved %q, %v", data, err)
	}

	path, err = files.Download(context.Background(), "f-123.pdf", "")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if filepath.Base(path) != "f-123.pdf" {
		t.Fatalf("fallback name = %q", path)
	}
}

func TestViewKeepsPreviewLongerWhenNoBrowserLaunches(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	})
	b.cfg.Files.ViewRevokeDelay = time.Second
	b.cfg.Files.GatewayRevokeDelay = 5 * time.Minute

	cases := []struct {
		name     string
		launches bool
		min, max time.Duration
	}{
		{"browser", true, 0, 30 * time.Second},
		{"gateway caller", false, 4 * time.Minute, 6 * time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			files, _ := newFileUsecase(t, b, &recordingOpener{launches: tc.launches})
			start := time.Now()
			link, err := files.View(context.Background(), "x.txt")
			if err != nil {
				t.Fatalf("view: %v", err)
			}
			if ttl := link.ExpiresAt.Sub(start); ttl < tc.min || ttl > tc.max {
				t.Fatalf("expires in %s", ttl)
			}
		})
	}
}
