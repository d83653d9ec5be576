package httpclient

import (
	"io"
	"sync"
)

// ProgressFunc receives the share of the request body sent so far, 0 to 100.
type ProgressFunc func(percent int)

// progressTracker reports progress for one upload call. Reported values
// never decrease, including across a replay after token refresh, and nothing
// is reported once the call has returned.
type progressTracker struct {
	mu      sync.Mutex
	fn      ProgressFunc
	high    int
	settled bool
}

func newProgressTracker(fn ProgressFunc) *progressTracker {
	if fn == nil {
		return nil
	}
	return &progressTracker{fn: fn, high: -1}
}

func (t *progressTracker) wrap(r io.Reader, total int64) io.Reader {
	return &progressReader{reader: r, total: total, tracker: t}
}

func (t *progressTracker) report(loaded, total int64) {
	if total <= 0 {
		return
	}
	percent := int(loaded * 100 / total)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.settled || percent < t.high {
		return
	}
	t.high = percent
	t.fn(percent)
}

// settle stops all further reports.
func (t *progressTracker) settle() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.settled = true
	t.mu.Unlock()
}

type progressReader struct {
	reader  io.Reader
	loaded  int64
	total   int64
	tracker *progressTracker
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.loaded += int64(n)
		r.tracker.report(r.loaded, r.total)
	}
	return n, err
}
