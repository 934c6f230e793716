// Package watcher implements clipboard change detection.
//
// The watcher polls the clipboard at a fixed cadence: there is no portable
// cross-platform clipboard-change notification, so polling is the contract.
// A native change hook could be slotted in behind the same type later.
// Detected changes are appended to the history store. The last-seen value is
// owned exclusively by the watcher; other components only ever observe its
// effects through the store.
package watcher

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/borgar90/ClipVault/internal/clip"
	"github.com/borgar90/ClipVault/internal/store"
)

// DefaultInterval is the default polling cadence. A tunable, not a
// correctness property.
const DefaultInterval = 400 * time.Millisecond

// Watcher polls the clipboard and appends genuine new text values to the
// history store.
type Watcher struct {
	backend  clip.Backend
	st       *store.Store
	interval time.Duration

	mu          sync.Mutex
	lastSeen    string
	initialized bool

	done chan struct{}
}

// New creates a watcher. interval <= 0 selects DefaultInterval.
func New(backend clip.Backend, st *store.Store, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		backend:  backend,
		st:       st,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Run blocks until ctx is cancelled, then closes Done as its stop
// acknowledgment.
//
// The first value successfully read off the clipboard becomes the baseline
// and is never stored: pre-existing content must not pollute history on
// every launch. If the clipboard is unreadable at startup, ticks keep
// retrying the baseline read; capture only begins once it succeeds. A
// persistence failure is logged and monitoring continues; a full disk or
// locked store file never stops observation.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.done)

	w.observeBaseline()
	slog.Info("clipboard watcher started",
		"backend", w.backend.Name(),
		"interval", w.interval,
	)

	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("clipboard watcher stopped")
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

// observeBaseline records the current clipboard value as already seen,
// without storing it. A failed read leaves the watcher uninitialized so a
// later tick can try again.
func (w *Watcher) observeBaseline() {
	text, err := w.backend.ReadText()
	if err != nil {
		return
	}
	w.mu.Lock()
	if !w.initialized {
		w.lastSeen = text
		w.initialized = true
	}
	w.mu.Unlock()
}

func (w *Watcher) tick(ctx context.Context) {
	w.mu.Lock()
	initialized := w.initialized
	w.mu.Unlock()
	if !initialized {
		w.observeBaseline()
		return
	}

	text, err := w.backend.ReadText()
	if err != nil {
		// Expected and frequent: clipboard locked, non-text data.
		return
	}
	if strings.TrimSpace(text) == "" {
		// A cleared clipboard is "no content": it is neither logged nor
		// allowed to mask the next real copy as a duplicate.
		return
	}

	w.mu.Lock()
	if text == w.lastSeen {
		w.mu.Unlock()
		return
	}
	w.lastSeen = text
	w.mu.Unlock()

	if _, err := w.st.Append(ctx, text); err != nil {
		slog.Error("failed to persist clipboard change", "err", err)
	} else {
		slog.Debug("captured clipboard change", "bytes", len(text))
	}
}

// SetLastSeen overrides the last-seen value. Called when a stored item is
// copied back onto the clipboard, before the clipboard write, so the watcher
// does not immediately re-log its own output.
func (w *Watcher) SetLastSeen(text string) {
	w.mu.Lock()
	w.lastSeen = text
	w.initialized = true
	w.mu.Unlock()
}

// Done is closed once the poll loop has fully exited.
func (w *Watcher) Done() <-chan struct{} { return w.done }
