// Package clip provides access to the system clipboard's plain-text contents.
//
// The real backend sits on golang.design/x/clipboard. When the display
// environment is unavailable (headless server, CI container) New falls back
// to a no-op backend so that callers never have to special-case a missing
// clipboard: every read just reports ErrUnreadable.
//
// Non-text clipboard contents (images, files, rich text) are out of scope
// and surface as ErrUnreadable like any other unreadable state.
package clip

import "errors"

// ErrUnreadable is returned when the clipboard holds no readable text:
// locked by another process, non-text data, or no display environment.
// It is an expected, transient condition, not a fault.
var ErrUnreadable = errors.New("clipboard unreadable")

// Backend is the interface all clipboard implementations satisfy.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// ReadText returns the current clipboard text, or ErrUnreadable when
	// no text is available. Contention with another clipboard owner is
	// reported as ErrUnreadable rather than blocking.
	ReadText() (string, error)

	// WriteText replaces the clipboard contents with text.
	WriteText(text string) error

	// Close releases any resources held by the backend.
	Close()
}
