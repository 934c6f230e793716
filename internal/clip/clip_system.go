package clip

import (
	"log/slog"

	xclip "golang.design/x/clipboard"
)

// New returns the system clipboard backend, or a headless no-op backend if
// the display environment is unavailable. xclip.Init is called here rather
// than in init() so that read-only sub-commands (list, export) never touch
// the clipboard at all.
func New() Backend {
	if err := xclip.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return headlessBackend{}
	}
	return systemBackend{}
}

type systemBackend struct{}

func (systemBackend) Name() string { return "system clipboard" }

func (systemBackend) ReadText() (string, error) {
	data := xclip.Read(xclip.FmtText)
	if data == nil {
		return "", ErrUnreadable
	}
	return string(data), nil
}

func (systemBackend) WriteText(text string) error {
	xclip.Write(xclip.FmtText, []byte(text))
	return nil
}

func (systemBackend) Close() {}

// headlessBackend keeps the daemon alive on hosts without a clipboard.
type headlessBackend struct{}

func (headlessBackend) Name() string                { return "headless (no clipboard)" }
func (headlessBackend) ReadText() (string, error)   { return "", ErrUnreadable }
func (headlessBackend) WriteText(text string) error { return nil }
func (headlessBackend) Close()                      {}
