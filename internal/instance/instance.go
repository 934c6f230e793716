// Package instance guarantees at most one monitor process per OS user.
//
// The guard is a per-user lock file held under an exclusive OS-level lock
// (flock on Unix, LockFileEx on Windows). The kernel releases the lock when
// the holding process dies for any reason, so a crash never strands it.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
)

// ErrAlreadyRunning reports that another process holds the guard. It is an
// expected control-flow outcome for a second launch, not a fault.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Guard is a held single-instance lock. It stays held for the entire process
// lifetime; Release is only useful for orderly shutdown and tests.
type Guard struct {
	f    *os.File
	path string
}

// DefaultPath returns the per-user lock file location.
func DefaultPath() string {
	if dir := xdg.RuntimeDir; dir != "" {
		return filepath.Join(dir, "clipvault.lock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("clipvault-%d.lock", os.Getuid()))
}

// Acquire takes the exclusive lock at path, returning ErrAlreadyRunning when
// another process holds it. The pid is written into the file for diagnostics
// only; exclusivity comes from the OS lock, never from the file contents.
func Acquire(path string) (*Guard, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := lockExclusive(f); err != nil {
		f.Close()
		if errors.Is(err, errWouldBlock) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	_ = f.Truncate(0)
	_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0)

	return &Guard{f: f, path: path}, nil
}

// Release drops the lock and removes the file. Idempotent; the OS would
// release the lock on process exit anyway.
func (g *Guard) Release() {
	if g.f == nil {
		return
	}
	_ = unlock(g.f)
	_ = g.f.Close()
	_ = os.Remove(g.path)
	g.f = nil
}
