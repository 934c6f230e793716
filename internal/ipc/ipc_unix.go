//go:build !windows

package ipc

import (
	"net"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

func defaultSocketPath() string {
	if dir := xdg.RuntimeDir; dir != "" {
		return filepath.Join(dir, "clipvault.sock")
	}
	return filepath.Join(os.TempDir(), "clipvault.sock")
}

func listenIPC(path string) (net.Listener, error) {
	return net.Listen("unix", path)
}

func dialIPC(path string) (net.Conn, error) {
	return net.Dial("unix", path)
}

func removeStale(path string) error {
	return os.Remove(path)
}
