//go:build windows

package ipc

import (
	"net"

	"github.com/Microsoft/go-winio"
)

const pipeName = `\\.\pipe\clipvault`

func defaultSocketPath() string { return pipeName }

func listenIPC(_ string) (net.Listener, error) {
	return winio.ListenPipe(pipeName, nil)
}

func dialIPC(_ string) (net.Conn, error) {
	return winio.DialPipe(pipeName, nil)
}

// Named pipes disappear with their server; nothing stale to clean up.
func removeStale(_ string) error { return nil }
