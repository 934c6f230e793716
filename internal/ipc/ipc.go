// Package ipc provides the local socket channel CLI commands use to talk to
// a running monitor daemon: foreground/hide/quit signals, copy-suppression,
// and status queries.
//
// The transport is a Unix domain socket (named pipe on Windows) carrying
// newline-delimited JSON messages. A second launch attempt uses the same
// channel to ask the incumbent to foreground itself; if nothing is
// listening, that signal silently no-ops.
package ipc

import (
	"net"
	"os"
	"time"

	"github.com/borgar90/ClipVault/internal/message"
	"github.com/borgar90/ClipVault/internal/wire"
)

const requestTimeout = 2 * time.Second

// SocketPath returns the platform-appropriate path for the IPC socket.
// Overridable with $CLIPVAULT_SOCKET.
func SocketPath() string {
	if s := os.Getenv("CLIPVAULT_SOCKET"); s != "" {
		return s
	}
	return defaultSocketPath()
}

// IsRunning reports whether a monitor daemon appears to be listening on the
// IPC socket. A cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := dialIPC(SocketPath())
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates a net.Listener on the IPC socket path, removing any stale
// socket file left behind by a crashed run first.
func Listen() (net.Listener, error) {
	path := SocketPath()
	_ = removeStale(path)
	return listenIPC(path)
}

// Dial connects to the running daemon's IPC socket.
func Dial() (*wire.Conn, error) {
	c, err := dialIPC(SocketPath())
	if err != nil {
		return nil, err
	}
	return wire.New(c), nil
}

// Request sends one message to the running daemon and returns its reply.
// The whole exchange is bounded by a short timeout.
func Request(msg *message.Message) (*message.Message, error) {
	wc, err := Dial()
	if err != nil {
		return nil, err
	}
	defer wc.Close()

	if err := wc.WriteMsg(msg); err != nil {
		return nil, err
	}
	wc.SetReadDeadline(requestTimeout)
	return wc.ReadMsg()
}

// Notify sends one message and ignores the reply and any delivery failure.
// Used for fire-and-forget signals like FOREGROUND from a second launch.
func Notify(msg *message.Message) {
	_, _ = Request(msg)
}
