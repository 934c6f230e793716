//go:build !windows

package ipc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borgar90/ClipVault/internal/message"
	"github.com/borgar90/ClipVault/internal/wire"
)

func useTempSocket(t *testing.T) {
	t.Helper()
	t.Setenv("CLIPVAULT_SOCKET", filepath.Join(t.TempDir(), "clipvault.sock"))
}

func TestIsRunningWithoutDaemon(t *testing.T) {
	useTempSocket(t)
	assert.False(t, IsRunning())
}

func TestRequestRoundTrip(t *testing.T) {
	useTempSocket(t)

	ln, err := Listen()
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		wc := wire.New(conn)
		msg, err := wc.ReadMsg()
		if err != nil {
			return
		}
		if msg.Type == message.TypeStatus {
			_ = wc.WriteMsg(&message.Message{
				Type:   message.TypeStatusResponse,
				Status: &message.StatusInfo{State: "running (visible)", Visible: true},
			})
		}
	}()

	assert.True(t, IsRunning())

	reply, err := Request(&message.Message{Type: message.TypeStatus})
	require.NoError(t, err)
	require.NotNil(t, reply.Status)
	assert.True(t, reply.Status.Visible)
}

func TestListenRemovesStaleSocket(t *testing.T) {
	useTempSocket(t)

	// Simulate a crashed daemon: the socket path is occupied by a dead
	// file nobody is listening on.
	require.NoError(t, os.WriteFile(SocketPath(), nil, 0o600))

	ln, err := Listen()
	require.NoError(t, err)
	ln.Close()
}

func TestNotifyWithoutDaemonIsSilent(t *testing.T) {
	useTempSocket(t)
	Notify(&message.Message{Type: message.TypeForeground})
}
