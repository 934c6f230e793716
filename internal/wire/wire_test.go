package wire

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borgar90/ClipVault/internal/message"
)

func TestRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	ca, cb := New(a), New(b)
	defer ca.Close()
	defer cb.Close()

	go func() {
		_ = ca.WriteMsg(&message.Message{Type: message.TypeSuppress, Text: "hello\nworld"})
	}()

	got, err := cb.ReadMsg()
	require.NoError(t, err)
	assert.Equal(t, message.TypeSuppress, got.Type)
	assert.Equal(t, "hello\nworld", got.Text)
}

func TestStatusPayloadRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	ca, cb := New(a), New(b)
	defer ca.Close()
	defer cb.Close()

	sent := &message.Message{
		Type: message.TypeStatusResponse,
		Status: &message.StatusInfo{
			Version:  "1.2.3",
			State:    "running (hidden)",
			Items:    42,
			Interval: 400 * time.Millisecond,
		},
	}
	go func() { _ = ca.WriteMsg(sent) }()

	got, err := cb.ReadMsg()
	require.NoError(t, err)
	require.NotNil(t, got.Status)
	assert.Equal(t, int64(42), got.Status.Items)
	assert.Equal(t, 400*time.Millisecond, got.Status.Interval)
	assert.False(t, got.Status.Visible)
}

func TestReadRejectsMissingType(t *testing.T) {
	a, b := net.Pipe()
	cb := New(b)
	defer cb.Close()

	go func() {
		a.Write([]byte("{}\n"))
		a.Close()
	}()

	_, err := cb.ReadMsg()
	assert.Error(t, err)
}

func TestReadAfterClose(t *testing.T) {
	a, b := net.Pipe()
	cb := New(b)
	a.Close()

	_, err := cb.ReadMsg()
	assert.Error(t, err)
}
