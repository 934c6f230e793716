// Package message defines the local IPC protocol between the clipvault CLI
// and a running monitor daemon.
//
// Every message is one line of JSON: <json>\n. The channel is a local,
// owner-restricted socket, so there is no auth or encryption layer.
package message

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type identifies the kind of message.
type Type string

const (
	// TypeForeground asks the running instance to surface its display
	// state. Sent by a second launch attempt and by "clipvault show".
	TypeForeground Type = "FOREGROUND"
	// TypeHide asks the running instance to hide its display state while
	// monitoring continues.
	TypeHide Type = "HIDE"
	// TypeQuit asks the running instance to shut down cleanly.
	TypeQuit Type = "QUIT"
	// TypeSuppress carries text the watcher must treat as already seen.
	// Sent before a stored item is copied back onto the clipboard.
	TypeSuppress Type = "SUPPRESS"
	// TypeStatus requests a TypeStatusResponse.
	TypeStatus         Type = "STATUS"
	TypeStatusResponse Type = "STATUS_RESPONSE"
	TypeAck            Type = "ACK"
	TypeError          Type = "ERROR"
)

// StatusInfo describes a running monitor daemon.
type StatusInfo struct {
	Version   string        `json:"version"`
	State     string        `json:"state"`
	Visible   bool          `json:"visible"`
	Items     int64         `json:"items"`
	DBPath    string        `json:"db_path"`
	Interval  time.Duration `json:"interval_ns"`
	StartedAt time.Time     `json:"started_at"`
}

// Message is the single envelope for all IPC traffic.
type Message struct {
	Type   Type        `json:"type"`
	Text   string      `json:"text,omitempty"`   // TypeSuppress payload
	Status *StatusInfo `json:"status,omitempty"` // TypeStatusResponse payload
	Error  string      `json:"error,omitempty"`  // TypeError detail
}

// Encode serialises the message to a single JSON document (no newline).
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode parses a single JSON document into a Message.
func Decode(raw []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	if m.Type == "" {
		return nil, fmt.Errorf("decode message: missing type")
	}
	return &m, nil
}
