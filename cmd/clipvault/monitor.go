package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/borgar90/ClipVault/internal/clip"
	"github.com/borgar90/ClipVault/internal/instance"
	"github.com/borgar90/ClipVault/internal/ipc"
	"github.com/borgar90/ClipVault/internal/lifecycle"
	"github.com/borgar90/ClipVault/internal/message"
	"github.com/borgar90/ClipVault/internal/store"
	"github.com/borgar90/ClipVault/internal/watcher"
	"github.com/borgar90/ClipVault/internal/wire"
)

func newMonitorCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch the clipboard and record history",
		Long: `Starts the clipboard monitor. Every distinct text value copied after
startup is appended to the history database; whatever is on the clipboard
when the monitor starts is never recorded.

At most one monitor runs per user. A second launch asks the running instance
to bring itself to the foreground and exits with a distinct status code.

Config file search order:
  /etc/clipvault/clipvault.toml
  $HOME/.config/clipvault/clipvault.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPVAULT_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runMonitor(v) },
	}

	f := cmd.Flags()
	f.Duration("interval", watcher.DefaultInterval, "clipboard polling interval")
	f.Duration("stop-timeout", lifecycle.DefaultStopTimeout, "bounded wait for the watcher on shutdown")
	addDBFlag(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runMonitor(v *viper.Viper) error {
	setupLogging(v)

	guard, err := instance.Acquire(instance.DefaultPath())
	if errors.Is(err, instance.ErrAlreadyRunning) {
		slog.Info("monitor already running, asking it to come to the foreground")
		ipc.Notify(&message.Message{Type: message.TypeForeground})
		os.Exit(exitAlreadyRunning)
	}
	if err != nil {
		return fmt.Errorf("instance guard: %w", err)
	}
	defer guard.Release()

	dbPath := v.GetString("db")
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer st.Close()

	backend := clip.New()
	defer backend.Close()

	interval := v.GetDuration("interval")
	w := watcher.New(backend, st, interval)

	ctrl := lifecycle.New(v.GetDuration("stop-timeout"))

	slog.Info("clipvault monitor starting",
		"version", Version,
		"db", dbPath,
		"interval", interval,
		"backend", backend.Name(),
	)

	if err := ctrl.Start(w.Run); err != nil {
		return err
	}

	startedAt := time.Now()
	d := &daemon{
		ctrl:      ctrl,
		w:         w,
		st:        st,
		dbPath:    dbPath,
		interval:  interval,
		startedAt: startedAt,
	}

	ipcLn, err := ipc.Listen()
	if err != nil {
		// Monitoring continues; only the command surface is degraded.
		slog.Warn("IPC socket unavailable", "err", err)
	} else {
		slog.Info("IPC socket listening", "path", ipc.SocketPath())
		defer ipcLn.Close()
		go d.serve(ipcLn)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		slog.Info("signal received", "signal", sig)
	case <-ctrl.Done():
		// Quit arrived over IPC.
	}

	if err := ctrl.Quit(); err != nil {
		slog.Warn("shutdown proceeding without watcher acknowledgment", "err", err)
	}
	slog.Info("clipvault monitor stopped")
	return nil
}

// daemon handles IPC requests against the running monitor.
type daemon struct {
	ctrl      *lifecycle.Controller
	w         *watcher.Watcher
	st        *store.Store
	dbPath    string
	interval  time.Duration
	startedAt time.Time
}

func (d *daemon) serve(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go d.handle(conn)
	}
}

func (d *daemon) handle(conn net.Conn) {
	defer conn.Close()
	wc := wire.New(conn)

	wc.SetReadDeadline(5 * time.Second)
	msg, err := wc.ReadMsg()
	if err != nil {
		return
	}

	switch msg.Type {
	case message.TypeForeground:
		d.ctrl.Show()
		slog.Info("foreground requested")
		_ = wc.WriteMsg(&message.Message{Type: message.TypeAck})

	case message.TypeHide:
		d.ctrl.Hide()
		_ = wc.WriteMsg(&message.Message{Type: message.TypeAck})

	case message.TypeSuppress:
		// Set last-seen before the caller writes the clipboard, so the
		// restored value is not immediately re-logged.
		d.w.SetLastSeen(msg.Text)
		_ = wc.WriteMsg(&message.Message{Type: message.TypeAck})

	case message.TypeQuit:
		_ = wc.WriteMsg(&message.Message{Type: message.TypeAck})
		go func() {
			if err := d.ctrl.Quit(); err != nil {
				slog.Warn("shutdown proceeding without watcher acknowledgment", "err", err)
			}
		}()

	case message.TypeStatus:
		items, err := d.st.Count(context.Background())
		if err != nil {
			_ = wc.WriteMsg(&message.Message{Type: message.TypeError, Error: err.Error()})
			return
		}
		_ = wc.WriteMsg(&message.Message{
			Type: message.TypeStatusResponse,
			Status: &message.StatusInfo{
				Version:   Version,
				State:     d.ctrl.State().String(),
				Visible:   d.ctrl.Visible(),
				Items:     items,
				DBPath:    d.dbPath,
				Interval:  d.interval,
				StartedAt: d.startedAt,
			},
		})

	default:
		_ = wc.WriteMsg(&message.Message{
			Type:  message.TypeError,
			Error: fmt.Sprintf("unknown message type %q", msg.Type),
		})
	}
}
