// Package lifecycle coordinates the monitor process's run state.
//
// Visibility and process lifetime are independent axes: hiding the display
// surface moves between the two Running substates without touching the
// watcher, which keeps observing identically in both. Only Quit tears the
// watcher down.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State is the process-wide run state.
type State int

const (
	Starting State = iota
	RunningVisible
	RunningHidden
	Stopping
	Terminated
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case RunningVisible:
		return "running (visible)"
	case RunningHidden:
		return "running (hidden)"
	case Stopping:
		return "stopping"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrStopTimeout reports that the watcher did not acknowledge the stop
// signal within the bounded wait. Teardown proceeds regardless; shutdown
// must never hang on a stuck tick.
var ErrStopTimeout = errors.New("watcher did not acknowledge stop in time")

// DefaultStopTimeout bounds how long Quit waits for the watcher's
// acknowledgment.
const DefaultStopTimeout = 2 * time.Second

// Runner is the background task the controller owns, typically the watcher's
// Run method. It must return promptly after ctx is cancelled.
type Runner func(ctx context.Context)

// Controller owns the watcher's start/stop boundary and the
// visible/hidden/terminated state machine.
type Controller struct {
	stopTimeout time.Duration

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	runDone chan struct{}
	done    chan struct{}
}

// New returns a Controller in Starting state. stopTimeout <= 0 selects
// DefaultStopTimeout.
func New(stopTimeout time.Duration) *Controller {
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}
	return &Controller{
		stopTimeout: stopTimeout,
		state:       Starting,
		done:        make(chan struct{}),
	}
}

// Start launches run on its own goroutine and transitions to
// RunningVisible. It is an error to start twice or after termination.
func (c *Controller) Start(run Runner) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Starting {
		return fmt.Errorf("cannot start from state %q", c.state)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		run(ctx)
	}()

	c.cancel = cancel
	c.runDone = runDone
	c.state = RunningVisible
	return nil
}

// Hide moves RunningVisible to RunningHidden. The watcher is unaffected.
// A no-op in any other state.
func (c *Controller) Hide() {
	c.setVisibility(RunningVisible, RunningHidden)
}

// Show moves RunningHidden to RunningVisible. A no-op in any other state.
func (c *Controller) Show() {
	c.setVisibility(RunningHidden, RunningVisible)
}

func (c *Controller) setVisibility(from, to State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == from {
		c.state = to
		slog.Debug("visibility changed", "state", to)
	}
}

// Quit stops the watcher and transitions to Terminated. It waits for the
// watcher's acknowledgment up to the stop timeout and returns ErrStopTimeout
// when the wait expires; the transition to Terminated happens either way.
// A concurrent Quit while another is in flight blocks until that one has
// finished, so callers may tear down shared resources as soon as Quit
// returns. Calling Quit again after termination is a no-op returning nil.
func (c *Controller) Quit() error {
	c.mu.Lock()
	switch c.state {
	case Terminated:
		c.mu.Unlock()
		return nil
	case Stopping:
		c.mu.Unlock()
		<-c.done
		return nil
	case Starting:
		// Never ran; nothing to wait for.
		c.state = Terminated
		close(c.done)
		c.mu.Unlock()
		return nil
	}
	c.state = Stopping
	cancel, runDone := c.cancel, c.runDone
	c.mu.Unlock()

	slog.Info("stopping watcher")
	cancel()

	var err error
	select {
	case <-runDone:
	case <-time.After(c.stopTimeout):
		err = ErrStopTimeout
	}

	c.mu.Lock()
	c.state = Terminated
	close(c.done)
	c.mu.Unlock()

	return err
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Visible reports whether the display surface is considered visible.
func (c *Controller) Visible() bool {
	return c.State() == RunningVisible
}

// Done is closed once the controller has reached Terminated.
func (c *Controller) Done() <-chan struct{} { return c.done }
