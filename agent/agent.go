// Package agent drives an App on a simulated terminal. It backs end-to-end
// tests and scripted runs: start the app, press keys, and wait for text.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/odvcencio/furry-store/backend/sim"
	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/terminal"
)

// Common errors returned by Agent methods.
var (
	ErrTimeout    = errors.New("operation timed out")
	ErrNoApp      = errors.New("no app configured")
	ErrNotRunning = errors.New("app is not running")
	ErrRunning    = errors.New("app already running")
)

// Agent runs an App against a sim backend.
type Agent struct {
	mu       sync.Mutex
	app      *runtime.App
	sim      *sim.Backend
	tickRate time.Duration
	timeout  time.Duration

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Config configures an Agent.
type Config struct {
	// App is the application to drive. Its backend must be Sim.
	App *runtime.App

	// Sim is the simulation backend. If nil, one is created with Width and
	// Height (default 80x24).
	Sim *sim.Backend

	Width, Height int

	// TickRate is the polling interval while waiting. Default is 10ms.
	TickRate time.Duration

	// Timeout bounds Start and WaitForText. Default is 2s.
	Timeout time.Duration
}

// New creates a new Agent with the given configuration.
func New(cfg Config) *Agent {
	s := cfg.Sim
	if s == nil {
		s = sim.New(cfg.Width, cfg.Height)
	}
	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = 10 * time.Millisecond
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Agent{
		app:      cfg.App,
		sim:      s,
		tickRate: tickRate,
		timeout:  timeout,
	}
}

// Backend returns the underlying simulation backend.
func (a *Agent) Backend() *sim.Backend {
	if a == nil {
		return nil
	}
	return a.sim
}

// Start runs the app and waits for its first frame. If Run fails before
// showing a frame, Start returns that error.
func (a *Agent) Start(ctx context.Context) error {
	if a == nil || a.app == nil {
		return ErrNoApp
	}
	a.mu.Lock()
	if a.done != nil {
		a.mu.Unlock()
		return ErrRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done
	a.err = nil
	a.mu.Unlock()

	go func() {
		err := a.app.Run(runCtx)
		a.mu.Lock()
		a.err = err
		a.mu.Unlock()
		close(done)
	}()

	deadline := time.Now().Add(a.timeout)
	for a.sim.Shows() == 0 {
		select {
		case <-done:
			return a.Err()
		default:
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("wait for first frame: %w", ErrTimeout)
		}
		time.Sleep(a.tickRate)
	}
	return nil
}

// Stop cancels the app and waits for Run to return. A cancelled run is not
// reported as an error.
func (a *Agent) Stop() error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.mu.Unlock()
	if done == nil {
		return nil
	}
	cancel()
	<-done

	a.mu.Lock()
	a.cancel, a.done = nil, nil
	a.mu.Unlock()
	if err := a.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Wait blocks until Run returns on its own, such as after a Quit command.
func (a *Agent) Wait() error {
	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done == nil {
		return ErrNotRunning
	}
	select {
	case <-done:
		return a.Err()
	case <-time.After(a.timeout):
		return fmt.Errorf("wait for exit: %w", ErrTimeout)
	}
}

// Err returns the error Run finished with, if it has finished.
func (a *Agent) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Press sends printable keys in order.
func (a *Agent) Press(keys string) error {
	for _, r := range keys {
		if err := a.sim.InjectKey(r); err != nil {
			return fmt.Errorf("press %q: %w", r, err)
		}
	}
	return nil
}

// PressKey sends a special key.
func (a *Agent) PressKey(key terminal.Key) error {
	if err := a.sim.InjectKeyCode(key); err != nil {
		return fmt.Errorf("press %s: %w", key, err)
	}
	return nil
}

// Text returns the last shown frame.
func (a *Agent) Text() string {
	if a == nil || a.sim == nil {
		return ""
	}
	return a.sim.Text()
}

// ContainsText reports whether text is on screen.
func (a *Agent) ContainsText(text string) bool {
	return strings.Contains(a.Text(), text)
}

// WaitForText polls until text is on screen.
func (a *Agent) WaitForText(text string) error {
	return a.waitFor(func() bool { return a.ContainsText(text) }, "text "+fmt.Sprintf("%q", text))
}

// WaitForNoText polls until text is gone from the screen.
func (a *Agent) WaitForNoText(text string) error {
	return a.waitFor(func() bool { return !a.ContainsText(text) }, "absence of "+fmt.Sprintf("%q", text))
}

func (a *Agent) waitFor(cond func() bool, what string) error {
	deadline := time.Now().Add(a.timeout)
	for !cond() {
		if time.Now().After(deadline) {
			return fmt.Errorf("wait for %s: %w", what, ErrTimeout)
		}
		time.Sleep(a.tickRate)
	}
	return nil
}

// Snapshot returns the current frame with its metadata.
func (a *Agent) Snapshot() Snapshot {
	if a == nil || a.sim == nil {
		return Snapshot{}
	}
	w, h := a.sim.Size()
	return Snapshot{
		Timestamp: time.Now(),
		Width:     w,
		Height:    h,
		Frames:    a.sim.Shows(),
		Text:      a.sim.Text(),
	}
}
