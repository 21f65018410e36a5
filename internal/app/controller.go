package app

import (
	"context"
	"sync"
	"time"

	"github.com/evanschultz/roulette/internal/domain"
	"github.com/google/uuid"
)

// DefaultSpinDelay is how long a spin runs before it settles.
const DefaultSpinDelay = 3 * time.Second

// ControllerConfig holds configuration for a timer-driven controller.
type ControllerConfig struct {
	Delay     time.Duration
	NewSpinID func() string
	Draw      func() float64
	OnSettled func(Session, error)
}

// pendingSpin tracks one armed settle timer.
type pendingSpin struct {
	id    string
	timer *time.Timer
	done  chan struct{}
	err   error
}

// Controller drives a Session with a real timer. The timer callback runs on
// its own goroutine, so state is guarded by a mutex.
type Controller struct {
	mu      sync.Mutex
	cfg     ControllerConfig
	session Session
	pending *pendingSpin
}

// NewController constructs a controller around session.
func NewController(session Session, cfg ControllerConfig) *Controller {
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.NewSpinID == nil {
		cfg.NewSpinID = uuid.NewString
	}
	if cfg.Draw == nil {
		cfg.Draw = func() float64 { return 0 }
	}
	return &Controller{cfg: cfg, session: session}
}

// Session returns a snapshot of the current state.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// SetRoster replaces the rosters.
func (c *Controller) SetRoster(members, tasks []domain.Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = c.session.WithRoster(members, tasks)
}

// Spin starts a spin and arms the settle timer.
func (c *Controller) Spin() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.cfg.NewSpinID()
	next, err := c.session.BeginSpin(id, c.cfg.Draw())
	if err != nil {
		return "", err
	}
	c.session = next
	p := &pendingSpin{id: id, done: make(chan struct{})}
	p.timer = time.AfterFunc(c.cfg.Delay, func() { c.settle(p) })
	c.pending = p
	return id, nil
}

// settle runs when a spin timer fires.
func (c *Controller) settle(p *pendingSpin) {
	c.mu.Lock()
	if c.pending != p {
		c.mu.Unlock()
		return
	}
	next, err := c.session.Settle(p.id)
	c.session = next
	c.pending = nil
	p.err = err
	close(p.done)
	onSettled := c.cfg.OnSettled
	c.mu.Unlock()

	if onSettled != nil {
		onSettled(next, err)
	}
}

// Wait blocks until the in-flight spin settles, is canceled, or ctx ends.
// It returns immediately when no spin is pending.
func (c *Controller) Wait(ctx context.Context) (Session, error) {
	c.mu.Lock()
	p := c.pending
	c.mu.Unlock()
	if p == nil {
		return c.Session(), nil
	}
	select {
	case <-p.done:
		return c.Session(), p.err
	case <-ctx.Done():
		return c.Session(), ctx.Err()
	}
}

// Reset cancels any pending settle and clears the session.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
	c.session = c.session.Reset()
}

// Close cancels any pending settle. A spin in flight is abandoned and the
// session returns to idle with its rosters, so the controller can spin again.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
	c.session = c.session.CancelSpin()
}

// cancelPendingLocked stops the armed timer and releases waiters.
func (c *Controller) cancelPendingLocked() {
	if c.pending == nil {
		return
	}
	c.pending.timer.Stop()
	c.pending.err = ErrSpinCanceled
	close(c.pending.done)
	c.pending = nil
}
