package tui

import (
	"time"

	"github.com/evanschultz/roulette/internal/app"
	"github.com/evanschultz/roulette/internal/wheel"
)

type Option func(*Model)

// WithSessionConfig sets the spin strategy and minimum turns.
func WithSessionConfig(cfg app.SessionConfig) Option {
	return func(m *Model) {
		m.session = app.NewSession(cfg)
	}
}

// WithSpinDelay sets how long a spin animates before it settles.
func WithSpinDelay(d time.Duration) Option {
	return func(m *Model) {
		if d >= 0 {
			m.spinDelay = d
		}
	}
}

// WithFrameInterval sets the animation frame interval.
func WithFrameInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.frameInterval = d
		}
	}
}

func WithWheelOptions(opts wheel.Options) Option {
	return func(m *Model) {
		m.wheelOpts = opts
	}
}

func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

// WithClock overrides the animation clock.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithDraw overrides the random source for spin targets.
func WithDraw(draw func() float64) Option {
	return func(m *Model) {
		if draw != nil {
			m.draw = draw
		}
	}
}

// WithSpinIDs overrides spin token generation.
func WithSpinIDs(next func() string) Option {
	return func(m *Model) {
		if next != nil {
			m.newSpinID = next
		}
	}
}

// WithClipboard overrides clipboard writes.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.writeClipboard = write
		}
	}
}
