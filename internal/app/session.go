package app

import (
	"errors"
	"strings"

	"github.com/evanschultz/roulette/internal/domain"
	"github.com/evanschultz/roulette/internal/roulette"
)

// Phase is the spin lifecycle state.
type Phase int

// PhaseIdle and related constants define the spin lifecycle.
const (
	PhaseIdle Phase = iota
	PhaseSpinning
	PhaseSettled
)

// String returns the phase label.
func (p Phase) String() string {
	switch p {
	case PhaseSpinning:
		return "spinning"
	case PhaseSettled:
		return "settled"
	default:
		return "idle"
	}
}

// SessionConfig holds configuration for session transitions.
type SessionConfig struct {
	MinTurns int
	Strategy roulette.Strategy
}

// Session is the roulette state. Every transition returns a new Session and
// leaves the receiver untouched.
type Session struct {
	cfg         SessionConfig
	members     []domain.Entity
	tasks       []domain.Entity
	rotation    float64
	assignments []domain.Assignment
	phase       Phase
	spinID      string
}

// NewSession constructs an idle session.
func NewSession(cfg SessionConfig) Session {
	if cfg.MinTurns <= 0 {
		cfg.MinTurns = roulette.DefaultMinTurns
	}
	if cfg.Strategy == nil {
		cfg.Strategy = roulette.Wheel{}
	}
	return Session{cfg: cfg}
}

// Members returns the member roster.
func (s Session) Members() []domain.Entity { return append([]domain.Entity(nil), s.members...) }

// Tasks returns the task roster.
func (s Session) Tasks() []domain.Entity { return append([]domain.Entity(nil), s.tasks...) }

// Rotation returns the wheel angle in degrees.
func (s Session) Rotation() float64 { return s.rotation }

// Assignments returns the published pairings.
func (s Session) Assignments() []domain.Assignment {
	return append([]domain.Assignment(nil), s.assignments...)
}

// Phase returns the lifecycle state.
func (s Session) Phase() Phase { return s.phase }

// SpinID returns the token of the in-flight spin, if any.
func (s Session) SpinID() string { return s.spinID }

// Spinning reports whether a spin is in flight.
func (s Session) Spinning() bool { return s.phase == PhaseSpinning }

// CanSpin reports whether BeginSpin would be accepted.
func (s Session) CanSpin() error {
	switch {
	case s.phase == PhaseSpinning:
		return ErrSpinInProgress
	case len(s.members) == 0:
		return roulette.ErrNoMembers
	case len(s.tasks) == 0:
		return roulette.ErrNoTasks
	}
	return nil
}

// WithRoster replaces both rosters. Published assignments are dropped when
// either roster changed so no pairing outlives the entities it names.
func (s Session) WithRoster(members, tasks []domain.Entity) Session {
	changed := !domain.SameRoster(s.members, members) || !domain.SameRoster(s.tasks, tasks)
	s.members = append([]domain.Entity(nil), members...)
	s.tasks = append([]domain.Entity(nil), tasks...)
	if changed {
		s.assignments = nil
		if s.phase == PhaseSettled {
			s.phase = PhaseIdle
		}
	}
	return s
}

// BeginSpin starts a spin toward minTurns·360 + draw·360 degrees.
func (s Session) BeginSpin(spinID string, draw float64) (Session, error) {
	if err := s.CanSpin(); err != nil {
		return s, err
	}
	spinID = strings.TrimSpace(spinID)
	if spinID == "" {
		return s, errors.New("spin id is required")
	}
	s.assignments = nil
	s.rotation = roulette.TargetAngle(draw, s.cfg.MinTurns)
	s.phase = PhaseSpinning
	s.spinID = spinID
	return s, nil
}

// Settle finishes the spin identified by spinID and publishes assignments.
// Tokens from a spin that was reset away return ErrStaleSpin.
func (s Session) Settle(spinID string) (Session, error) {
	if s.phase != PhaseSpinning || spinID == "" || spinID != s.spinID {
		return s, ErrStaleSpin
	}
	s.spinID = ""
	assignments, err := s.cfg.Strategy.Assign(s.members, s.tasks, s.rotation)
	if err != nil {
		s.phase = PhaseIdle
		s.assignments = nil
		return s, err
	}
	s.assignments = assignments
	s.phase = PhaseSettled
	return s, nil
}

// CancelSpin abandons an in-flight spin and returns to idle with the rosters
// intact. The canceled token is stale afterwards. Other phases are returned
// unchanged.
func (s Session) CancelSpin() Session {
	if s.phase != PhaseSpinning {
		return s
	}
	s.phase = PhaseIdle
	s.spinID = ""
	s.assignments = nil
	return s
}

// Reset clears both rosters, the result and the rotation, and cancels any
// in-flight spin.
func (s Session) Reset() Session {
	return Session{cfg: s.cfg}
}
