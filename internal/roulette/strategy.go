package roulette

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/evanschultz/roulette/internal/domain"
)

// Mode selects how a settled spin turns into assignments.
type Mode string

// ModeWheel and ModeShuffle are the supported assignment modes.
const (
	ModeWheel   Mode = "wheel"
	ModeShuffle Mode = "shuffle"
)

// ParseMode normalizes a configured mode; empty means ModeWheel.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.TrimSpace(strings.ToLower(raw))) {
	case "", ModeWheel:
		return ModeWheel, nil
	case ModeShuffle:
		return ModeShuffle, nil
	default:
		return "", fmt.Errorf("unknown assignment mode %q", raw)
	}
}

// Strategy turns rosters and a final angle into assignments.
type Strategy interface {
	Assign(members, tasks []domain.Entity, theta float64) ([]domain.Assignment, error)
}

// Wheel assigns by pointer geometry.
type Wheel struct{}

// Assign implements Strategy.
func (Wheel) Assign(members, tasks []domain.Entity, theta float64) ([]domain.Assignment, error) {
	return Assign(members, tasks, theta)
}

// Shuffle shuffles both rosters independently and deals tasks round-robin,
// reusing tasks when there are more members than tasks. The angle is ignored.
type Shuffle struct {
	Rand *rand.Rand
}

// Assign implements Strategy.
func (s Shuffle) Assign(members, tasks []domain.Entity, _ float64) ([]domain.Assignment, error) {
	if err := validate(members, tasks); err != nil {
		return nil, err
	}
	shuffledMembers := append([]domain.Entity(nil), members...)
	shuffledTasks := append([]domain.Entity(nil), tasks...)
	s.shuffle(shuffledMembers)
	s.shuffle(shuffledTasks)

	out := make([]domain.Assignment, 0, len(shuffledMembers))
	for i, member := range shuffledMembers {
		task := shuffledTasks[i%len(shuffledTasks)]
		out = append(out, domain.Assignment{Member: member.Name, Task: task.Name})
	}
	return out, nil
}

// shuffle permutes entities in place.
func (s Shuffle) shuffle(entities []domain.Entity) {
	swap := func(i, j int) { entities[i], entities[j] = entities[j], entities[i] }
	if s.Rand != nil {
		s.Rand.Shuffle(len(entities), swap)
		return
	}
	rand.Shuffle(len(entities), swap)
}

// StrategyFor returns the strategy for mode; r seeds shuffle mode and may be nil.
func StrategyFor(mode Mode, r *rand.Rand) Strategy {
	if mode == ModeShuffle {
		return Shuffle{Rand: r}
	}
	return Wheel{}
}
