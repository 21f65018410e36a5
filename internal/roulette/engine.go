// Package roulette maps a wheel rotation to member→task assignments.
//
// The wheel carries one wedge per task, wedge i spanning [i·360/T, (i+1)·360/T)
// degrees before rotation. Members are fixed pointers spaced evenly around the
// rim, pointer k at k·360/M. Rotating the wheel clockwise by θ moves wedge i
// under whichever pointer now faces it; Assign inverts that rotation.
//
// Angles are degrees, 0 along +x, clockwise on screen.
package roulette

import (
	"errors"
	"math"

	"github.com/evanschultz/roulette/internal/domain"
)

// ErrNoMembers and related errors describe invalid engine input.
var (
	ErrNoMembers    = errors.New("at least one member is required")
	ErrNoTasks      = errors.New("at least one task is required")
	ErrInvalidAngle = errors.New("rotation angle must be finite")
)

// boundaryTolerance absorbs float error for pointers sitting exactly on a wedge edge.
const boundaryTolerance = 1e-9

// SegmentAngle returns the angular width of one wedge for taskCount tasks.
func SegmentAngle(taskCount int) float64 {
	if taskCount <= 0 {
		return 0
	}
	return 360 / float64(taskCount)
}

// NormalizeAngle reduces theta into [0, 360).
func NormalizeAngle(theta float64) float64 {
	n := math.Mod(math.Mod(theta, 360)+360, 360)
	if n >= 360 {
		n = 0
	}
	return n
}

// PointerAngle returns the fixed angle of pointer k among memberCount pointers.
func PointerAngle(k, memberCount int) float64 {
	if memberCount <= 0 {
		return 0
	}
	return float64(k) * 360 / float64(memberCount)
}

// SegmentIndex returns the task index under pointer k after rotating the wheel by theta.
func SegmentIndex(k, memberCount, taskCount int, theta float64) int {
	if taskCount <= 1 {
		return 0
	}
	seg := SegmentAngle(taskCount)
	pos := math.Mod(360-NormalizeAngle(theta)+PointerAngle(k, memberCount), 360)
	idx := int(math.Floor(pos/seg+boundaryTolerance)) % taskCount
	if idx < 0 {
		idx += taskCount
	}
	return idx
}

// Assign pairs every member with the task under its pointer at rotation theta.
// Member order is preserved.
func Assign(members, tasks []domain.Entity, theta float64) ([]domain.Assignment, error) {
	if err := validate(members, tasks); err != nil {
		return nil, err
	}
	if err := CheckAngle(theta); err != nil {
		return nil, err
	}
	out := make([]domain.Assignment, 0, len(members))
	for k, member := range members {
		idx := SegmentIndex(k, len(members), len(tasks), theta)
		out = append(out, domain.Assignment{Member: member.Name, Task: tasks[idx].Name})
	}
	return out, nil
}

// CheckAngle rejects NaN and infinite rotations.
func CheckAngle(theta float64) error {
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return ErrInvalidAngle
	}
	return nil
}

// validate rejects empty rosters.
func validate(members, tasks []domain.Entity) error {
	if len(members) == 0 {
		return ErrNoMembers
	}
	if len(tasks) == 0 {
		return ErrNoTasks
	}
	return nil
}
