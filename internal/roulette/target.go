package roulette

import "math"

// DefaultMinTurns is the number of full turns every spin makes before the random offset.
const DefaultMinTurns = 2

// TargetAngle returns the final rotation for a spin: minTurns full turns plus
// draw·360, with draw clamped into [0, 1).
func TargetAngle(draw float64, minTurns int) float64 {
	if minTurns < 0 {
		minTurns = 0
	}
	if math.IsNaN(draw) || draw < 0 {
		draw = 0
	}
	if draw >= 1 {
		draw = 0.999999
	}
	return float64(minTurns)*360 + draw*360
}

// EaseOut maps linear progress in [0,1] to a decelerating wheel position.
func EaseOut(progress float64) float64 {
	switch {
	case progress <= 0:
		return 0
	case progress >= 1:
		return 1
	}
	inv := 1 - progress
	return 1 - inv*inv*inv
}
