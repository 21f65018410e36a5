package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound       = errors.New("not found")
	ErrSpinInProgress = errors.New("spin already in progress")
	ErrStaleSpin      = errors.New("spin token does not match the active spin")
	ErrSpinCanceled   = errors.New("spin canceled")
)
