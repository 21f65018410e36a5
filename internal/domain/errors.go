package domain

import "errors"

var (
	ErrInvalidID   = errors.New("invalid id")
	ErrInvalidName = errors.New("invalid name")
	ErrInvalidKind = errors.New("invalid entity kind")
)
