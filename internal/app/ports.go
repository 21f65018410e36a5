package app

import (
	"context"

	"github.com/evanschultz/roulette/internal/domain"
)

// Repository stores the member and task rosters for one session.
type Repository interface {
	CreateEntity(context.Context, domain.Entity) error
	DeleteEntity(context.Context, domain.EntityKind, int64) error
	ListEntities(context.Context, domain.EntityKind) ([]domain.Entity, error)
	ClearEntities(context.Context) error
}
