package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/evanschultz/roulette/internal/domain"
)

// Clock returns the current time.
type Clock func() time.Time

// Service manages the member and task rosters.
type Service struct {
	repo Repository
	ids  *domain.IDGenerator
}

// NewService constructs a roster service; ids derive from clock.
func NewService(repo Repository, clock Clock) *Service {
	return &Service{
		repo: repo,
		ids:  domain.NewIDGenerator(clock),
	}
}

// AddMember appends a member. Blank names are ignored and report added=false.
func (s *Service) AddMember(ctx context.Context, name string) (domain.Entity, bool, error) {
	return s.addEntity(ctx, domain.KindMember, name)
}

// AddTask appends a task. Blank names are ignored and report added=false.
func (s *Service) AddTask(ctx context.Context, name string) (domain.Entity, bool, error) {
	return s.addEntity(ctx, domain.KindTask, name)
}

// addEntity validates and stores one roster entry.
func (s *Service) addEntity(ctx context.Context, kind domain.EntityKind, name string) (domain.Entity, bool, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Entity{}, false, nil
	}
	entity, err := domain.NewEntity(s.ids.Next(), kind, name)
	if err != nil {
		return domain.Entity{}, false, err
	}
	if err := s.repo.CreateEntity(ctx, entity); err != nil {
		return domain.Entity{}, false, fmt.Errorf("create %s: %w", kind, err)
	}
	return entity, true, nil
}

// DeleteMember removes one member by id.
func (s *Service) DeleteMember(ctx context.Context, id int64) error {
	return s.repo.DeleteEntity(ctx, domain.KindMember, id)
}

// DeleteTask removes one task by id.
func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	return s.repo.DeleteEntity(ctx, domain.KindTask, id)
}

// ListMembers returns members in insertion order.
func (s *Service) ListMembers(ctx context.Context) ([]domain.Entity, error) {
	return s.repo.ListEntities(ctx, domain.KindMember)
}

// ListTasks returns tasks in insertion order.
func (s *Service) ListTasks(ctx context.Context) ([]domain.Entity, error) {
	return s.repo.ListEntities(ctx, domain.KindTask)
}

// Roster returns both rosters.
func (s *Service) Roster(ctx context.Context) ([]domain.Entity, []domain.Entity, error) {
	members, err := s.ListMembers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list members: %w", err)
	}
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list tasks: %w", err)
	}
	return members, tasks, nil
}

// Clear removes every member and task.
func (s *Service) Clear(ctx context.Context) error {
	return s.repo.ClearEntities(ctx)
}

// Seed adds members and tasks in order, skipping blank names.
func (s *Service) Seed(ctx context.Context, members, tasks []string) error {
	for _, name := range members {
		if _, _, err := s.AddMember(ctx, name); err != nil {
			return err
		}
	}
	for _, name := range tasks {
		if _, _, err := s.AddTask(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
