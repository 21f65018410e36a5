package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evanschultz/roulette/internal/app"
	"github.com/evanschultz/roulette/internal/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository stores roster entities for one session. The database lives in
// memory and disappears with the last connection.
type Repository struct {
	db   *sql.DB
	name string
	now  func() time.Time
}

// OpenSession opens a fresh, uniquely named in-memory database.
func OpenSession() (*Repository, error) {
	return OpenInMemory("roulette-" + uuid.NewString())
}

// OpenInMemory opens the named in-memory database. Connections sharing a name
// share data, so the pool is pinned to a single connection.
func OpenInMemory(name string) (*Repository, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("sqlite memory name is required")
	}
	db, err := sql.Open(driverName, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db, name: name, now: time.Now}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Name returns the in-memory database name.
func (r *Repository) Name() string {
	return r.name
}

// Close releases the database; its contents are discarded.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entities (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			id INTEGER NOT NULL,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE(kind, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entities_kind_seq ON entities(kind, seq);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// CreateEntity appends one entity to its roster.
func (r *Repository) CreateEntity(ctx context.Context, e domain.Entity) error {
	if !e.Kind.Valid() {
		return domain.ErrInvalidKind
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entities(kind, id, name, created_at)
		VALUES(?, ?, ?, ?)
	`, string(e.Kind), e.ID, e.Name, ts(r.now()))
	return err
}

// DeleteEntity removes one entity by kind and id.
func (r *Repository) DeleteEntity(ctx context.Context, kind domain.EntityKind, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entities WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// ListEntities returns one roster in insertion order.
func (r *Repository) ListEntities(ctx context.Context, kind domain.EntityKind) ([]domain.Entity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, name
		FROM entities
		WHERE kind = ?
		ORDER BY seq ASC
	`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Entity, 0)
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClearEntities empties both rosters.
func (r *Repository) ClearEntities(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM entities`)
	return err
}

// scanner abstracts row scanning.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntity handles scan entity.
func scanEntity(s scanner) (domain.Entity, error) {
	var (
		e    domain.Entity
		kind string
	)
	if err := s.Scan(&e.ID, &kind, &e.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Entity{}, app.ErrNotFound
		}
		return domain.Entity{}, err
	}
	e.Kind = domain.EntityKind(kind)
	return e, nil
}

// translateNoRows handles translate no rows.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

var _ app.Repository = (*Repository)(nil)
