package domain

import (
	"strings"
	"sync"
	"time"
)

// EntityKind identifies which roster an entity belongs to.
type EntityKind string

// KindMember and KindTask are the two disjoint rosters.
const (
	KindMember EntityKind = "member"
	KindTask   EntityKind = "task"
)

// Valid reports whether the kind is one of the known rosters.
func (k EntityKind) Valid() bool {
	switch k {
	case KindMember, KindTask:
		return true
	default:
		return false
	}
}

// Entity is one named roster entry. Roster order is insertion order.
type Entity struct {
	ID   int64
	Kind EntityKind
	Name string
}

// NewEntity constructs a roster entry with a trimmed, non-empty name.
func NewEntity(id int64, kind EntityKind, name string) (Entity, error) {
	name = strings.TrimSpace(name)
	if id <= 0 {
		return Entity{}, ErrInvalidID
	}
	if !kind.Valid() {
		return Entity{}, ErrInvalidKind
	}
	if name == "" {
		return Entity{}, ErrInvalidName
	}
	return Entity{ID: id, Kind: kind, Name: name}, nil
}

// Names returns entity names in roster order.
func Names(entities []Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.Name)
	}
	return out
}

// SameRoster reports whether two rosters hold the same ids in the same order.
func SameRoster(a, b []Entity) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}

// IDGenerator returns ids derived from creation time, strictly increasing
// within one generator even when called twice in the same millisecond.
// It is safe for concurrent use.
type IDGenerator struct {
	mu    sync.Mutex
	clock func() time.Time
	last  int64
}

// NewIDGenerator constructs an id generator; nil clock means time.Now.
func NewIDGenerator(clock func() time.Time) *IDGenerator {
	if clock == nil {
		clock = time.Now
	}
	return &IDGenerator{clock: clock}
}

// Next returns the next id.
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.clock().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// EntitiesFromNames builds a roster with sequential ids, skipping blank names.
func EntitiesFromNames(kind EntityKind, names []string) []Entity {
	out := make([]Entity, 0, len(names))
	for _, name := range names {
		entity, err := NewEntity(int64(len(out)+1), kind, name)
		if err != nil {
			continue
		}
		out = append(out, entity)
	}
	return out
}
