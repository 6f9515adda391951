package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"grove-and-grain/server/logging"
	simlog "grove-and-grain/server/logging/simulation"
)

// ErrOccupied rejects a checked add onto a cell that already holds an
// entity.
var ErrOccupied = errors.New("position occupied")

// Background is one terrain cell: a static tile identity plus its own
// cosmetic frame index. Behavior code never mutates it.
type Background struct {
	ID    string `json:"id"`
	Frame int    `json:"frame"`
}

// World is the spatial source of truth: the background grid, the
// occupancy grid, and the authoritative set of live entities. The
// occupancy grid stores entity ids resolved through the entity map so
// a stale id can never alias a later entity. The two structures are
// kept consistent across every operation: an entity is in the map iff
// its id sits in the occupancy cell at its position.
type World struct {
	rows, cols int
	background [][]Background
	occupancy  [][]string
	entities   map[string]*Entity

	// order preserves insertion order so scans (FindNearest ties,
	// snapshots) are deterministic within a run.
	order []string

	cfg       Config
	rng       *rand.Rand
	publisher logging.Publisher
}

// NewWorld constructs an empty world of the given dimensions.
func NewWorld(rows, cols int, cfg Config, publisher logging.Publisher) *World {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("sim: invalid world size %dx%d", rows, cols))
	}
	if publisher == nil {
		publisher = logging.NopPublisher{}
	}
	normalized := cfg.Normalized()

	background := make([][]Background, rows)
	occupancy := make([][]string, rows)
	for y := 0; y < rows; y++ {
		background[y] = make([]Background, cols)
		occupancy[y] = make([]string, cols)
	}

	return &World{
		rows:       rows,
		cols:       cols,
		background: background,
		occupancy:  occupancy,
		entities:   make(map[string]*Entity),
		cfg:        normalized,
		rng:        newDeterministicRNG(normalized.Seed, "world"),
		publisher:  publisher,
	}
}

// Rows returns the grid height.
func (w *World) Rows() int { return w.rows }

// Cols returns the grid width.
func (w *World) Cols() int { return w.cols }

// Config returns the normalized world tunables.
func (w *World) Config() Config { return w.cfg }

// Count returns the number of live entities.
func (w *World) Count() int { return len(w.entities) }

// WithinBounds reports whether pos lies on the grid.
func (w *World) WithinBounds(pos Point) bool {
	return pos.Y >= 0 && pos.Y < w.rows && pos.X >= 0 && pos.X < w.cols
}

// IsOccupied reports whether an in-bounds cell holds an entity.
// Out-of-bounds cells are never occupied.
func (w *World) IsOccupied(pos Point) bool {
	return w.WithinBounds(pos) && w.occupancy[pos.Y][pos.X] != ""
}

// Occupant returns the entity at pos, if any. Out-of-bounds positions
// have no occupant.
func (w *World) Occupant(pos Point) (*Entity, bool) {
	if !w.IsOccupied(pos) {
		return nil, false
	}
	entity, ok := w.entities[w.occupancy[pos.Y][pos.X]]
	return entity, ok
}

// OccupantAt returns the occupancy cell at pos for collaborators that
// have already resolved bounds. It panics when pos is off the grid.
func (w *World) OccupantAt(pos Point) (*Entity, bool) {
	w.mustBeWithinBounds(pos)
	id := w.occupancy[pos.Y][pos.X]
	if id == "" {
		return nil, false
	}
	return w.entities[id], true
}

// BackgroundAt returns the background cell at pos. It panics when pos
// is off the grid.
func (w *World) BackgroundAt(pos Point) Background {
	w.mustBeWithinBounds(pos)
	return w.background[pos.Y][pos.X]
}

// SetBackgroundAt replaces the background cell at pos. It panics when
// pos is off the grid. Used only by world setup.
func (w *World) SetBackgroundAt(pos Point, b Background) {
	w.mustBeWithinBounds(pos)
	w.background[pos.Y][pos.X] = b
}

func (w *World) mustBeWithinBounds(pos Point) {
	if !w.WithinBounds(pos) {
		panic(fmt.Sprintf("sim: grid access out of bounds at (%d,%d) in %dx%d world", pos.X, pos.Y, w.cols, w.rows))
	}
}

// Entity returns a live entity by id.
func (w *World) Entity(id string) (*Entity, bool) {
	entity, ok := w.entities[id]
	return entity, ok
}

// AddEntity records the entity at its position and inserts it into
// the live set. An out-of-bounds position drops the entity silently;
// that is a deliberate edge case, not an error. The destination cell
// must be free: an add onto an occupied cell is a programming error
// and panics, because it would break the occupancy/entity-set
// consistency invariant. Use TryAddEntity when occupancy is not known.
func (w *World) AddEntity(entity *Entity) {
	if !w.WithinBounds(entity.Position) {
		return
	}
	if holder := w.occupancy[entity.Position.Y][entity.Position.X]; holder != "" {
		panic(fmt.Sprintf("sim: cell (%d,%d) already held by %s", entity.Position.X, entity.Position.Y, holder))
	}
	if _, exists := w.entities[entity.ID]; exists {
		panic(fmt.Sprintf("sim: duplicate entity id %s", entity.ID))
	}
	w.occupancy[entity.Position.Y][entity.Position.X] = entity.ID
	w.entities[entity.ID] = entity
	w.order = append(w.order, entity.ID)
}

// TryAddEntity is the checked variant of AddEntity: it rejects an
// occupied destination with ErrOccupied instead of panicking.
func (w *World) TryAddEntity(entity *Entity) error {
	if w.IsOccupied(entity.Position) {
		return fmt.Errorf("%w: (%d,%d)", ErrOccupied, entity.Position.X, entity.Position.Y)
	}
	w.AddEntity(entity)
	return nil
}

// FindNearest returns the live entity of one of the given kinds
// minimizing squared Euclidean distance to pos. Ties resolve to the
// candidate inserted into the world first, which keeps repeated runs
// with identical input ordering deterministic.
func (w *World) FindNearest(pos Point, kinds ...Kind) (*Entity, bool) {
	var nearest *Entity
	nearestDistance := 0
	for _, kind := range kinds {
		for _, id := range w.order {
			entity, ok := w.entities[id]
			if !ok || entity.kind != kind {
				continue
			}
			d := pos.DistanceSquared(entity.Position)
			if nearest == nil || d < nearestDistance {
				nearest = entity
				nearestDistance = d
			}
		}
	}
	return nearest, nearest != nil
}

// MoveEntity relocates an entity to pos. An out-of-bounds or identical
// destination leaves everything untouched. When a different entity
// already holds the destination it is fully removed first, pending
// events included, before the mover is placed; the whole relocation is
// one logical step with respect to the occupancy invariant.
func (w *World) MoveEntity(scheduler *Scheduler, entity *Entity, pos Point) {
	oldPos := entity.Position
	if !w.WithinBounds(pos) || pos == oldPos {
		return
	}
	w.occupancy[oldPos.Y][oldPos.X] = ""
	if occupant, ok := w.Occupant(pos); ok && occupant != entity {
		w.RemoveEntity(scheduler, occupant)
	}
	w.occupancy[pos.Y][pos.X] = entity.ID
	entity.Position = pos
}

// RemoveEntity cancels every pending event for the entity and then
// drops it from the occupancy grid and the live set. The cancellation
// must come first: removal may never leave a queued action able to
// touch a removed entity. The entity's position is parked off-grid so
// stale handles are recognizable.
func (w *World) RemoveEntity(scheduler *Scheduler, entity *Entity) {
	scheduler.UnscheduleAllEvents(entity.ID)
	if _, ok := w.entities[entity.ID]; !ok {
		return
	}
	pos := entity.Position
	if w.WithinBounds(pos) && w.occupancy[pos.Y][pos.X] == entity.ID {
		w.occupancy[pos.Y][pos.X] = ""
	}
	delete(w.entities, entity.ID)
	for i, id := range w.order {
		if id == entity.ID {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	entity.Position = Point{X: -1, Y: -1}

	simlog.EntityRemoved(context.Background(), w.publisher, scheduler.Now(), entityRef(entity))
}

// entityRef builds a logging reference for an entity.
func entityRef(entity *Entity) logging.EntityRef {
	return logging.EntityRef{ID: entity.ID, Kind: loggingKind(entity.kind)}
}

func loggingKind(kind Kind) logging.EntityKind {
	switch kind {
	case KindDudeNotFull, KindDudeFull:
		return logging.EntityKindWorker
	case KindFairy:
		return logging.EntityKindFairy
	case KindSapling, KindTree, KindStump:
		return logging.EntityKindPlant
	case KindHouse, KindObstacle:
		return logging.EntityKindWorld
	default:
		return logging.EntityKindUnknown
	}
}
