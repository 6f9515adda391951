package sim

import "fmt"

// Kind enumerates the closed set of entity categories. A kind never
// changes after construction: transformations remove the old entity
// and create a new one of the successor kind at the same position.
type Kind string

const (
	KindDudeNotFull Kind = "dude_not_full"
	KindDudeFull    Kind = "dude_full"
	KindFairy       Kind = "fairy"
	KindSapling     Kind = "sapling"
	KindTree        Kind = "tree"
	KindStump       Kind = "stump"
	KindHouse       Kind = "house"
	KindObstacle    Kind = "obstacle"
)

// Entity is one actor on the grid. Position and counters are mutated
// by the world and by behavior code; the kind and the two periods are
// fixed at construction.
type Entity struct {
	ID       string
	Position Point

	// Frame is the cosmetic animation frame index. Behavior logic
	// never reads it; the animation events and viewers do.
	Frame int

	ResourceLimit int
	ResourceCount int
	Health        int
	HealthLimit   int

	kind            Kind
	actionPeriod    float64
	animationPeriod float64
}

// Kind returns the immutable kind tag.
func (e *Entity) Kind() Kind {
	return e.kind
}

// ActionPeriod returns the delay between activity events. It panics
// for kinds that have no activity behavior.
func (e *Entity) ActionPeriod() float64 {
	switch e.kind {
	case KindDudeFull, KindDudeNotFull, KindFairy, KindSapling, KindTree:
		return e.actionPeriod
	default:
		panic(fmt.Sprintf("sim: action period not supported for %s", e.kind))
	}
}

// AnimationPeriod returns the delay between animation frame advances.
// It panics for kinds that are never animated.
func (e *Entity) AnimationPeriod() float64 {
	switch e.kind {
	case KindDudeFull, KindDudeNotFull, KindObstacle, KindFairy, KindSapling, KindTree:
		return e.animationPeriod
	default:
		panic(fmt.Sprintf("sim: animation period not supported for %s", e.kind))
	}
}

// NextFrame advances the cosmetic animation frame.
func (e *Entity) NextFrame() {
	e.Frame++
}

// NewHouse constructs a drop-off house. Houses never act or animate.
func NewHouse(id string, pos Point) *Entity {
	return &Entity{ID: id, Position: pos, kind: KindHouse}
}

// NewObstacle constructs an obstacle that only animates.
func NewObstacle(id string, pos Point, animationPeriod float64) *Entity {
	return &Entity{ID: id, Position: pos, kind: KindObstacle, animationPeriod: animationPeriod}
}

// NewTree constructs a grown tree with the given health.
func NewTree(id string, pos Point, actionPeriod, animationPeriod float64, health int) *Entity {
	return &Entity{
		ID:              id,
		Position:        pos,
		kind:            KindTree,
		actionPeriod:    actionPeriod,
		animationPeriod: animationPeriod,
		Health:          health,
	}
}

// NewStump constructs an inert stump.
func NewStump(id string, pos Point) *Entity {
	return &Entity{ID: id, Position: pos, kind: KindStump}
}

// NewSapling constructs a sapling. Health starts low and climbs one
// point per activity tick until it reaches healthLimit.
func NewSapling(id string, pos Point, health int, period float64, healthLimit int) *Entity {
	return &Entity{
		ID:              id,
		Position:        pos,
		kind:            KindSapling,
		actionPeriod:    period,
		animationPeriod: period,
		Health:          health,
		HealthLimit:     healthLimit,
	}
}

// NewFairy constructs a fairy.
func NewFairy(id string, pos Point, actionPeriod, animationPeriod float64) *Entity {
	return &Entity{
		ID:              id,
		Position:        pos,
		kind:            KindFairy,
		actionPeriod:    actionPeriod,
		animationPeriod: animationPeriod,
	}
}

// NewDudeNotFull constructs a worker that is gathering resources.
func NewDudeNotFull(id string, pos Point, actionPeriod, animationPeriod float64, resourceLimit int) *Entity {
	return &Entity{
		ID:              id,
		Position:        pos,
		kind:            KindDudeNotFull,
		actionPeriod:    actionPeriod,
		animationPeriod: animationPeriod,
		ResourceLimit:   resourceLimit,
	}
}

// NewDudeFull constructs a worker carrying a full load back to a house.
func NewDudeFull(id string, pos Point, actionPeriod, animationPeriod float64, resourceLimit, resourceCount int) *Entity {
	return &Entity{
		ID:              id,
		Position:        pos,
		kind:            KindDudeFull,
		actionPeriod:    actionPeriod,
		animationPeriod: animationPeriod,
		ResourceLimit:   resourceLimit,
		ResourceCount:   resourceCount,
	}
}
