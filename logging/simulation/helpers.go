// Package simulation declares the structured events emitted by the
// core entity behaviors, with typed constructors so call sites cannot
// mislabel a payload.
package simulation

import (
	"context"

	"grove-and-grain/server/logging"
)

const (
	// EventEntitySpawned is emitted when an entity enters the world.
	EventEntitySpawned logging.EventType = "sim.entity_spawned"
	// EventEntityRemoved is emitted when an entity leaves the world.
	EventEntityRemoved logging.EventType = "sim.entity_removed"
	// EventEntityTransformed is emitted when an entity is replaced by
	// a successor of a different kind at the same position.
	EventEntityTransformed logging.EventType = "sim.entity_transformed"
	// EventResourceHarvested is emitted when a worker draws one unit
	// from a plant.
	EventResourceHarvested logging.EventType = "sim.resource_harvested"
	// EventResourceDeposited is emitted when a full worker unloads at
	// a house.
	EventResourceDeposited logging.EventType = "sim.resource_deposited"
)

// SpawnPayload captures where an entity appeared.
type SpawnPayload struct {
	Kind string `json:"kind"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// TransformPayload captures a kind replacement.
type TransformPayload struct {
	FromKind string `json:"fromKind"`
	ToKind   string `json:"toKind"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// HarvestPayload captures one unit moving from plant to worker.
type HarvestPayload struct {
	ResourceCount int `json:"resourceCount"`
	TargetHealth  int `json:"targetHealth"`
}

// DepositPayload captures a full load of resources unloaded.
type DepositPayload struct {
	Amount int `json:"amount"`
}

// EntitySpawned publishes a spawn event.
func EntitySpawned(ctx context.Context, pub logging.Publisher, simTime float64, actor logging.EntityRef, payload SpawnPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventEntitySpawned,
		SimTime:  simTime,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// EntityRemoved publishes a removal event.
func EntityRemoved(ctx context.Context, pub logging.Publisher, simTime float64, actor logging.EntityRef) {
	publish(ctx, pub, logging.Event{
		Type:     EventEntityRemoved,
		SimTime:  simTime,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
	})
}

// EntityTransformed publishes a kind replacement event.
func EntityTransformed(ctx context.Context, pub logging.Publisher, simTime float64, actor logging.EntityRef, payload TransformPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventEntityTransformed,
		SimTime:  simTime,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// ResourceHarvested publishes one harvest tick.
func ResourceHarvested(ctx context.Context, pub logging.Publisher, simTime float64, actor, target logging.EntityRef, payload HarvestPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventResourceHarvested,
		SimTime:  simTime,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// ResourceDeposited publishes a full unload at a house.
func ResourceDeposited(ctx context.Context, pub logging.Publisher, simTime float64, actor, target logging.EntityRef, payload DepositPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventResourceDeposited,
		SimTime:  simTime,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, event)
}
