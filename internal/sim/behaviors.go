package sim

import (
	"context"
	"fmt"

	simlog "grove-and-grain/server/logging/simulation"
)

// ScheduleActions enqueues the initial activity and animation events
// for a freshly added entity. Every live entity must pass through here
// exactly once per incarnation; transformation re-registers the
// successor by calling it again.
func (w *World) ScheduleActions(scheduler *Scheduler, entity *Entity) {
	switch entity.kind {
	case KindDudeFull, KindDudeNotFull, KindFairy, KindSapling, KindTree:
		w.scheduleActivity(scheduler, entity)
		w.scheduleAnimation(scheduler, entity)
	case KindObstacle:
		w.scheduleAnimation(scheduler, entity)
	case KindHouse, KindStump:
		// Inert kinds have no scheduled behavior.
	default:
		panic(fmt.Sprintf("sim: schedule actions not supported for %s", entity.kind))
	}
}

func (w *World) scheduleActivity(scheduler *Scheduler, entity *Entity) {
	scheduler.ScheduleEvent(entity.ID, func() {
		w.ExecuteActivity(scheduler, entity)
	}, entity.ActionPeriod())
}

// scheduleAnimation enqueues a self-rescheduling cosmetic frame
// advance. It rides the same queue as activities so removal cancels
// both at once.
func (w *World) scheduleAnimation(scheduler *Scheduler, entity *Entity) {
	scheduler.ScheduleEvent(entity.ID, func() {
		entity.NextFrame()
		w.scheduleAnimation(scheduler, entity)
	}, entity.AnimationPeriod())
}

// ExecuteActivity runs one behavior tick for the entity. Kinds without
// an activity are a programming error here; their events are never
// scheduled in the first place.
func (w *World) ExecuteActivity(scheduler *Scheduler, entity *Entity) {
	switch entity.kind {
	case KindSapling:
		w.executeSaplingActivity(scheduler, entity)
	case KindTree:
		w.executeTreeActivity(scheduler, entity)
	case KindFairy:
		w.executeFairyActivity(scheduler, entity)
	case KindDudeNotFull:
		w.executeDudeNotFullActivity(scheduler, entity)
	case KindDudeFull:
		w.executeDudeFullActivity(scheduler, entity)
	default:
		panic(fmt.Sprintf("sim: activity not supported for %s", entity.kind))
	}
}

func (w *World) executeSaplingActivity(scheduler *Scheduler, entity *Entity) {
	entity.Health++
	if !w.transformPlant(scheduler, entity) {
		w.scheduleActivity(scheduler, entity)
	}
}

func (w *World) executeTreeActivity(scheduler *Scheduler, entity *Entity) {
	if !w.transformPlant(scheduler, entity) {
		w.scheduleActivity(scheduler, entity)
	}
}

// executeFairyActivity seeks the nearest stump. Adjacent stumps are
// converted into fresh saplings; otherwise the fairy takes one greedy
// step. Fairies never transform and always reschedule themselves.
func (w *World) executeFairyActivity(scheduler *Scheduler, entity *Entity) {
	if target, ok := w.FindNearest(entity.Position, KindStump); ok {
		targetPos := target.Position

		if w.moveToFairy(scheduler, entity, target) {
			sapling := NewSapling("sapling_"+target.ID, targetPos, 0, w.cfg.SaplingPeriod, w.cfg.SaplingHealthLimit)
			w.AddEntity(sapling)
			w.ScheduleActions(scheduler, sapling)

			simlog.EntitySpawned(context.Background(), w.publisher, scheduler.Now(), entityRef(sapling), simlog.SpawnPayload{
				Kind: string(sapling.kind),
				X:    sapling.Position.X,
				Y:    sapling.Position.Y,
			})
		}
	}

	w.scheduleActivity(scheduler, entity)
}

// executeDudeNotFullActivity seeks the nearest tree or sapling,
// harvests when adjacent, and transforms to the full worker once its
// load reaches the limit.
func (w *World) executeDudeNotFullActivity(scheduler *Scheduler, entity *Entity) {
	target, ok := w.FindNearest(entity.Position, KindTree, KindSapling)

	if !ok || !w.moveToNotFull(scheduler, entity, target) || !w.transformNotFull(scheduler, entity) {
		w.scheduleActivity(scheduler, entity)
	}
}

// executeDudeFullActivity seeks the nearest house and unloads there.
func (w *World) executeDudeFullActivity(scheduler *Scheduler, entity *Entity) {
	target, ok := w.FindNearest(entity.Position, KindHouse)

	if ok && w.moveToFull(scheduler, entity, target) {
		w.transformFull(scheduler, entity, target)
	} else {
		w.scheduleActivity(scheduler, entity)
	}
}

// transformPlant applies the plant state machine: decay to a stump
// takes precedence over growth. It returns true when the entity was
// replaced, in which case the caller must not reschedule it.
func (w *World) transformPlant(scheduler *Scheduler, entity *Entity) bool {
	switch entity.kind {
	case KindTree:
		return w.transformTree(scheduler, entity)
	case KindSapling:
		return w.transformSapling(scheduler, entity)
	default:
		panic(fmt.Sprintf("sim: plant transform not supported for %s", entity.kind))
	}
}

func (w *World) transformTree(scheduler *Scheduler, entity *Entity) bool {
	if entity.Health > 0 {
		return false
	}
	stump := NewStump("stump_"+entity.ID, entity.Position)
	w.replaceEntity(scheduler, entity, stump)
	return true
}

func (w *World) transformSapling(scheduler *Scheduler, entity *Entity) bool {
	if entity.Health <= 0 {
		stump := NewStump("stump_"+entity.ID, entity.Position)
		w.replaceEntity(scheduler, entity, stump)
		return true
	}
	if entity.Health >= entity.HealthLimit {
		tree := NewTree(
			"tree_"+entity.ID,
			entity.Position,
			w.floatBetween(w.cfg.TreeActionMin, w.cfg.TreeActionMax),
			w.floatBetween(w.cfg.TreeAnimationMin, w.cfg.TreeAnimationMax),
			w.intBetween(w.cfg.TreeHealthMin, w.cfg.TreeHealthMax),
		)
		w.replaceEntity(scheduler, entity, tree)
		return true
	}
	return false
}

// transformNotFull replaces a loaded worker with its full counterpart,
// load preserved. Returns false while capacity remains.
func (w *World) transformNotFull(scheduler *Scheduler, entity *Entity) bool {
	if entity.ResourceCount < entity.ResourceLimit {
		return false
	}
	full := NewDudeFull(entity.ID, entity.Position, entity.actionPeriod, entity.animationPeriod, entity.ResourceLimit, entity.ResourceCount)
	w.replaceEntity(scheduler, entity, full)
	return true
}

// transformFull unloads a worker at a house and replaces it with an
// empty gatherer.
func (w *World) transformFull(scheduler *Scheduler, entity *Entity, house *Entity) {
	deposited := entity.ResourceCount
	empty := NewDudeNotFull(entity.ID, entity.Position, entity.actionPeriod, entity.animationPeriod, entity.ResourceLimit)
	w.replaceEntity(scheduler, entity, empty)

	simlog.ResourceDeposited(context.Background(), w.publisher, scheduler.Now(), entityRef(empty), entityRef(house), simlog.DepositPayload{
		Amount: deposited,
	})
}

// replaceEntity is the transformation protocol: remove the old entity
// (cancelling its events), add the successor at the same position, and
// register the successor's own events. The old and new incarnations
// are never scheduled simultaneously.
func (w *World) replaceEntity(scheduler *Scheduler, old, successor *Entity) {
	fromKind := old.kind
	pos := old.Position

	w.RemoveEntity(scheduler, old)
	w.AddEntity(successor)
	w.ScheduleActions(scheduler, successor)

	simlog.EntityTransformed(context.Background(), w.publisher, scheduler.Now(), entityRef(successor), simlog.TransformPayload{
		FromKind: string(fromKind),
		ToKind:   string(successor.kind),
		X:        pos.X,
		Y:        pos.Y,
	})
}

// moveToFairy destroys an adjacent stump, reporting true so the caller
// plants a sapling; otherwise it advances one step and reports false.
func (w *World) moveToFairy(scheduler *Scheduler, fairy, target *Entity) bool {
	if fairy.Position.Adjacent(target.Position) {
		w.RemoveEntity(scheduler, target)
		return true
	}
	next := w.nextPosition(fairy.Position, target.Position, blocksFairy)
	if next != fairy.Position {
		w.MoveEntity(scheduler, fairy, next)
	}
	return false
}

// moveToNotFull harvests one unit from an adjacent plant, reporting
// true; otherwise it advances one step and reports false.
func (w *World) moveToNotFull(scheduler *Scheduler, dude, target *Entity) bool {
	if dude.Position.Adjacent(target.Position) {
		dude.ResourceCount++
		target.Health--

		simlog.ResourceHarvested(context.Background(), w.publisher, scheduler.Now(), entityRef(dude), entityRef(target), simlog.HarvestPayload{
			ResourceCount: dude.ResourceCount,
			TargetHealth:  target.Health,
		})
		return true
	}
	next := w.nextPosition(dude.Position, target.Position, blocksDude)
	if next != dude.Position {
		w.MoveEntity(scheduler, dude, next)
	}
	return false
}

// moveToFull reports adjacency to the target house, stepping toward it
// otherwise.
func (w *World) moveToFull(scheduler *Scheduler, dude, target *Entity) bool {
	if dude.Position.Adjacent(target.Position) {
		return true
	}
	next := w.nextPosition(dude.Position, target.Position, blocksDude)
	if next != dude.Position {
		w.MoveEntity(scheduler, dude, next)
	}
	return false
}
