package sim

import (
	"context"
	"testing"

	"grove-and-grain/server/logging"
	simlog "grove-and-grain/server/logging/simulation"
)

func TestDriverAdvancesClockWithoutEvents(t *testing.T) {
	s := NewScheduler()
	d := NewDriver(s)

	if n := d.RunUntil(7.5); n != 0 {
		t.Fatalf("expected no events, got %d", n)
	}
	if d.Now() != 7.5 {
		t.Fatalf("expected clock at 7.5, got %v", d.Now())
	}
	if d.EventsFired() != 0 {
		t.Fatalf("expected zero total events, got %d", d.EventsFired())
	}
}

func TestDriverRunsWholeSaplingLifecycle(t *testing.T) {
	var events []logging.Event
	pub := logging.PublisherFunc(func(_ context.Context, event logging.Event) {
		events = append(events, event)
	})

	w := NewWorld(3, 3, DefaultConfig(), pub)
	s := NewScheduler()
	d := NewDriver(s)
	cfg := w.Config()

	sapling := NewSapling("sapling-1", Point{X: 1, Y: 1}, 0, cfg.SaplingPeriod, cfg.SaplingHealthLimit)
	w.AddEntity(sapling)
	w.ScheduleActions(s, sapling)

	d.RunUntil(20.0)

	// The sapling matures into a tree which, untouched, keeps ticking.
	occupant, ok := w.OccupantAt(Point{X: 1, Y: 1})
	if !ok || occupant.Kind() != KindTree {
		t.Fatalf("expected a mature tree at the center, got %v (ok=%v)", occupant, ok)
	}
	if countEvents(events, simlog.EventEntityTransformed) != 1 {
		t.Fatalf("expected exactly one transformation, got %d", countEvents(events, simlog.EventEntityTransformed))
	}
	if d.EventsFired() == 0 {
		t.Fatalf("expected driver to have fired events")
	}
}

// A loaded worker beside a house and a fairy beside a stump resolve a
// full gather-deposit-replant cycle.
func TestDriverRunsGatherCycle(t *testing.T) {
	var events []logging.Event
	pub := logging.PublisherFunc(func(_ context.Context, event logging.Event) {
		events = append(events, event)
	})

	w := NewWorld(4, 4, DefaultConfig(), pub)
	s := NewScheduler()
	d := NewDriver(s)

	w.AddEntity(NewHouse("house-1", Point{X: 0, Y: 0}))
	w.AddEntity(NewTree("tree-1", Point{X: 3, Y: 0}, 1.0, 0.2, 1))
	dude := NewDudeNotFull("dude-1", Point{X: 2, Y: 0}, 1.0, 0.2, 1)
	w.AddEntity(dude)
	fairy := NewFairy("fairy-1", Point{X: 3, Y: 3}, 0.5, 0.2)
	w.AddEntity(fairy)
	tree, _ := w.Entity("tree-1")
	w.ScheduleActions(s, dude)
	w.ScheduleActions(s, tree)
	w.ScheduleActions(s, fairy)

	d.RunUntil(30.0)

	if countEvents(events, simlog.EventResourceHarvested) < 1 {
		t.Fatalf("expected at least one harvest event")
	}
	if countEvents(events, simlog.EventResourceDeposited) < 1 {
		t.Fatalf("expected at least one deposit event")
	}
	worker, ok := w.Entity("dude-1")
	if !ok {
		t.Fatalf("expected worker still alive")
	}
	if worker.Kind() != KindDudeFull && worker.Kind() != KindDudeNotFull {
		t.Fatalf("expected worker in one of its two states, got %s", worker.Kind())
	}
	// The harvested tree decayed to a stump and the fairy replanted it.
	if countEvents(events, simlog.EventEntitySpawned) < 1 {
		t.Fatalf("expected fairy to plant a sapling")
	}
}

func countEvents(events []logging.Event, eventType logging.EventType) int {
	n := 0
	for _, event := range events {
		if event.Type == eventType {
			n++
		}
	}
	return n
}
