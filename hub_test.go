package server

import (
	"testing"

	"grove-and-grain/server/internal/sim"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	world := sim.NewWorld(4, 4, sim.DefaultConfig(), nil)
	scheduler := sim.NewScheduler()

	world.AddEntity(sim.NewHouse("house-1", sim.Point{X: 0, Y: 0}))
	sapling := sim.NewSapling("sapling-1", sim.Point{X: 2, Y: 2}, 0, 1.0, 3)
	world.AddEntity(sapling)
	world.ScheduleActions(scheduler, sapling)

	return NewHub("test-world", world, scheduler, DefaultHubConfig())
}

func TestAdvanceMovesSimulatedTime(t *testing.T) {
	hub := newTestHub(t)

	msg := hub.Advance(0.5)
	if msg.Type != "state" {
		t.Fatalf("expected state message, got %q", msg.Type)
	}
	if msg.Tick != 1 {
		t.Fatalf("expected tick 1, got %d", msg.Tick)
	}
	if msg.SimTime != 0.5 {
		t.Fatalf("expected sim time 0.5, got %v", msg.SimTime)
	}
	if len(msg.Entities) != 2 {
		t.Fatalf("expected 2 entities in snapshot, got %d", len(msg.Entities))
	}

	msg = hub.Advance(0.5)
	if msg.Tick != 2 || msg.SimTime != 1.0 {
		t.Fatalf("expected tick 2 at t=1.0, got tick %d at %v", msg.Tick, msg.SimTime)
	}
}

func TestAdvanceRunsScheduledBehavior(t *testing.T) {
	hub := newTestHub(t)

	// Three growth ticks mature the sapling into a tree.
	hub.Advance(3.0)

	var kinds []string
	for _, e := range hub.world.Snapshot() {
		kinds = append(kinds, e.Kind)
	}
	found := false
	for _, k := range kinds {
		if k == "tree" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a tree after advancing, got kinds %v", kinds)
	}
}

func TestDiagnosticsSnapshot(t *testing.T) {
	hub := newTestHub(t)
	hub.Advance(0.1)

	diag := hub.DiagnosticsSnapshot()
	if diag.Name != "test-world" {
		t.Fatalf("expected world name, got %q", diag.Name)
	}
	if diag.Rows != 4 || diag.Cols != 4 {
		t.Fatalf("expected 4x4, got %dx%d", diag.Rows, diag.Cols)
	}
	if diag.Entities != 2 {
		t.Fatalf("expected 2 entities, got %d", diag.Entities)
	}
	if diag.PendingEvents == 0 {
		t.Fatalf("expected pending events for the live sapling")
	}
	if diag.Tick != 1 {
		t.Fatalf("expected tick 1, got %d", diag.Tick)
	}
}

func TestHubConfigNormalization(t *testing.T) {
	cfg := HubConfig{}.normalized()
	def := DefaultHubConfig()
	if cfg.TickRate != def.TickRate || cfg.TimeScale != def.TimeScale || cfg.WriteWait != def.WriteWait {
		t.Fatalf("expected zero config to normalize to defaults, got %+v", cfg)
	}

	cfg = HubConfig{TickRate: 30, TimeScale: 2.0, WriteWait: def.WriteWait}.normalized()
	if cfg.TickRate != 30 || cfg.TimeScale != 2.0 {
		t.Fatalf("expected explicit values preserved, got %+v", cfg)
	}
}
