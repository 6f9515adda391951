package sim

import "testing"

func TestNextPositionPrefersHorizontal(t *testing.T) {
	w := newTestWorld(t, 10, 10)

	got := w.nextPosition(Point{X: 0, Y: 0}, Point{X: 5, Y: 5}, blocksFairy)
	if got != (Point{X: 1, Y: 0}) {
		t.Fatalf("expected horizontal step first, got %v", got)
	}
}

func TestNextPositionFallsBackToVertical(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	w.AddEntity(NewObstacle("rock", Point{X: 1, Y: 0}, 0.1))

	got := w.nextPosition(Point{X: 0, Y: 0}, Point{X: 5, Y: 5}, blocksFairy)
	if got != (Point{X: 0, Y: 1}) {
		t.Fatalf("expected vertical fallback past blocked cell, got %v", got)
	}
}

func TestNextPositionStaysWhenBothAxesBlocked(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	w.AddEntity(NewObstacle("rock-h", Point{X: 1, Y: 0}, 0.1))
	w.AddEntity(NewObstacle("rock-v", Point{X: 0, Y: 1}, 0.1))

	got := w.nextPosition(Point{X: 0, Y: 0}, Point{X: 5, Y: 5}, blocksFairy)
	if got != (Point{X: 0, Y: 0}) {
		t.Fatalf("expected mover to stay put, got %v", got)
	}
}

func TestNextPositionVerticalWhenAligned(t *testing.T) {
	w := newTestWorld(t, 10, 10)

	got := w.nextPosition(Point{X: 3, Y: 0}, Point{X: 3, Y: 6}, blocksFairy)
	if got != (Point{X: 3, Y: 1}) {
		t.Fatalf("expected vertical step on aligned column, got %v", got)
	}
}

func TestWorkerPassesThroughStumps(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	w.AddEntity(NewStump("stump-1", Point{X: 1, Y: 0}))

	got := w.nextPosition(Point{X: 0, Y: 0}, Point{X: 5, Y: 0}, blocksDude)
	if got != (Point{X: 1, Y: 0}) {
		t.Fatalf("expected worker to step onto stump cell, got %v", got)
	}
}

func TestFairyBlockedByStumps(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	w.AddEntity(NewStump("stump-1", Point{X: 1, Y: 0}))

	got := w.nextPosition(Point{X: 0, Y: 0}, Point{X: 5, Y: 0}, blocksFairy)
	if got != (Point{X: 0, Y: 1}) {
		t.Fatalf("expected fairy to detour vertically around stump, got %v", got)
	}
}

// A worker two cells from its target with a stump in between crosses
// the stump in two steps, evicting it in passing.
func TestWorkerCrossesStumpInTwoSteps(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	s := NewScheduler()
	dude := NewDudeNotFull("dude-1", Point{X: 0, Y: 0}, 1.0, 0.1, 4)
	w.AddEntity(dude)
	w.AddEntity(NewStump("stump-1", Point{X: 1, Y: 0}))

	dest := Point{X: 2, Y: 0}
	w.MoveEntity(s, dude, w.nextPosition(dude.Position, dest, blocksDude))
	if dude.Position != (Point{X: 1, Y: 0}) {
		t.Fatalf("expected first step onto stump cell, got %v", dude.Position)
	}
	if _, ok := w.Entity("stump-1"); ok {
		t.Fatalf("expected stump evicted when stepped on")
	}

	w.MoveEntity(s, dude, w.nextPosition(dude.Position, dest, blocksDude))
	if dude.Position != dest {
		t.Fatalf("expected arrival at %v after two steps, got %v", dest, dude.Position)
	}
}
