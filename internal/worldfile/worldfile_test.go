package worldfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"grove-and-grain/server/internal/sim"
)

const validDoc = `
name: test-glade
rows: 3
cols: 4
seed: test
legend:
  ".": grass
  "~": water
tiles:
  - "...."
  - "..~."
  - "...."
entities:
  - id: house-1
    kind: house
    x: 0
    y: 0
  - kind: tree
    x: 3
    y: 2
    actionPeriod: 1.2
    animationPeriod: 0.3
    health: 2
  - kind: dude
    x: 1
    y: 1
    actionPeriod: 0.8
    animationPeriod: 0.2
    resourceLimit: 3
`

func TestParseValidDocument(t *testing.T) {
	doc, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}
	if doc.Name != "test-glade" {
		t.Fatalf("expected name test-glade, got %q", doc.Name)
	}
	if doc.Rows != 3 || doc.Cols != 4 {
		t.Fatalf("expected 3x4 grid, got %dx%d", doc.Rows, doc.Cols)
	}
	if len(doc.Entities) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(doc.Entities))
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			"short tile row",
			func(s string) string { return strings.Replace(s, `"..~."`, `"..~"`, 1) },
			"expected 4 cells",
		},
		{
			"rune missing from legend",
			func(s string) string { return strings.Replace(s, `"..~."`, `"..#."`, 1) },
			"missing from legend",
		},
		{
			"unknown kind",
			func(s string) string { return strings.Replace(s, "kind: house", "kind: castle", 1) },
			"unknown kind",
		},
		{
			"tree without health",
			func(s string) string { return strings.Replace(s, "health: 2", "health: 0", 1) },
			"health must be positive",
		},
		{
			"entity out of bounds",
			func(s string) string { return strings.Replace(s, "x: 3\n    y: 2", "x: 9\n    y: 2", 1) },
			"outside",
		},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.mutate(validDoc)))
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestParseRejectsDuplicateCell(t *testing.T) {
	doc := validDoc + `  - kind: stump
    x: 0
    y: 0
`
	_, err := Parse([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "already held") {
		t.Fatalf("expected duplicate cell error, got %v", err)
	}
}

func TestBuildPopulatesWorld(t *testing.T) {
	doc, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	world, scheduler, err := doc.Build(nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if world.Rows() != 3 || world.Cols() != 4 {
		t.Fatalf("expected 3x4 world, got %dx%d", world.Rows(), world.Cols())
	}
	if got := world.BackgroundAt(sim.Point{X: 2, Y: 1}); got.ID != "water" {
		t.Fatalf("expected water tile, got %q", got.ID)
	}
	if got := world.BackgroundAt(sim.Point{X: 0, Y: 0}); got.ID != "grass" {
		t.Fatalf("expected grass tile, got %q", got.ID)
	}
	if world.Count() != 3 {
		t.Fatalf("expected 3 entities, got %d", world.Count())
	}

	house, ok := world.Entity("house-1")
	if !ok || house.Kind() != sim.KindHouse {
		t.Fatalf("expected house-1 placed")
	}
	if pending := scheduler.PendingFor("house-1"); pending != 0 {
		t.Fatalf("expected inert house unscheduled, got %d", pending)
	}

	// Unnamed placements get a derived id and their events queued.
	tree, ok := world.OccupantAt(sim.Point{X: 3, Y: 2})
	if !ok || tree.Kind() != sim.KindTree {
		t.Fatalf("expected tree at (3,2)")
	}
	if tree.ID != "tree_1" {
		t.Fatalf("expected generated id tree_1, got %q", tree.ID)
	}
	if pending := scheduler.PendingFor(tree.ID); pending != 2 {
		t.Fatalf("expected tree fully scheduled, got %d pending", pending)
	}
}

func TestBuildAppliesTuning(t *testing.T) {
	doc, err := Parse([]byte(`
name: tuned
rows: 1
cols: 1
legend:
  ".": grass
tiles:
  - "."
tuning:
  saplingPeriod: 2.5
  saplingHealthLimit: 7
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg := doc.Config()
	if cfg.SaplingPeriod != 2.5 {
		t.Fatalf("expected tuned sapling period, got %v", cfg.SaplingPeriod)
	}
	if cfg.SaplingHealthLimit != 7 {
		t.Fatalf("expected tuned health limit, got %d", cfg.SaplingHealthLimit)
	}
	if cfg.TreeHealthMin <= 0 {
		t.Fatalf("expected defaulted tree health range, got %d", cfg.TreeHealthMin)
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	if err := os.WriteFile(path, []byte(validDoc), 0o644); err != nil {
		t.Fatalf("write temp world: %v", err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Name != "test-glade" {
		t.Fatalf("expected loaded document, got %q", doc.Name)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
