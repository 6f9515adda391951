// Package worldfile loads world documents: YAML files describing grid
// dimensions, background tiles, and the initial entity population.
package worldfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"grove-and-grain/server/internal/sim"
	"grove-and-grain/server/logging"
)

// Document is the on-disk shape of a world. Tiles reference the legend
// one rune per cell; entities are placed after the background is laid.
type Document struct {
	Name     string            `yaml:"name" json:"name"`
	Rows     int               `yaml:"rows" json:"rows"`
	Cols     int               `yaml:"cols" json:"cols"`
	Seed     string            `yaml:"seed,omitempty" json:"seed,omitempty"`
	Tuning   *Tuning           `yaml:"tuning,omitempty" json:"tuning,omitempty"`
	Legend   map[string]string `yaml:"legend" json:"legend"`
	Tiles    []string          `yaml:"tiles" json:"tiles"`
	Entities []Placement       `yaml:"entities,omitempty" json:"entities,omitempty"`
}

// Tuning overrides the world's growth parameters. Zero-valued fields
// fall back to the defaults.
type Tuning struct {
	SaplingPeriod      float64 `yaml:"saplingPeriod,omitempty" json:"saplingPeriod,omitempty"`
	SaplingHealthLimit int     `yaml:"saplingHealthLimit,omitempty" json:"saplingHealthLimit,omitempty"`
	TreeActionMin      float64 `yaml:"treeActionMin,omitempty" json:"treeActionMin,omitempty"`
	TreeActionMax      float64 `yaml:"treeActionMax,omitempty" json:"treeActionMax,omitempty"`
	TreeAnimationMin   float64 `yaml:"treeAnimationMin,omitempty" json:"treeAnimationMin,omitempty"`
	TreeAnimationMax   float64 `yaml:"treeAnimationMax,omitempty" json:"treeAnimationMax,omitempty"`
	TreeHealthMin      int     `yaml:"treeHealthMin,omitempty" json:"treeHealthMin,omitempty"`
	TreeHealthMax      int     `yaml:"treeHealthMax,omitempty" json:"treeHealthMax,omitempty"`
}

// Placement positions a single entity. Which numeric fields are
// required depends on the kind; validation rejects incomplete entries.
type Placement struct {
	ID              string  `yaml:"id,omitempty" json:"id,omitempty"`
	Kind            string  `yaml:"kind" json:"kind"`
	X               int     `yaml:"x" json:"x"`
	Y               int     `yaml:"y" json:"y"`
	ActionPeriod    float64 `yaml:"actionPeriod,omitempty" json:"actionPeriod,omitempty"`
	AnimationPeriod float64 `yaml:"animationPeriod,omitempty" json:"animationPeriod,omitempty"`
	Health          int     `yaml:"health,omitempty" json:"health,omitempty"`
	ResourceLimit   int     `yaml:"resourceLimit,omitempty" json:"resourceLimit,omitempty"`
	ResourceCount   int     `yaml:"resourceCount,omitempty" json:"resourceCount,omitempty"`
}

// Load reads and parses a world document from disk.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("worldfile: read %s: %w", path, err)
	}
	doc, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("worldfile: %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes and validates a world document.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	if d.Rows <= 0 || d.Cols <= 0 {
		return fmt.Errorf("dimensions must be positive, got %dx%d", d.Rows, d.Cols)
	}
	if len(d.Tiles) != d.Rows {
		return fmt.Errorf("expected %d tile rows, got %d", d.Rows, len(d.Tiles))
	}
	for y, row := range d.Tiles {
		runes := []rune(row)
		if len(runes) != d.Cols {
			return fmt.Errorf("tile row %d: expected %d cells, got %d", y, d.Cols, len(runes))
		}
		for x, r := range runes {
			if _, ok := d.Legend[string(r)]; !ok {
				return fmt.Errorf("tile row %d col %d: rune %q missing from legend", y, x, r)
			}
		}
	}

	seenIDs := make(map[string]int)
	seenCells := make(map[sim.Point]int)
	for i, p := range d.Entities {
		if err := p.validate(); err != nil {
			return fmt.Errorf("entity %d: %w", i, err)
		}
		if p.X < 0 || p.X >= d.Cols || p.Y < 0 || p.Y >= d.Rows {
			return fmt.Errorf("entity %d: position (%d,%d) outside %dx%d grid", i, p.X, p.Y, d.Cols, d.Rows)
		}
		if p.ID != "" {
			if prev, dup := seenIDs[p.ID]; dup {
				return fmt.Errorf("entity %d: id %q already used by entity %d", i, p.ID, prev)
			}
			seenIDs[p.ID] = i
		}
		cell := sim.Point{X: p.X, Y: p.Y}
		if prev, dup := seenCells[cell]; dup {
			return fmt.Errorf("entity %d: cell (%d,%d) already held by entity %d", i, p.X, p.Y, prev)
		}
		seenCells[cell] = i
	}
	return nil
}

func (p Placement) validate() error {
	switch p.Kind {
	case "house", "stump":
		return nil
	case "obstacle":
		return requirePositive("animationPeriod", p.AnimationPeriod)
	case "sapling":
		return nil
	case "tree":
		if err := requirePositive("actionPeriod", p.ActionPeriod); err != nil {
			return err
		}
		if err := requirePositive("animationPeriod", p.AnimationPeriod); err != nil {
			return err
		}
		if p.Health <= 0 {
			return fmt.Errorf("tree health must be positive, got %d", p.Health)
		}
		return nil
	case "fairy":
		if err := requirePositive("actionPeriod", p.ActionPeriod); err != nil {
			return err
		}
		return requirePositive("animationPeriod", p.AnimationPeriod)
	case "dude":
		if err := requirePositive("actionPeriod", p.ActionPeriod); err != nil {
			return err
		}
		if err := requirePositive("animationPeriod", p.AnimationPeriod); err != nil {
			return err
		}
		if p.ResourceLimit <= 0 {
			return fmt.Errorf("dude resourceLimit must be positive, got %d", p.ResourceLimit)
		}
		return nil
	default:
		return fmt.Errorf("unknown kind %q", p.Kind)
	}
}

func requirePositive(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("%s must be positive, got %v", name, v)
	}
	return nil
}

// Config derives the world tuning, seed included, with defaults filled.
func (d *Document) Config() sim.Config {
	cfg := sim.Config{Seed: d.Seed}
	if t := d.Tuning; t != nil {
		cfg.SaplingPeriod = t.SaplingPeriod
		cfg.SaplingHealthLimit = t.SaplingHealthLimit
		cfg.TreeActionMin = t.TreeActionMin
		cfg.TreeActionMax = t.TreeActionMax
		cfg.TreeAnimationMin = t.TreeAnimationMin
		cfg.TreeAnimationMax = t.TreeAnimationMax
		cfg.TreeHealthMin = t.TreeHealthMin
		cfg.TreeHealthMax = t.TreeHealthMax
	}
	return cfg.Normalized()
}

// Build constructs the world, lays the background, places every
// entity, and schedules their initial actions on a fresh scheduler.
func (d *Document) Build(publisher logging.Publisher) (*sim.World, *sim.Scheduler, error) {
	world := sim.NewWorld(d.Rows, d.Cols, d.Config(), publisher)
	scheduler := sim.NewScheduler()

	for y, row := range d.Tiles {
		for x, r := range []rune(row) {
			world.SetBackgroundAt(sim.Point{X: x, Y: y}, sim.Background{ID: d.Legend[string(r)]})
		}
	}

	for i, p := range d.Entities {
		entity, err := p.build(i, world.Config())
		if err != nil {
			return nil, nil, fmt.Errorf("worldfile: entity %d: %w", i, err)
		}
		if err := world.TryAddEntity(entity); err != nil {
			return nil, nil, fmt.Errorf("worldfile: entity %d (%s): %w", i, entity.ID, err)
		}
		world.ScheduleActions(scheduler, entity)
	}
	return world, scheduler, nil
}

func (p Placement) build(index int, cfg sim.Config) (*sim.Entity, error) {
	id := p.ID
	if id == "" {
		id = fmt.Sprintf("%s_%d", p.Kind, index)
	}
	pos := sim.Point{X: p.X, Y: p.Y}

	switch p.Kind {
	case "house":
		return sim.NewHouse(id, pos), nil
	case "stump":
		return sim.NewStump(id, pos), nil
	case "obstacle":
		return sim.NewObstacle(id, pos, p.AnimationPeriod), nil
	case "sapling":
		return sim.NewSapling(id, pos, p.Health, cfg.SaplingPeriod, cfg.SaplingHealthLimit), nil
	case "tree":
		return sim.NewTree(id, pos, p.ActionPeriod, p.AnimationPeriod, p.Health), nil
	case "fairy":
		return sim.NewFairy(id, pos, p.ActionPeriod, p.AnimationPeriod), nil
	case "dude":
		return sim.NewDudeNotFull(id, pos, p.ActionPeriod, p.AnimationPeriod, p.ResourceLimit), nil
	default:
		return nil, fmt.Errorf("unknown kind %q", p.Kind)
	}
}

// Kinds lists the placement kinds a document may contain.
func Kinds() []string {
	return []string{"house", "stump", "obstacle", "sapling", "tree", "fairy", "dude"}
}
