package sim

import "strings"

const defaultSeed = "glade"

// Config captures the tunables used when populating a world. Trees
// grown from saplings draw their parameters from the min/max ranges
// through the world's seeded RNG; bounds are inclusive on both ends.
type Config struct {
	Seed string `json:"seed"`

	SaplingPeriod      float64 `json:"saplingPeriod"`
	SaplingHealthLimit int     `json:"saplingHealthLimit"`

	TreeActionMin    float64 `json:"treeActionMin"`
	TreeActionMax    float64 `json:"treeActionMax"`
	TreeAnimationMin float64 `json:"treeAnimationMin"`
	TreeAnimationMax float64 `json:"treeAnimationMax"`
	TreeHealthMin    int     `json:"treeHealthMin"`
	TreeHealthMax    int     `json:"treeHealthMax"`
}

// Normalized returns a config with defaults applied to zero fields.
func (cfg Config) Normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = defaultSeed
	}
	if normalized.SaplingPeriod <= 0 {
		normalized.SaplingPeriod = 1.0
	}
	if normalized.SaplingHealthLimit <= 0 {
		normalized.SaplingHealthLimit = 5
	}
	if normalized.TreeActionMin <= 0 {
		normalized.TreeActionMin = 1.0
	}
	if normalized.TreeActionMax < normalized.TreeActionMin {
		normalized.TreeActionMax = 1.4
	}
	if normalized.TreeAnimationMin <= 0 {
		normalized.TreeAnimationMin = 0.05
	}
	if normalized.TreeAnimationMax < normalized.TreeAnimationMin {
		normalized.TreeAnimationMax = 0.6
	}
	if normalized.TreeHealthMin <= 0 {
		normalized.TreeHealthMin = 1
	}
	if normalized.TreeHealthMax < normalized.TreeHealthMin {
		normalized.TreeHealthMax = 3
	}
	return normalized
}

// DefaultConfig returns the standard world tunables and seed.
func DefaultConfig() Config {
	return Config{}.Normalized()
}
