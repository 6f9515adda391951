package sim

import (
	"hash/fnv"
	"math/rand"
)

// newDeterministicRNG derives a reproducible RNG from a string seed
// and a stream label, so separate consumers of the same world seed
// do not share a sequence.
func newDeterministicRNG(seed, stream string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(seed))
	h.Write([]byte{':'})
	h.Write([]byte(stream))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// intBetween samples an integer in [min, max], inclusive on both ends.
func (w *World) intBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + w.rng.Intn(max-min+1)
}

// floatBetween samples a float in [min, max].
func (w *World) floatBetween(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + w.rng.Float64()*(max-min)
}
