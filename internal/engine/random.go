package engine

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Rand is the engine's only source of randomness. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewSource returns a deterministic random source for seed.
func NewSource(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for reproducible games.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "events"), seedWord(seed, "choices")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
