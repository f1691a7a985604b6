package service

import (
	"math/rand"
)

// Rand is the source of randomness for gambling and check-in bonuses.
// Injected so outcomes are reproducible in tests.
type Rand interface {
	// Intn returns a uniform int in [0, n)
	Intn(n int) int
	// Float64 returns a uniform float64 in [0.0, 1.0)
	Float64() float64
}

// NewRand returns a Rand seeded from seed
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}
