package algorithms

import "math/rand/v2"

// NewRandomSource returns a PCG-backed source. The same seed always yields
// the same run.
func NewRandomSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func rand64() uint64 {
	return rand.Uint64()
}
