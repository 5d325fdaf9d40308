package bintree

import (
	"golang.org/x/exp/rand"
)

// Sampler draws positions uniformly from [0,1).
type Sampler interface {
	Float64() float64
}

// NewSampler returns a sampler seeded with seed. Samplers with the same seed
// produce the same sequence.
func NewSampler(seed uint64) Sampler {
	return rand.New(rand.NewSource(seed))
}
