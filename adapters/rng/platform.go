package rng

import (
	"gonum.org/v1/gonum/mathext/prng"
	"gonum.org/v1/gonum/stat/distuv"

	"randlab/domain/stats"
	"randlab/ports"
)

// Platform is a Mersenne Twister (MT19937) uniform generator on [0,1).
// It is explicitly seeded; only the low 32 bits of Seed are significant.
type Platform struct {
	Seed uint64 `json:"seed"`
}

// Generate returns n draws from a freshly seeded twister
func (p Platform) Generate(n int) stats.Sample {
	return drain(p.Stream(), n)
}

// Stream returns a stateful source seeded with p.Seed
func (p Platform) Stream() ports.UniformSource {
	mt := prng.NewMT19937()
	mt.Seed(p.Seed)
	return &platformStream{dist: distuv.Uniform{Min: 0, Max: 1, Src: mt}}
}

type platformStream struct {
	dist distuv.Uniform
}

func (s *platformStream) Float64() float64 {
	return s.dist.Rand()
}
