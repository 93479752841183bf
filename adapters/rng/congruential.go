// Package rng provides uniform pseudo-random streams on [0,1): a
// multiplicative congruential generator, a seeded Mersenne Twister and the
// MacLaren-Marsaglia combination of two streams.
package rng

import (
	"fmt"
	"math"

	"randlab/domain/stats"
	apperrors "randlab/internal/errors"
	"randlab/ports"
)

const (
	DefaultMultiplier uint64 = 24389
	DefaultModulus    uint64 = 1 << 31
	DefaultSeed       uint64 = DefaultMultiplier
)

// Congruential is the multiplicative congruential generator
// x[0] = Seed, x[i] = Multiplier*x[i-1] mod Modulus, emitting x[i]/Modulus.
type Congruential struct {
	Multiplier uint64 `json:"multiplier"`
	Modulus    uint64 `json:"modulus"`
	Seed       uint64 `json:"seed"`
}

// DefaultCongruential returns the generator with a 31-bit modulus used by the uniform lab
func DefaultCongruential() Congruential {
	return Congruential{
		Multiplier: DefaultMultiplier,
		Modulus:    DefaultModulus,
		Seed:       DefaultSeed,
	}
}

// Validate checks that the recurrence is well defined, never reaches 0 and
// cannot overflow uint64
func (c Congruential) Validate() error {
	var errs apperrors.Collector
	if c.Modulus < 2 {
		errs.Add(apperrors.InvalidParameter("modulus", c.Modulus, "[2, 2^64)"))
	}
	if c.Multiplier == 0 {
		errs.Add(apperrors.InvalidParameter("multiplier", c.Multiplier, "[1, modulus)"))
	}
	if c.Seed == 0 || (c.Modulus >= 2 && c.Seed >= c.Modulus) {
		errs.Add(apperrors.InvalidParameter("seed", c.Seed, "[1, modulus)"))
	}
	if c.Modulus >= 2 && c.Multiplier > 0 && gcd(c.Multiplier, c.Modulus) != 1 {
		// a shared factor lets the state reach 0, where it stays
		errs.Add(apperrors.InvalidParameter("multiplier", c.Multiplier,
			fmt.Sprintf("[1, modulus) coprime to %d", c.Modulus)))
	}
	if c.Modulus >= 2 && c.Multiplier > math.MaxUint64/(c.Modulus-1) {
		errs.Addf(apperrors.CodeInvalidParameter,
			"multiplier %d times modulus %d overflows 64 bits", c.Multiplier, c.Modulus)
	}
	return errs.ErrorOrNil()
}

// Generate returns the first n values of the recurrence, starting from the seed every call
func (c Congruential) Generate(n int) stats.Sample {
	return drain(c.Stream(), n)
}

// Stream returns a stateful source positioned at x[0]
func (c Congruential) Stream() ports.UniformSource {
	return &CongruentialStream{
		multiplier: c.Multiplier,
		modulus:    c.Modulus,
		state:      c.Seed,
	}
}

// CongruentialStream draws the recurrence one value at a time
type CongruentialStream struct {
	multiplier uint64
	modulus    uint64
	state      uint64
}

// Float64 returns the current recurrence value normalised by the modulus and advances
func (s *CongruentialStream) Float64() float64 {
	x := s.state
	s.state = (s.multiplier * s.state) % s.modulus
	return float64(x) / float64(s.modulus)
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func drain(src ports.UniformSource, n int) stats.Sample {
	if n <= 0 {
		return stats.Sample{}
	}
	out := make(stats.Sample, n)
	for i := range out {
		out[i] = src.Float64()
	}
	return out
}
