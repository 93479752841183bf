package ports

import "randlab/domain/stats"

// UniformSource yields one pseudo-random draw in [0,1) per call.
// Implementations carry their own state and are not safe for concurrent use.
type UniformSource interface {
	Float64() float64
}

// UniformGenerator produces whole uniform samples from fixed parameters
type UniformGenerator interface {
	// Generate returns n draws; repeated calls with the same parameters are identical
	Generate(n int) stats.Sample

	// Stream returns a fresh stateful source positioned at the first draw
	Stream() UniformSource
}
