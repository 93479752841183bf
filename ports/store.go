package ports

import (
	"randlab/domain/run"
	"randlab/domain/stats"
)

// SampleStore persists generated samples under a parameterised stem
type SampleStore interface {
	SaveFloats(stem string, sample stats.Sample) error
	SaveInts(stem string, sample stats.IntSample) error
	SaveManifest(manifest *run.Manifest) error
	// Flush completes any buffered output
	Flush() error
}
