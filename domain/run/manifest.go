package run

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"randlab/domain/core"
	"randlab/domain/stats"
)

// Lab names the experiment a manifest belongs to
type Lab string

const (
	LabUniform  Lab = "uniform"
	LabDiscrete Lab = "discrete"
)

// SampleRecord describes one generated sample without its values
type SampleRecord struct {
	Name        string          `json:"name"`
	Stem        string          `json:"stem"`
	Size        int             `json:"size"`
	Fingerprint core.Hash       `json:"fingerprint"`
	Verdicts    []stats.Verdict `json:"verdicts,omitempty"`
}

// Manifest is the replay record of a lab run: everything needed to regenerate
// its samples plus fingerprints to check that a replay matched.
type Manifest struct {
	RunID      core.RunID         `json:"run_id"`
	Lab        Lab                `json:"lab"`
	Seed       uint64             `json:"seed"`
	Parameters map[string]float64 `json:"parameters"`
	Samples    []SampleRecord     `json:"samples"`
	CreatedAt  time.Time          `json:"created_at"`
}

// NewManifest creates an empty manifest for lab seeded with seed
func NewManifest(lab Lab, seed uint64) *Manifest {
	return &Manifest{
		RunID:      core.NewRunID(),
		Lab:        lab,
		Seed:       seed,
		Parameters: make(map[string]float64),
		CreatedAt:  time.Now().UTC(),
	}
}

// SetParameter records a numeric run parameter
func (m *Manifest) SetParameter(name string, value float64) {
	m.Parameters[name] = value
}

// AddSample appends a sample record
func (m *Manifest) AddSample(rec SampleRecord) {
	m.Samples = append(m.Samples, rec)
}

// Fingerprint hashes the seed, parameters and sample fingerprints.
// It ignores RunID and CreatedAt, so two replays of the same run agree.
func (m *Manifest) Fingerprint() core.Hash {
	var b strings.Builder
	fmt.Fprintf(&b, "lab=%s;seed=%d;", m.Lab, m.Seed)

	keys := make([]string, 0, len(m.Parameters))
	for k := range m.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%g;", k, m.Parameters[k])
	}
	for _, s := range m.Samples {
		fmt.Fprintf(&b, "%s:%d:%s;", s.Name, s.Size, s.Fingerprint)
	}
	return core.NewHash([]byte(b.String()))
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return fmt.Errorf("run manifest: run_id cannot be empty")
	}
	if m.Lab != LabUniform && m.Lab != LabDiscrete {
		return fmt.Errorf("run manifest: unknown lab %q", m.Lab)
	}
	seen := make(map[string]bool, len(m.Samples))
	for _, s := range m.Samples {
		if s.Fingerprint.IsEmpty() {
			return fmt.Errorf("run manifest: sample %q has no fingerprint", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("run manifest: duplicate sample %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}
