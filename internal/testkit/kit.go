// Package testkit holds fixtures shared by package tests.
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"randlab/domain/stats"
)

// ScriptedSource replays a fixed sequence of draws, wrapping around at the end.
// It lets sampler tests pin exact uniform values, including edge cases like 0.
type ScriptedSource struct {
	values []float64
	pos    int
	Calls  int
}

// NewScriptedSource creates a source replaying values in order
func NewScriptedSource(values ...float64) *ScriptedSource {
	if len(values) == 0 {
		panic("testkit: scripted source needs at least one value")
	}
	return &ScriptedSource{values: values}
}

// Float64 returns the next scripted value
func (s *ScriptedSource) Float64() float64 {
	v := s.values[s.pos]
	s.pos = (s.pos + 1) % len(s.values)
	s.Calls++
	return v
}

// ExactUniform places perBin points at the midpoints of equal sub-intervals
// inside each of bins equal-width bins of [0,1).
func ExactUniform(bins, perBin int) stats.Sample {
	out := make(stats.Sample, 0, bins*perBin)
	width := 1.0 / float64(bins)
	for b := 0; b < bins; b++ {
		for j := 0; j < perBin; j++ {
			out = append(out, width*(float64(b)+(float64(j)+0.5)/float64(perBin)))
		}
	}
	return out
}

// Midpoints returns {(i+0.5)/n} for i in 0..n-1
func Midpoints(n int) stats.Sample {
	out := make(stats.Sample, n)
	for i := range out {
		out[i] = (float64(i) + 0.5) / float64(n)
	}
	return out
}

// Reversed returns a reversed copy of s
func Reversed(s stats.Sample) stats.Sample {
	out := make(stats.Sample, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// OutDir returns a fresh nested output directory under t.TempDir that does
// not exist yet, so stores have to create it
func OutDir(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "out")
}

// ReadLines returns the lines of a file written by a store
func ReadLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
