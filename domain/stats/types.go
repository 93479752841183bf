package stats

import (
	"encoding/binary"
	"math"

	"randlab/domain/core"
)

// Sample is an ordered sequence of real draws, immutable once produced
type Sample []float64

// IntSample is an ordered sequence of integer draws, immutable once produced
type IntSample []int

// Floats converts the sample for consumers that work on float64 slices
func (s IntSample) Floats() []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}

// Fingerprint hashes the exact bit pattern of every value
func (s Sample) Fingerprint() core.Hash {
	buf := make([]byte, 8*len(s))
	for i, v := range s {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return core.NewHash(buf)
}

// Fingerprint hashes every value as a little-endian int64
func (s IntSample) Fingerprint() core.Hash {
	buf := make([]byte, 8*len(s))
	for i, v := range s {
		binary.LittleEndian.PutUint64(buf[8*i:], uint64(int64(v)))
	}
	return core.NewHash(buf)
}

// Histogram holds counts over equal-width sub-intervals of [Lower, Upper].
// Intervals are half-open except the last, which is closed at Upper.
type Histogram struct {
	Counts []int   `json:"counts"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
}

// Total returns the number of values counted
func (h Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// TestName identifies a goodness-of-fit test
type TestName string

const (
	TestChiSquare  TestName = "chi_square"
	TestKolmogorov TestName = "kolmogorov"
)

// Verdict is a statistic compared against a fixed critical threshold.
// For the Kolmogorov test Statistic is D and the comparison uses sqrt(n)*D.
type Verdict struct {
	Test      TestName `json:"test"`
	Statistic float64  `json:"statistic"`
	Scaled    float64  `json:"scaled"`
	Critical  float64  `json:"critical"`
	PValue    float64  `json:"p_value"`
	Passed    bool     `json:"passed"`
}

// MomentSummary holds mean, unbiased variance, skewness and excess kurtosis
type MomentSummary struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}
