package goodness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randlab/adapters/rng"
	"randlab/domain/stats"
	"randlab/internal/testkit"
)

func TestHistogram_Conservation(t *testing.T) {
	sample := rng.Platform{Seed: 99}.Generate(1234)
	for _, bins := range []int{1, 2, 3, 10, 17, 64} {
		h := Histogram(sample, bins, 0, 1)
		assert.Len(t, h.Counts, bins)
		assert.Equal(t, len(sample), h.Total(), "bins=%d", bins)
	}
}

func TestHistogram_Edges(t *testing.T) {
	sample := stats.Sample{1.0, 0.1, 0, 0.95, 0.1000001}
	h := Histogram(sample, 10, 0, 1)

	assert.Equal(t, []int{2, 1, 0, 0, 0, 0, 0, 0, 0, 2}, h.Counts)
	assert.Equal(t, stats.Sample{1.0, 0.1, 0, 0.95, 0.1000001}, sample, "input must not be sorted in place")
}

func TestHistogram_OutOfRangeAboveIsDropped(t *testing.T) {
	h := Histogram(stats.Sample{0.5, 1.5}, 2, 0, 1)
	assert.Equal(t, []int{1, 0}, h.Counts)
}

func TestHistogram_NoBins(t *testing.T) {
	h := Histogram(stats.Sample{0.5}, 0, 0, 1)
	assert.Empty(t, h.Counts)
	assert.Equal(t, 0, h.Total())
}

func TestChiSquare_ExactUniformIsZero(t *testing.T) {
	tester := NewTester(DefaultBins)
	sample := testkit.ExactUniform(DefaultBins, 100)

	v := tester.ChiSquare(sample)
	assert.Equal(t, stats.TestChiSquare, v.Test)
	assert.Equal(t, 0.0, v.Statistic)
	assert.True(t, v.Passed)
	assert.InDelta(t, 1.0, v.PValue, 1e-12)
	assert.Equal(t, DefaultChiSquareCritical, v.Critical)
}

func TestChiSquare_AllInOneBin(t *testing.T) {
	tester := NewTester(DefaultBins)
	sample := make(stats.Sample, 10)
	for i := range sample {
		sample[i] = 0.05
	}

	v := tester.ChiSquare(sample)
	assert.InDelta(t, 90.0, v.Statistic, 1e-12)
	assert.False(t, v.Passed)
	assert.Less(t, v.PValue, 1e-6)
}

func TestChiSquare_Empty(t *testing.T) {
	v := NewTester(DefaultBins).ChiSquare(stats.Sample{})
	assert.Equal(t, 0.0, v.Statistic)
	assert.False(t, v.Passed)
}

func TestChiSquareCritical(t *testing.T) {
	assert.Equal(t, 16.92, ChiSquareCritical(10, 0.05))
	assert.InDelta(t, 9.4877, ChiSquareCritical(5, 0.05), 1e-3)
	assert.InDelta(t, 16.919, ChiSquareCritical(10, 0.0500001), 1e-2)
	assert.True(t, math.IsInf(ChiSquareCritical(1, 0.05), 1))

	tester := NewTester(5)
	assert.Equal(t, ChiSquareCritical(5, DefaultAlpha), tester.ChiSquareCritical)
}

func TestKolmogorov_HandCase(t *testing.T) {
	sample := stats.Sample{0.9, 0.6, 0.3, 0.1}

	d := KolmogorovStatistic(sample)
	assert.InDelta(t, 0.2, d, 1e-12)
	assert.Equal(t, stats.Sample{0.9, 0.6, 0.3, 0.1}, sample, "input must not be sorted in place")

	v := NewTester(DefaultBins).Kolmogorov(sample)
	assert.Equal(t, stats.TestKolmogorov, v.Test)
	assert.InDelta(t, 0.4, v.Scaled, 1e-12)
	assert.True(t, v.Passed)
}

func TestKolmogorov_Midpoints(t *testing.T) {
	for _, n := range []int{4, 100, 1000} {
		sample := testkit.Reversed(testkit.Midpoints(n))
		assert.InDelta(t, 0.5/float64(n), KolmogorovStatistic(sample), 1e-12, "n=%d", n)
	}
}

func TestKolmogorov_ClampsToUnitInterval(t *testing.T) {
	// F(-0.5) = 0 and F(1.5) = 1
	d := KolmogorovStatistic(stats.Sample{-0.5, 1.5})
	assert.InDelta(t, 0.5, d, 1e-12)
}

func TestKolmogorov_SkewedSampleFails(t *testing.T) {
	sample := make(stats.Sample, 1000)
	for i := range sample {
		sample[i] = float64(i) / 2000
	}
	v := NewTester(DefaultBins).Kolmogorov(sample)
	assert.InDelta(t, 0.5, v.Statistic, 1e-3)
	assert.False(t, v.Passed)
	assert.Less(t, v.PValue, 1e-6)
}

func TestKolmogorov_Empty(t *testing.T) {
	v := NewTester(DefaultBins).Kolmogorov(stats.Sample{})
	assert.Equal(t, 0.0, v.Statistic)
	assert.False(t, v.Passed)
}

func TestKolmogorovSurvival(t *testing.T) {
	assert.Equal(t, 1.0, KolmogorovSurvival(0))
	assert.InDelta(t, 0.0495, KolmogorovSurvival(1.36), 1e-3)
	assert.InDelta(t, 0.0, KolmogorovSurvival(5), 1e-12)

	prev := 1.0
	for x := 0.3; x < 3; x += 0.1 {
		p := KolmogorovSurvival(x)
		assert.LessOrEqual(t, p, prev, "x=%v", x)
		prev = p
	}
}

func TestBattery_Consistency(t *testing.T) {
	tester := NewTester(DefaultBins)
	samples := map[string]stats.Sample{
		"congruential": rng.DefaultCongruential().Generate(1000),
		"platform":     rng.Platform{Seed: 5489}.Generate(1000),
	}
	for name, sample := range samples {
		verdicts := tester.Battery(sample)
		require.Len(t, verdicts, 2, name)
		assert.Equal(t, stats.TestChiSquare, verdicts[0].Test)
		assert.Equal(t, stats.TestKolmogorov, verdicts[1].Test)
		for _, v := range verdicts {
			assert.Equal(t, v.Scaled < v.Critical, v.Passed, "%s/%s", name, v.Test)
			assert.GreaterOrEqual(t, v.PValue, 0.0)
			assert.LessOrEqual(t, v.PValue, 1.0)
		}
	}
}
