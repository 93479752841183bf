// Package goodness tests whether a sample is uniform on [0,1] using a
// histogram chi-square statistic and the Kolmogorov statistic.
package goodness

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"randlab/domain/stats"
)

const (
	DefaultBins = 10
	// DefaultAlpha is the significance level behind both default critical values
	DefaultAlpha = 0.05
	// DefaultChiSquareCritical is the chi-square 0.95 quantile for 9 degrees of freedom
	DefaultChiSquareCritical = 16.92
	// DefaultKolmogorovCritical approximates the Kolmogorov 0.95 quantile for large n
	DefaultKolmogorovCritical = 1.36
)

// Tester runs goodness-of-fit tests against the uniform distribution on [Lower, Upper]
type Tester struct {
	Bins               int
	Lower              float64
	Upper              float64
	ChiSquareCritical  float64
	KolmogorovCritical float64
}

// NewTester builds a tester over [0,1] with the given bin count. Ten bins use
// the fixed 16.92 threshold; other counts take the chi-square quantile at
// 1-DefaultAlpha with bins-1 degrees of freedom.
func NewTester(bins int) *Tester {
	return &Tester{
		Bins:               bins,
		Lower:              0,
		Upper:              1,
		ChiSquareCritical:  ChiSquareCritical(bins, DefaultAlpha),
		KolmogorovCritical: DefaultKolmogorovCritical,
	}
}

// ChiSquareCritical returns the rejection threshold for a uniform histogram with bins bins
func ChiSquareCritical(bins int, alpha float64) float64 {
	if bins == DefaultBins && alpha == DefaultAlpha {
		return DefaultChiSquareCritical
	}
	if bins < 2 {
		return math.Inf(1)
	}
	return distuv.ChiSquared{K: float64(bins - 1)}.Quantile(1 - alpha)
}

// Histogram counts sample values over bins equal-width intervals of
// [lower, upper]. A value lands in the first bin whose upper edge is not
// below it, so the last bin is closed at upper and values above upper are
// not counted. The sample is not modified.
func Histogram(sample stats.Sample, bins int, lower, upper float64) stats.Histogram {
	h := stats.Histogram{Lower: lower, Upper: upper}
	if bins < 1 {
		h.Counts = []int{}
		return h
	}

	sorted := sortedCopy(sample)
	h.Counts = make([]int, bins)
	stride := (upper - lower) / float64(bins)
	prev := 0
	for i := 0; i < bins; i++ {
		edge := lower + stride*float64(i+1)
		if i == bins-1 {
			edge = upper
		}
		cnt := sort.Search(len(sorted), func(j int) bool { return sorted[j] > edge })
		h.Counts[i] = cnt - prev
		prev = cnt
	}
	return h
}

// Histogram bins sample over the tester's range
func (t *Tester) Histogram(sample stats.Sample) stats.Histogram {
	return Histogram(sample, t.Bins, t.Lower, t.Upper)
}

// ChiSquareStatistic is Σ(observed-expected)²/expected with expected = n/bins
func (t *Tester) ChiSquareStatistic(sample stats.Sample) float64 {
	if len(sample) == 0 || t.Bins < 1 {
		return 0
	}
	expected := float64(len(sample)) / float64(t.Bins)
	res := 0.0
	for _, cnt := range t.Histogram(sample).Counts {
		d := float64(cnt) - expected
		res += d * d / expected
	}
	return res
}

// ChiSquare compares the chi-square statistic with the critical value.
// An empty sample never passes.
func (t *Tester) ChiSquare(sample stats.Sample) stats.Verdict {
	stat := t.ChiSquareStatistic(sample)
	pValue := 1.0
	if t.Bins >= 2 && len(sample) > 0 {
		pValue = distuv.ChiSquared{K: float64(t.Bins - 1)}.Survival(stat)
	}
	return stats.Verdict{
		Test:      stats.TestChiSquare,
		Statistic: stat,
		Scaled:    stat,
		Critical:  t.ChiSquareCritical,
		PValue:    pValue,
		Passed:    len(sample) > 0 && stat < t.ChiSquareCritical,
	}
}

// KolmogorovStatistic is D = max_i |(i+1)/n - F(x_i)| over the sorted sample,
// where F is the uniform CDF on [0,1] (the identity clamped to [0,1]).
func KolmogorovStatistic(sample stats.Sample) float64 {
	sorted := sortedCopy(sample)
	n := float64(len(sorted))
	res := 0.0
	for i, x := range sorted {
		f := math.Min(math.Max(x, 0), 1)
		fHat := float64(i+1) / n
		res = math.Max(res, math.Abs(fHat-f))
	}
	return res
}

// Kolmogorov passes when sqrt(n)*D is below the critical value.
// An empty sample never passes.
func (t *Tester) Kolmogorov(sample stats.Sample) stats.Verdict {
	d := KolmogorovStatistic(sample)
	scaled := math.Sqrt(float64(len(sample))) * d
	return stats.Verdict{
		Test:      stats.TestKolmogorov,
		Statistic: d,
		Scaled:    scaled,
		Critical:  t.KolmogorovCritical,
		PValue:    KolmogorovSurvival(scaled),
		Passed:    len(sample) > 0 && scaled < t.KolmogorovCritical,
	}
}

// Battery runs the chi-square test and then the Kolmogorov test
func (t *Tester) Battery(sample stats.Sample) []stats.Verdict {
	return []stats.Verdict{t.ChiSquare(sample), t.Kolmogorov(sample)}
}

// KolmogorovSurvival is P(K > x) for the limiting Kolmogorov distribution,
// 2 Σ (-1)^(k-1) exp(-2k²x²).
func KolmogorovSurvival(x float64) float64 {
	if x < 0.2 {
		return 1
	}
	sum := 0.0
	sign := 1.0
	for k := 1; k <= 100; k++ {
		term := math.Exp(-2 * float64(k*k) * x * x)
		sum += sign * term
		if term < 1e-16 {
			break
		}
		sign = -sign
	}
	return math.Min(math.Max(2*sum, 0), 1)
}

func sortedCopy(sample stats.Sample) []float64 {
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)
	return sorted
}
