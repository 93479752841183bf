// Package sampler derives Bernoulli, binomial, geometric and Poisson samples
// from an injected uniform source.
package sampler

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"randlab/domain/stats"
	apperrors "randlab/internal/errors"
	"randlab/ports"
)

// MaxPoissonLambda keeps exp(-lambda) well above the smallest normal float64
const MaxPoissonLambda = 700.0

func validProbability(name string, p float64) error {
	if !(p > 0 && p < 1) {
		return apperrors.InvalidParameter(name, p, "(0,1)")
	}
	return nil
}

// Bernoulli emits 1 when a draw u satisfies u <= P, else 0
type Bernoulli struct {
	P float64 `json:"p"`
}

func (b Bernoulli) Name() string     { return "bernoulli" }
func (b Bernoulli) FileStem() string { return fmt.Sprintf("bernoulli_%.2f", b.P) }

func (b Bernoulli) Parameters() map[string]float64 {
	return map[string]float64{"p": b.P}
}

func (b Bernoulli) Validate() error {
	return validProbability("bernoulli.p", b.P)
}

func (b Bernoulli) Sample(src ports.UniformSource, n int) stats.IntSample {
	out := make(stats.IntSample, max(n, 0))
	for i := range out {
		out[i] = b.roll(src)
	}
	return out
}

func (b Bernoulli) roll(src ports.UniformSource) int {
	if src.Float64() <= b.P {
		return 1
	}
	return 0
}

func (b Bernoulli) Expected() stats.MomentSummary {
	d := distuv.Bernoulli{P: b.P}
	return stats.MomentSummary{
		Mean:     d.Mean(),
		Variance: d.Variance(),
		Skewness: d.Skewness(),
		Kurtosis: d.ExKurtosis(),
	}
}

// Binomial sums M independent Bernoulli(P) trials
type Binomial struct {
	M int     `json:"m"`
	P float64 `json:"p"`
}

func (b Binomial) Name() string     { return "binomial" }
func (b Binomial) FileStem() string { return fmt.Sprintf("binomial_%d_%.2f", b.M, b.P) }

func (b Binomial) Parameters() map[string]float64 {
	return map[string]float64{"m": float64(b.M), "p": b.P}
}

func (b Binomial) Validate() error {
	var errs apperrors.Collector
	if b.M < 1 {
		errs.Add(apperrors.InvalidParameter("binomial.m", b.M, "[1, inf)"))
	}
	errs.Add(validProbability("binomial.p", b.P))
	return errs.ErrorOrNil()
}

func (b Binomial) Sample(src ports.UniformSource, n int) stats.IntSample {
	trial := Bernoulli{P: b.P}
	out := make(stats.IntSample, max(n, 0))
	for i := range out {
		sum := 0
		for j := 0; j < b.M; j++ {
			sum += trial.roll(src)
		}
		out[i] = sum
	}
	return out
}

func (b Binomial) Expected() stats.MomentSummary {
	d := distuv.Binomial{N: float64(b.M), P: b.P}
	return stats.MomentSummary{
		Mean:     d.Mean(),
		Variance: d.Variance(),
		Skewness: d.Skewness(),
		Kurtosis: d.ExKurtosis(),
	}
}

// Geometric counts trials up to and including the first success by inversion:
// ceil(ln(u) / ln(1-P)). A draw of exactly 0 is discarded and redrawn.
type Geometric struct {
	P float64 `json:"p"`
}

func (g Geometric) Name() string     { return "geometric" }
func (g Geometric) FileStem() string { return fmt.Sprintf("geometric_%.2f", g.P) }

func (g Geometric) Parameters() map[string]float64 {
	return map[string]float64{"p": g.P}
}

func (g Geometric) Validate() error {
	return validProbability("geometric.p", g.P)
}

func (g Geometric) Sample(src ports.UniformSource, n int) stats.IntSample {
	denom := math.Log1p(-g.P)
	out := make(stats.IntSample, max(n, 0))
	for i := range out {
		u := src.Float64()
		for u == 0 {
			u = src.Float64()
		}
		out[i] = int(math.Ceil(math.Log(u) / denom))
	}
	return out
}

// Expected uses closed forms; gonum has no geometric distribution
func (g Geometric) Expected() stats.MomentSummary {
	q := 1 - g.P
	return stats.MomentSummary{
		Mean:     1 / g.P,
		Variance: q / (g.P * g.P),
		Skewness: (2 - g.P) / math.Sqrt(q),
		Kurtosis: 6 + g.P*g.P/q,
	}
}

// Poisson uses Knuth's multiplication method: multiply fresh draws into a
// running product until it falls below exp(-Lambda) and report the number of
// draws minus one.
type Poisson struct {
	Lambda float64 `json:"lambda"`
}

func (p Poisson) Name() string     { return "poisson" }
func (p Poisson) FileStem() string { return fmt.Sprintf("poisson_%.2f", p.Lambda) }

func (p Poisson) Parameters() map[string]float64 {
	return map[string]float64{"lambda": p.Lambda}
}

func (p Poisson) Validate() error {
	if !(p.Lambda > 0 && p.Lambda <= MaxPoissonLambda) {
		return apperrors.InvalidParameter("poisson.lambda", p.Lambda, fmt.Sprintf("(0, %g]", MaxPoissonLambda))
	}
	return nil
}

func (p Poisson) Sample(src ports.UniformSource, n int) stats.IntSample {
	limit := math.Exp(-p.Lambda)
	out := make(stats.IntSample, max(n, 0))
	for i := range out {
		k := 1
		product := src.Float64()
		for product >= limit {
			product *= src.Float64()
			k++
		}
		out[i] = k - 1
	}
	return out
}

func (p Poisson) Expected() stats.MomentSummary {
	d := distuv.Poisson{Lambda: p.Lambda}
	return stats.MomentSummary{
		Mean:     d.Mean(),
		Variance: d.Variance(),
		Skewness: d.Skewness(),
		Kurtosis: d.ExKurtosis(),
	}
}

var (
	_ ports.DiscreteSampler = Bernoulli{}
	_ ports.DiscreteSampler = Binomial{}
	_ ports.DiscreteSampler = Geometric{}
	_ ports.DiscreteSampler = Poisson{}
)
