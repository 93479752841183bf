// Package moments estimates bias-corrected sample moments of integer samples.
package moments

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	domainStats "randlab/domain/stats"
	apperrors "randlab/internal/errors"
)

// Estimator computes moments of one sample. The sample is copied on construction.
type Estimator struct {
	values []float64
	mean   float64
}

// New prepares an estimator; an empty sample has no moments at all
func New(sample domainStats.IntSample) (*Estimator, error) {
	if len(sample) == 0 {
		return nil, apperrors.SampleTooSmall("mean", 0, 1)
	}
	values := sample.Floats()
	mean, err := stats.Mean(values)
	if err != nil {
		return nil, apperrors.Wrap(err, "computing mean")
	}
	return &Estimator{values: values, mean: mean}, nil
}

// Size is the sample size m
func (e *Estimator) Size() int {
	return len(e.values)
}

// Mean is Σx/m
func (e *Estimator) Mean() float64 {
	return e.mean
}

// CentralMoment is Σ(x-mean)^order/m
func (e *Estimator) CentralMoment(order int) float64 {
	return stat.Moment(float64(order), e.values, nil)
}

// Variance is the unbiased second central moment cm2*m/(m-1)
func (e *Estimator) Variance() (float64, error) {
	m := float64(e.Size())
	if e.Size() < 2 {
		return 0, apperrors.SampleTooSmall("variance", e.Size(), 2)
	}
	return e.CentralMoment(2) * m / (m - 1), nil
}

// ThirdMoment is the unbiased third central moment cm3*m/(m-1)*m/(m-2)
func (e *Estimator) ThirdMoment() (float64, error) {
	m := float64(e.Size())
	if e.Size() < 3 {
		return 0, apperrors.SampleTooSmall("third moment", e.Size(), 3)
	}
	return e.CentralMoment(3) * m / (m - 1) * m / (m - 2), nil
}

// Skewness is ThirdMoment / Variance^1.5
func (e *Estimator) Skewness() (float64, error) {
	third, err := e.ThirdMoment()
	if err != nil {
		return 0, err
	}
	variance, err := e.Variance()
	if err != nil {
		return 0, err
	}
	if variance == 0 {
		return 0, apperrors.Degenerate("skewness")
	}
	return third / math.Pow(variance, 1.5), nil
}

// Kurtosis is the unbiased excess kurtosis
// (cm4/cm2² - 3 + 6/(m+1)) * (m-1)/(m-2) * (m+1)/(m-3)
func (e *Estimator) Kurtosis() (float64, error) {
	if e.Size() < 4 {
		return 0, apperrors.SampleTooSmall("kurtosis", e.Size(), 4)
	}
	m := float64(e.Size())
	cm2 := e.CentralMoment(2)
	if cm2 == 0 {
		return 0, apperrors.Degenerate("kurtosis")
	}
	cm4 := e.CentralMoment(4)

	res := cm4/cm2/cm2 - 3 + 6/(m+1)
	res *= (m - 1) / (m - 2)
	res *= (m + 1) / (m - 3)
	return res, nil
}

// Summarize computes all four moments; it needs at least four values
func (e *Estimator) Summarize() (domainStats.MomentSummary, error) {
	var summary domainStats.MomentSummary
	var err error

	summary.Mean = e.Mean()
	if summary.Variance, err = e.Variance(); err != nil {
		return summary, err
	}
	if summary.Skewness, err = e.Skewness(); err != nil {
		return summary, err
	}
	if summary.Kurtosis, err = e.Kurtosis(); err != nil {
		return summary, err
	}
	return summary, nil
}

// Summarize is a shorthand for New followed by Summarize
func Summarize(sample domainStats.IntSample) (domainStats.MomentSummary, error) {
	e, err := New(sample)
	if err != nil {
		return domainStats.MomentSummary{}, err
	}
	return e.Summarize()
}
