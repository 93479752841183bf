package moments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainStats "randlab/domain/stats"
	apperrors "randlab/internal/errors"
)

func TestSummarize_Symmetric(t *testing.T) {
	summary, err := Summarize(domainStats.IntSample{1, 2, 3, 4})
	require.NoError(t, err)

	assert.InDelta(t, 2.5, summary.Mean, 1e-12)
	assert.InDelta(t, 5.0/3.0, summary.Variance, 1e-12)
	assert.InDelta(t, 0, summary.Skewness, 1e-12)
	assert.InDelta(t, -1.2, summary.Kurtosis, 1e-12)
}

func TestSummarize_Skewed(t *testing.T) {
	summary, err := Summarize(domainStats.IntSample{0, 0, 0, 1, 5})
	require.NoError(t, err)

	assert.InDelta(t, 1.2, summary.Mean, 1e-12)
	assert.InDelta(t, 4.7, summary.Variance, 1e-12)
	assert.InDelta(t, 2.031531490021055, summary.Skewness, 1e-9)
	assert.InDelta(t, 4.151199637845176, summary.Kurtosis, 1e-9)
}

func TestCentralMoment(t *testing.T) {
	e, err := New(domainStats.IntSample{1, 2, 3, 4})
	require.NoError(t, err)

	assert.Equal(t, 4, e.Size())
	assert.InDelta(t, 0, e.CentralMoment(1), 1e-12)
	assert.InDelta(t, 1.25, e.CentralMoment(2), 1e-12)
	assert.InDelta(t, 0, e.CentralMoment(3), 1e-12)
	assert.InDelta(t, 2.5625, e.CentralMoment(4), 1e-12)
}

func TestEstimator_DoesNotMutateInput(t *testing.T) {
	sample := domainStats.IntSample{5, 1, 3, 2}
	_, err := Summarize(sample)
	require.NoError(t, err)
	assert.Equal(t, domainStats.IntSample{5, 1, 3, 2}, sample)
}

func TestEstimator_SmallSamples(t *testing.T) {
	_, err := New(domainStats.IntSample{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeSampleTooSmall, apperrors.GetCode(err))

	one, err := New(domainStats.IntSample{3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, one.Mean())
	_, err = one.Variance()
	assert.Equal(t, apperrors.CodeSampleTooSmall, apperrors.GetCode(err))

	two, err := New(domainStats.IntSample{1, 3})
	require.NoError(t, err)
	v, err := two.Variance()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-12)
	_, err = two.Skewness()
	assert.Equal(t, apperrors.CodeSampleTooSmall, apperrors.GetCode(err))

	three, err := New(domainStats.IntSample{1, 2, 6})
	require.NoError(t, err)
	_, err = three.Skewness()
	require.NoError(t, err)
	_, err = three.Kurtosis()
	assert.Equal(t, apperrors.CodeSampleTooSmall, apperrors.GetCode(err))

	_, err = Summarize(domainStats.IntSample{1, 2, 6})
	assert.Equal(t, apperrors.CodeSampleTooSmall, apperrors.GetCode(err))
}

func TestEstimator_ConstantSample(t *testing.T) {
	e, err := New(domainStats.IntSample{1, 1, 1, 1, 1})
	require.NoError(t, err)

	v, err := e.Variance()
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = e.Skewness()
	assert.Equal(t, apperrors.CodeDegenerate, apperrors.GetCode(err))
	_, err = e.Kurtosis()
	assert.Equal(t, apperrors.CodeDegenerate, apperrors.GetCode(err))
}

func TestEstimator_BiasCorrectionVanishes(t *testing.T) {
	const m = 200000
	sample := make(domainStats.IntSample, m)
	for i := range sample {
		sample[i] = (i * i) % 7
	}

	e, err := New(sample)
	require.NoError(t, err)

	cm2 := e.CentralMoment(2)
	cm4 := e.CentralMoment(4)

	variance, err := e.Variance()
	require.NoError(t, err)
	kurtosis, err := e.Kurtosis()
	require.NoError(t, err)

	assert.InEpsilon(t, cm2, variance, 1e-4)
	assert.InDelta(t, cm4/(cm2*cm2)-3, kurtosis, 1e-3)
}
