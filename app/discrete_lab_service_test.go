package app

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randlab/adapters/rng"
	"randlab/adapters/sampler"
	"randlab/internal/errors"
	"randlab/internal/testkit"
	"randlab/ports"
)

func defaultSamplers() []ports.DiscreteSampler {
	return []ports.DiscreteSampler{
		sampler.Bernoulli{P: 0.7},
		sampler.Binomial{M: 5, P: 0.25},
		sampler.Geometric{P: 0.7},
		sampler.Poisson{Lambda: 2},
	}
}

func defaultDiscreteRequest() DiscreteLabRequest {
	return DiscreteLabRequest{
		Samplers: defaultSamplers(),
		Size:     1000,
		Workers:  4,
		Seed:     5489,
		Sources:  PlatformSources(5489),
	}
}

func TestDiscreteLab_ReportsInRequestOrder(t *testing.T) {
	store := newMemStore()
	reporter := newRecordingReporter()
	svc := NewDiscreteLabService(reporter, store, quietLogger())

	result, err := svc.Run(context.Background(), defaultDiscreteRequest())
	require.NoError(t, err)

	want := []string{"bernoulli_0.70", "binomial_5_0.25", "geometric_0.70", "poisson_2.00"}
	assert.Equal(t, want, store.stems)
	assert.Equal(t, want, reporter.moments)
	require.Len(t, result.Runs, 4)
	for i, r := range result.Runs {
		assert.Equal(t, want[i], r.Stem)
		assert.Len(t, r.Sample, 1000)
		assert.NoError(t, r.MomentsErr)
		assert.Equal(t, store.ints[r.Stem], r.Sample)
	}

	for _, v := range result.Runs[1].Sample {
		assert.True(t, v >= 0 && v <= 5, "binomial value %d", v)
	}
	for _, v := range result.Runs[2].Sample {
		assert.GreaterOrEqual(t, v, 1)
	}

	m := store.manifest
	require.NotNil(t, m)
	assert.NoError(t, m.Validate())
	assert.Equal(t, uint64(5489), m.Seed)
	assert.Equal(t, 5.0, m.Parameters["binomial_m"])
	assert.Equal(t, 2.0, m.Parameters["poisson_lambda"])
	assert.Equal(t, 1, store.flushes)
}

func TestDiscreteLab_MomentsNearTheory(t *testing.T) {
	svc := NewDiscreteLabService(newRecordingReporter(), newMemStore(), quietLogger())

	req := defaultDiscreteRequest()
	req.Size = 50000
	result, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	for _, r := range result.Runs {
		assert.InDelta(t, r.Expected.Mean, r.Estimated.Mean, 0.05, r.Stem)
		assert.InDelta(t, r.Expected.Variance, r.Estimated.Variance, 0.1, r.Stem)
	}
}

func TestDiscreteLab_WorkerCountDoesNotChangeSamples(t *testing.T) {
	svc := NewDiscreteLabService(newRecordingReporter(), newMemStore(), quietLogger())

	serial := defaultDiscreteRequest()
	serial.Workers = 1
	parallel := defaultDiscreteRequest()
	parallel.Workers = 8

	a, err := svc.Run(context.Background(), serial)
	require.NoError(t, err)
	b, err := svc.Run(context.Background(), parallel)
	require.NoError(t, err)

	assert.Equal(t, a.Manifest.Fingerprint(), b.Manifest.Fingerprint())
	for i := range a.Runs {
		assert.Equal(t, a.Runs[i].Sample, b.Runs[i].Sample)
	}
}

func TestDiscreteLab_EachDistributionGetsItsOwnSource(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]int{}
	sources := func(index int) ports.UniformSource {
		mu.Lock()
		defer mu.Unlock()
		seen[index]++
		return testkit.NewScriptedSource(0.6, 0.3, 0.2, 0.1)
	}

	req := defaultDiscreteRequest()
	req.Size = 4
	req.Sources = sources
	svc := NewDiscreteLabService(newRecordingReporter(), newMemStore(), quietLogger())

	result, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1, 3: 1}, seen)

	// a fresh scripted source per distribution makes each sample independent of scheduling
	assert.Equal(t, []int{1, 1, 1, 1}, []int(result.Runs[0].Sample))
}

func TestDiscreteLab_InvalidSamplersAggregated(t *testing.T) {
	store := newMemStore()
	svc := NewDiscreteLabService(newRecordingReporter(), store, quietLogger())

	req := defaultDiscreteRequest()
	req.Samplers = []ports.DiscreteSampler{
		sampler.Bernoulli{P: 1.5},
		sampler.Binomial{M: 0, P: 0.25},
		sampler.Poisson{Lambda: -1},
	}
	req.Workers = 0

	_, err := svc.Run(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidParameter))
	for _, want := range []string{"bernoulli.p=1.5", "binomial.m=0", "poisson.lambda=-1", "workers=0"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.Empty(t, store.stems)
}

func TestDiscreteLab_TinySampleKeepsGoing(t *testing.T) {
	svc := NewDiscreteLabService(newRecordingReporter(), newMemStore(), quietLogger())

	req := defaultDiscreteRequest()
	req.Size = 1
	result, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	for _, r := range result.Runs {
		require.Error(t, r.MomentsErr, r.Stem)
		assert.True(t, errors.HasCode(r.MomentsErr, errors.CodeSampleTooSmall), r.Stem)
		assert.Equal(t, float64(r.Sample[0]), r.Estimated.Mean)
		assert.True(t, math.IsNaN(r.Estimated.Variance))
		assert.True(t, math.IsNaN(r.Estimated.Kurtosis))
	}
}

func TestDiscreteLab_Cancelled(t *testing.T) {
	store := newMemStore()
	svc := NewDiscreteLabService(newRecordingReporter(), store, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, defaultDiscreteRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.stems)
}

func TestCongruentialSources_DistinctOddSeeds(t *testing.T) {
	base := rng.DefaultCongruential()
	sources := CongruentialSources(base)

	first := sources(0).Float64()
	second := sources(1).Float64()
	assert.Equal(t, float64(base.Seed)/float64(base.Modulus), first)
	assert.Equal(t, float64(base.Seed+2)/float64(base.Modulus), second)
}
