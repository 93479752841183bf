package ports

import "randlab/domain/stats"

// DiscreteSampler draws integer samples from a parameterised distribution
type DiscreteSampler interface {
	// Name is the distribution label, e.g. "binomial"
	Name() string
	// FileStem embeds the parameters, e.g. "binomial_5_0.25"
	FileStem() string
	Parameters() map[string]float64
	Validate() error
	// Sample draws n values; parameters must already be valid
	Sample(src UniformSource, n int) stats.IntSample
	// Expected returns the theoretical mean, variance, skewness and excess kurtosis
	Expected() stats.MomentSummary
}
