package rng

import (
	"randlab/domain/stats"
	"randlab/ports"
)

// DefaultBufferSize is the shuffle table size K used by the uniform lab
const DefaultBufferSize = 32

// MacLarenMarsaglia shuffles one uniform stream through a table of K values,
// choosing the slot to emit from a second, independent stream.
type MacLarenMarsaglia struct {
	K int `json:"k"`
}

// Combine shuffles first using selectors from second. The output has
// min(len(first), len(second)) - K values and is empty when K < 1 or either
// input is not longer than K. Every output value is drawn from first.
func (m MacLarenMarsaglia) Combine(first, second stats.Sample) stats.Sample {
	size := min(len(first), len(second)) - m.K
	if m.K < 1 || size <= 0 {
		return stats.Sample{}
	}

	v := make([]float64, m.K)
	copy(v, first[:m.K])

	out := make(stats.Sample, size)
	for i := 0; i < size; i++ {
		s := m.slot(second[i])
		out[i] = v[s]
		v[s] = first[i+m.K]
	}
	return out
}

// Stream combines two sources draw by draw. The first K draws of primary
// fill the table; afterwards each call consumes one draw from each source.
// The i-th value equals the i-th value of Combine on the same draws.
// A K below 1 is treated as 1.
func (m MacLarenMarsaglia) Stream(primary, selector ports.UniformSource) ports.UniformSource {
	return &combinedStream{m: m, primary: primary, selector: selector}
}

func (m MacLarenMarsaglia) slot(u float64) int {
	s := int(u * float64(m.K))
	if s < 0 {
		return 0
	}
	if s >= m.K {
		return m.K - 1
	}
	return s
}

type combinedStream struct {
	m        MacLarenMarsaglia
	primary  ports.UniformSource
	selector ports.UniformSource
	table    []float64
}

func (c *combinedStream) Float64() float64 {
	if c.table == nil {
		k := max(c.m.K, 1)
		c.table = make([]float64, k)
		for i := range c.table {
			c.table[i] = c.primary.Float64()
		}
		c.m.K = k
	}
	s := c.m.slot(c.selector.Float64())
	out := c.table[s]
	c.table[s] = c.primary.Float64()
	return out
}

// Combined is a uniform generator that applies MacLaren-Marsaglia to two generators
type Combined struct {
	First   ports.UniformGenerator
	Second  ports.UniformGenerator
	Shuffle MacLarenMarsaglia
}

// Generate draws n+K values from each generator and combines them into n values
func (c Combined) Generate(n int) stats.Sample {
	if n <= 0 {
		return stats.Sample{}
	}
	k := max(c.Shuffle.K, 0)
	return c.Shuffle.Combine(c.First.Generate(n+k), c.Second.Generate(n+k))
}

// Stream returns a combined source over fresh streams of both generators
func (c Combined) Stream() ports.UniformSource {
	return c.Shuffle.Stream(c.First.Stream(), c.Second.Stream())
}
