package sampling

import "math"

// Sampler produces one realization of a distribution per call to Sample.
// Every implementation, including Degenerate, must consume exactly one draw
// from its Source per call — this is what keeps the random stream aligned
// across configurations that swap one distribution for another at the same
// site (spec.md §5, §8).
type Sampler interface {
	Sample() float64
}

// Exponential samples Exp(rate) via inverse transform sampling. A
// non-positive rate is sampling degeneracy (spec.md §7): the call still
// consumes a draw but returns +Inf, so the caller treats the corresponding
// event as never occurring.
type Exponential struct {
	Rate   float64
	Source *Source
}

// NewExponential creates an Exponential sampler bound to src.
func NewExponential(rate float64, src *Source) *Exponential {
	return &Exponential{Rate: rate, Source: src}
}

func (e *Exponential) Sample() float64 {
	u := e.Source.Float64()
	if e.Rate <= 0 {
		return math.Inf(1)
	}
	return -math.Log(1-u) / e.Rate
}

// Degenerate always returns the same fixed value, but still draws from the
// Source on every call so the stream stays aligned with configurations that
// use a real distribution at the same site.
type Degenerate struct {
	Value  float64
	Source *Source
}

// NewDegenerate creates a Degenerate sampler bound to src.
func NewDegenerate(value float64, src *Source) *Degenerate {
	return &Degenerate{Value: value, Source: src}
}

func (d *Degenerate) Sample() float64 {
	_ = d.Source.Float64()
	return d.Value
}
