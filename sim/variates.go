package sim

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Variates draws distribution-sampled durations from one seeded stream.
// Parameters are validated by the workload configuration, not here.
type Variates struct {
	rng *rand.Rand
}

// NewVariates wraps a seeded generator.
func NewVariates(rng *rand.Rand) *Variates {
	return &Variates{rng: rng}
}

// Random returns a uniform draw in [0, 1).
func (v *Variates) Random() float64 {
	return v.rng.Float64()
}

// Exponential returns an exponential draw with the given mean.
// A non-positive mean yields 0.
func (v *Variates) Exponential(mean float64) float64 {
	if mean <= 0 {
		return 0
	}
	return distuv.Exponential{Rate: 1 / mean, Src: v.rng}.Rand()
}

// Normal returns a normal draw truncated at zero: negative draws become 0
// instead of being resampled.
func (v *Variates) Normal(mean, stdev float64) float64 {
	if stdev <= 0 {
		return math.Max(0, mean)
	}
	return math.Max(0, distuv.Normal{Mu: mean, Sigma: stdev, Src: v.rng}.Rand())
}

// Uniform returns a uniform draw in [lo, hi).
func (v *Variates) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return distuv.Uniform{Min: lo, Max: hi, Src: v.rng}.Rand()
}

// Triangular returns a draw from the triangular distribution on [lo, hi]
// peaking at mode.
func (v *Variates) Triangular(lo, mode, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	mode = math.Min(math.Max(mode, lo), hi)
	return distuv.NewTriangle(lo, hi, mode, v.rng).Rand()
}

// SampleFunc produces a duration that may depend on the current clock, e.g.
// arrival intervals that vary by time of day.
type SampleFunc func(v *Variates, now float64) (float64, error)
