package sim

import (
	"fmt"
	"sort"
)

// Band is a half-open time range [From, To) with a mean inter-arrival time.
type Band struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
	Mean float64 `yaml:"mean"`
}

// ArrivalSchedule maps time-of-day bands to exponential inter-arrival means.
type ArrivalSchedule []Band

// Interval samples the next inter-arrival time for the band containing now.
// It fails with ErrDomainConfiguration when no band contains now.
func (s ArrivalSchedule) Interval(v *Variates, now float64) (float64, error) {
	for _, b := range s {
		if now >= b.From && now < b.To {
			return v.Exponential(b.Mean), nil
		}
	}
	return 0, fmt.Errorf("no arrival band covers t=%.4f: %w", now, ErrDomainConfiguration)
}

// Validate checks that every band has a positive mean and that the bands
// cover [0, horizon) without gaps.
func (s ArrivalSchedule) Validate(horizon float64) error {
	if len(s) == 0 {
		return fmt.Errorf("arrival schedule is empty: %w", ErrDomainConfiguration)
	}
	bands := make([]Band, len(s))
	copy(bands, s)
	sort.Slice(bands, func(i, j int) bool { return bands[i].From < bands[j].From })

	covered := 0.0
	for _, b := range bands {
		if b.Mean <= 0 {
			return fmt.Errorf("band [%g, %g) has non-positive mean %g: %w", b.From, b.To, b.Mean, ErrDomainConfiguration)
		}
		if b.To <= b.From {
			return fmt.Errorf("band [%g, %g) is empty: %w", b.From, b.To, ErrDomainConfiguration)
		}
		if b.From > covered {
			return fmt.Errorf("arrival bands leave [%g, %g) uncovered: %w", covered, b.From, ErrDomainConfiguration)
		}
		if b.To > covered {
			covered = b.To
		}
		if covered >= horizon {
			return nil
		}
	}
	return fmt.Errorf("arrival bands leave [%g, %g) uncovered: %w", covered, horizon, ErrDomainConfiguration)
}
