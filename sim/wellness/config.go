package wellness

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wellness-sim/wellness-sim/sim"
)

// Distribution kinds accepted by DistSpec.
const (
	DistConstant    = "constant"
	DistExponential = "exponential"
	DistNormal      = "normal"
	DistUniform     = "uniform"
	DistTriangular  = "triangular"
)

var validDistKinds = map[string]bool{
	DistConstant:    true,
	DistExponential: true,
	DistNormal:      true,
	DistUniform:     true,
	DistTriangular:  true,
}

// DistSpec describes one sampled duration in minutes.
// Normal draws are truncated at zero.
type DistSpec struct {
	Kind   string  `yaml:"kind"`
	Mean   float64 `yaml:"mean,omitempty"`  // constant, exponential, normal
	StdDev float64 `yaml:"stdev,omitempty"` // normal
	Min    float64 `yaml:"min,omitempty"`   // uniform, triangular
	Mode   float64 `yaml:"mode,omitempty"`  // triangular
	Max    float64 `yaml:"max,omitempty"`   // uniform, triangular
}

// Sample draws one duration from v.
func (d DistSpec) Sample(v *sim.Variates) float64 {
	switch d.Kind {
	case DistExponential:
		return v.Exponential(d.Mean)
	case DistNormal:
		return v.Normal(d.Mean, d.StdDev)
	case DistUniform:
		return v.Uniform(d.Min, d.Max)
	case DistTriangular:
		return v.Triangular(d.Min, d.Mode, d.Max)
	default:
		return d.Mean
	}
}

func (d DistSpec) validate(field string) error {
	if !validDistKinds[d.Kind] {
		return fmt.Errorf("%s: unknown distribution kind %q; valid: constant, exponential, normal, uniform, triangular", field, d.Kind)
	}
	for _, v := range []float64{d.Mean, d.StdDev, d.Min, d.Mode, d.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: parameters must be finite", field)
		}
	}
	switch d.Kind {
	case DistConstant, DistExponential:
		if d.Mean < 0 {
			return fmt.Errorf("%s: mean must be non-negative, got %g", field, d.Mean)
		}
	case DistNormal:
		if d.StdDev < 0 {
			return fmt.Errorf("%s: stdev must be non-negative, got %g", field, d.StdDev)
		}
	case DistUniform:
		if d.Min < 0 || d.Max < d.Min {
			return fmt.Errorf("%s: need 0 <= min <= max, got [%g, %g]", field, d.Min, d.Max)
		}
	case DistTriangular:
		if d.Min < 0 || d.Mode < d.Min || d.Max < d.Mode {
			return fmt.Errorf("%s: need 0 <= min <= mode <= max, got (%g, %g, %g)", field, d.Min, d.Mode, d.Max)
		}
	}
	return nil
}

// lowerBound returns the smallest value Sample can return, or 0 when draws
// can get arbitrarily close to zero.
func (d DistSpec) lowerBound() float64 {
	switch d.Kind {
	case DistConstant:
		return d.Mean
	case DistUniform, DistTriangular:
		return d.Min
	default:
		return 0
	}
}

// Capacities holds the number of slots of every pooled area.
type Capacities struct {
	Lockers  int `yaml:"lockers"`
	Showers  int `yaml:"showers"`
	Sauna    int `yaml:"sauna"`
	Pool     int `yaml:"pool"`
	Loungers int `yaml:"loungers"`
}

// Durations groups every sampled duration of a visit.
type Durations struct {
	LockerRetry  DistSpec `yaml:"locker_retry"`
	Reception    DistSpec `yaml:"reception"`
	Changing     DistSpec `yaml:"changing"`
	FirstShower  DistSpec `yaml:"first_shower"`
	Sauna        DistSpec `yaml:"sauna"`
	QuickShower  DistSpec `yaml:"quick_shower"`
	Swim         DistSpec `yaml:"swim"`
	LongShower   DistSpec `yaml:"long_shower"`
	Rest         DistSpec `yaml:"rest"`
	LoungerRetry DistSpec `yaml:"lounger_retry"`
	Dressing     DistSpec `yaml:"dressing"`
}

// VisitPolicy holds the decisions a visitor makes during a stay.
type VisitPolicy struct {
	MaxStay        float64 `yaml:"max_stay"`         // planned visit length
	LeaveThreshold float64 `yaml:"leave_threshold"`  // remaining time below which the visitor considers leaving
	StayLongerProb float64 `yaml:"stay_longer_prob"` // chance of another round once below the threshold
	PoolProb       float64 `yaml:"pool_prob"`        // chance of the pool instead of a long shower
}

// Config is a complete wellness scenario. All times are in minutes.
type Config struct {
	Horizon    float64             `yaml:"horizon"`
	LeadTime   float64             `yaml:"lead_time"` // no arrivals during the last LeadTime minutes
	Arrivals   sim.ArrivalSchedule `yaml:"arrivals"`
	Capacities Capacities          `yaml:"capacities"`
	Durations  Durations           `yaml:"durations"`
	Visit      VisitPolicy         `yaml:"visit"`
}

// DefaultConfig returns the reference scenario: an 8-hour afternoon with a
// peak from the third hour on.
func DefaultConfig() Config {
	return Config{
		Horizon:  8 * 60,
		LeadTime: 90,
		Arrivals: sim.ArrivalSchedule{
			{From: 0, To: peakStart, Mean: 8},
			{From: peakStart, To: 8 * 60, Mean: 6},
		},
		Capacities: Capacities{
			Lockers:  25,
			Showers:  3,
			Sauna:    15,
			Pool:     5,
			Loungers: 10,
		},
		Durations: Durations{
			LockerRetry:  DistSpec{Kind: DistUniform, Min: 1, Max: 2},
			Reception:    DistSpec{Kind: DistUniform, Min: 2, Max: 3},
			Changing:     DistSpec{Kind: DistNormal, Mean: 5, StdDev: 2},
			FirstShower:  DistSpec{Kind: DistNormal, Mean: 3, StdDev: 3},
			Sauna:        DistSpec{Kind: DistNormal, Mean: 15, StdDev: 5},
			QuickShower:  DistSpec{Kind: DistNormal, Mean: 1, StdDev: 1},
			Swim:         DistSpec{Kind: DistTriangular, Min: 0.5, Mode: 2.5, Max: 5},
			LongShower:   DistSpec{Kind: DistNormal, Mean: 4, StdDev: 2},
			Rest:         DistSpec{Kind: DistNormal, Mean: 12, StdDev: 5},
			LoungerRetry: DistSpec{Kind: DistUniform, Min: 0.1, Max: 0.5},
			Dressing:     DistSpec{Kind: DistUniform, Min: 3, Max: 6},
		},
		Visit: VisitPolicy{
			MaxStay:        90,
			LeaveThreshold: 15,
			StayLongerProb: 0.10,
			PoolProb:       0.5,
		},
	}
}

// peakStart is where the reference scenario's peak begins.
const peakStart = 3 * 60

// PeakMean returns the arrival mean of the first band in the peak, or 0
// when no band starts there.
func (c Config) PeakMean() float64 {
	for _, b := range c.Arrivals {
		if b.From >= peakStart {
			return b.Mean
		}
	}
	return 0
}

// NormalMean returns the arrival mean of the first band before the peak.
func (c Config) NormalMean() float64 {
	for _, b := range c.Arrivals {
		if b.From < peakStart {
			return b.Mean
		}
	}
	return 0
}

// SetPeakMean sets the arrival mean of every band starting at or after the
// peak start of the reference scenario.
func (c *Config) SetPeakMean(mean float64) {
	for i := range c.Arrivals {
		if c.Arrivals[i].From >= peakStart {
			c.Arrivals[i].Mean = mean
		}
	}
}

// SetNormalMean sets the arrival mean of every band before the peak.
func (c *Config) SetNormalMean(mean float64) {
	for i := range c.Arrivals {
		if c.Arrivals[i].From < peakStart {
			c.Arrivals[i].Mean = mean
		}
	}
}

// SetHorizon changes the horizon. A band that ended at the old horizon is
// stretched to the new one.
func (c *Config) SetHorizon(h float64) {
	for i := range c.Arrivals {
		if c.Arrivals[i].To == c.Horizon {
			c.Arrivals[i].To = h
		}
	}
	c.Horizon = h
}

// LastEntry returns the time from which no visitor is admitted.
func (c Config) LastEntry() float64 {
	return c.Horizon - c.LeadTime
}

// LoadConfig reads a scenario file on top of DefaultConfig. Unknown fields
// are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading scenario: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing scenario: %w", err)
	}
	return cfg, nil
}

// Validate checks the scenario before a run. Coverage and mean errors of the
// arrival bands wrap sim.ErrDomainConfiguration.
func (c Config) Validate() error {
	if c.Horizon <= 0 || math.IsInf(c.Horizon, 0) || math.IsNaN(c.Horizon) {
		return fmt.Errorf("horizon must be positive and finite, got %g", c.Horizon)
	}
	if c.LeadTime < 0 || c.LeadTime >= c.Horizon {
		return fmt.Errorf("lead_time must be in [0, horizon), got %g", c.LeadTime)
	}
	if err := c.Arrivals.Validate(c.LastEntry()); err != nil {
		return fmt.Errorf("arrivals: %w", err)
	}
	caps := map[string]int{
		"lockers":  c.Capacities.Lockers,
		"showers":  c.Capacities.Showers,
		"sauna":    c.Capacities.Sauna,
		"pool":     c.Capacities.Pool,
		"loungers": c.Capacities.Loungers,
	}
	for _, name := range []string{"lockers", "showers", "sauna", "pool", "loungers"} {
		if caps[name] <= 0 {
			return fmt.Errorf("capacities.%s must be positive, got %d", name, caps[name])
		}
	}
	d := c.Durations
	dists := []struct {
		field string
		spec  DistSpec
	}{
		{"locker_retry", d.LockerRetry},
		{"reception", d.Reception},
		{"changing", d.Changing},
		{"first_shower", d.FirstShower},
		{"sauna", d.Sauna},
		{"quick_shower", d.QuickShower},
		{"swim", d.Swim},
		{"long_shower", d.LongShower},
		{"rest", d.Rest},
		{"lounger_retry", d.LoungerRetry},
		{"dressing", d.Dressing},
	}
	for _, ds := range dists {
		if err := ds.spec.validate("durations." + ds.field); err != nil {
			return err
		}
	}
	// a poller that may draw 0 could spin at one instant forever
	for _, ds := range dists {
		if ds.field != "locker_retry" && ds.field != "lounger_retry" {
			continue
		}
		if ds.spec.lowerBound() <= 0 {
			return fmt.Errorf("durations.%s needs a positive lower bound (constant, uniform or triangular)", ds.field)
		}
	}
	v := c.Visit
	if v.MaxStay <= 0 {
		return fmt.Errorf("visit.max_stay must be positive, got %g", v.MaxStay)
	}
	if v.LeaveThreshold < 0 {
		return fmt.Errorf("visit.leave_threshold must be non-negative, got %g", v.LeaveThreshold)
	}
	probs := []struct {
		field string
		p     float64
	}{
		{"stay_longer_prob", v.StayLongerProb},
		{"pool_prob", v.PoolProb},
	}
	for _, pr := range probs {
		if pr.p < 0 || pr.p > 1 {
			return fmt.Errorf("visit.%s must be in [0, 1], got %g", pr.field, pr.p)
		}
	}
	return nil
}
