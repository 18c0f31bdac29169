// Package stats provides the statistics collectors used by the simulator:
// scalar accumulators, bucketed histograms and time-weighted levels.
// Collectors are append-only; nothing in the simulation reads them back.
package stats

import "math"

// Stat accumulates scalar observations.
type Stat struct {
	name  string
	n     int64
	sum   float64
	sumSq float64
	min   float64
	max   float64
	// negatives counts observations below zero. For waiting times these
	// indicate a clock or bookkeeping defect.
	negatives int64
}

// StatSnapshot is a read-only view of a Stat.
type StatSnapshot struct {
	Name       string
	Count      int64
	Sum        float64
	SumSquares float64
	Min        float64
	Max        float64
	Mean       float64
	StdDev     float64
	Negatives  int64
}

// NewStat creates an empty Stat.
func NewStat(name string) *Stat {
	return &Stat{name: name}
}

// Name returns the collector name.
func (s *Stat) Name() string { return s.name }

// Observe records one value.
func (s *Stat) Observe(v float64) {
	if s.n == 0 {
		s.min, s.max = v, v
	} else {
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	s.n++
	s.sum += v
	s.sumSq += v * v
	if v < 0 {
		s.negatives++
	}
}

// Count returns the number of observations.
func (s *Stat) Count() int64 { return s.n }

// Snapshot returns the aggregate. Mean and StdDev are zero without data;
// StdDev is the sample standard deviation and needs two observations.
func (s *Stat) Snapshot() StatSnapshot {
	snap := StatSnapshot{
		Name:       s.name,
		Count:      s.n,
		Sum:        s.sum,
		SumSquares: s.sumSq,
		Min:        s.min,
		Max:        s.max,
		Negatives:  s.negatives,
	}
	if s.n > 0 {
		snap.Mean = s.sum / float64(s.n)
	}
	if s.n > 1 {
		variance := (s.sumSq - float64(s.n)*snap.Mean*snap.Mean) / float64(s.n-1)
		if variance > 0 {
			snap.StdDev = math.Sqrt(variance)
		}
	}
	return snap
}
