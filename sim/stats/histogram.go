package stats

import "math"

// Histogram counts observations in count buckets of width step starting at
// low. Values below low land in Underflow, values at or past
// low+count*step in Overflow.
type Histogram struct {
	name      string
	low       float64
	step      float64
	buckets   []int64
	underflow int64
	overflow  int64
	stat      *Stat
}

// Bucket is one histogram bin [From, To).
type Bucket struct {
	From  float64
	To    float64
	Count int64
}

// HistogramSnapshot is a read-only view of a Histogram.
type HistogramSnapshot struct {
	Name      string
	Low       float64
	Step      float64
	Buckets   []Bucket
	Underflow int64
	Overflow  int64
	Stat      StatSnapshot
}

// NewHistogram creates a histogram. step and count must be positive.
func NewHistogram(name string, low, step float64, count int) *Histogram {
	if step <= 0 || count <= 0 {
		panic("stats: histogram needs positive step and count")
	}
	return &Histogram{
		name:    name,
		low:     low,
		step:    step,
		buckets: make([]int64, count),
		stat:    NewStat(name),
	}
}

// Name returns the collector name.
func (h *Histogram) Name() string { return h.name }

// Observe records one value.
func (h *Histogram) Observe(v float64) {
	h.stat.Observe(v)
	if v < h.low {
		h.underflow++
		return
	}
	idx := int(math.Floor((v - h.low) / h.step))
	if idx >= len(h.buckets) {
		h.overflow++
		return
	}
	h.buckets[idx]++
}

// Snapshot returns the bucket counts and the underlying Stat.
func (h *Histogram) Snapshot() HistogramSnapshot {
	buckets := make([]Bucket, len(h.buckets))
	for i, c := range h.buckets {
		from := h.low + float64(i)*h.step
		buckets[i] = Bucket{From: from, To: from + h.step, Count: c}
	}
	return HistogramSnapshot{
		Name:      h.name,
		Low:       h.low,
		Step:      h.step,
		Buckets:   buckets,
		Underflow: h.underflow,
		Overflow:  h.overflow,
		Stat:      h.stat.Snapshot(),
	}
}
