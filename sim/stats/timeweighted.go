package stats

import "math"

// TimeWeighted integrates a piecewise-constant level over virtual time,
// e.g. the number of busy slots or the length of a queue.
type TimeWeighted struct {
	name     string
	start    float64
	last     float64
	level    float64
	integral float64
	min      float64
	max      float64
	updates  int64
}

// TimeWeightedSnapshot is a read-only view of a TimeWeighted at some time.
type TimeWeightedSnapshot struct {
	Name    string
	Current float64
	Mean    float64
	Min     float64
	Max     float64
	Updates int64
	Elapsed float64
}

// NewTimeWeighted starts integrating at time start with level 0, which also
// counts toward Min and Max.
func NewTimeWeighted(name string, start float64) *TimeWeighted {
	return &TimeWeighted{name: name, start: start, last: start}
}

// Update records that the level changed to level at time now.
// now must not precede the previous update.
func (t *TimeWeighted) Update(now, level float64) {
	if now > t.last {
		t.integral += t.level * (now - t.last)
		t.last = now
	}
	t.level = level
	t.min = math.Min(t.min, level)
	t.max = math.Max(t.max, level)
	t.updates++
}

// Level returns the current level.
func (t *TimeWeighted) Level() float64 { return t.level }

// Snapshot returns the time average over [start, now].
func (t *TimeWeighted) Snapshot(now float64) TimeWeightedSnapshot {
	integral := t.integral
	if now > t.last {
		integral += t.level * (now - t.last)
	}
	snap := TimeWeightedSnapshot{
		Name:    t.name,
		Current: t.level,
		Min:     t.min,
		Max:     t.max,
		Updates: t.updates,
		Elapsed: now - t.start,
	}
	if snap.Elapsed > 0 {
		snap.Mean = integral / snap.Elapsed
	}
	return snap
}
