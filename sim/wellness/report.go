package wellness

import (
	"github.com/wellness-sim/wellness-sim/sim"
	"github.com/wellness-sim/wellness-sim/sim/stats"
)

// Report is an immutable snapshot of a model after (or during) a run.
type Report struct {
	Clock        float64
	EventsFired  int64
	CustomersIn  int
	CustomersOut int
	Generated    int

	Facilities []sim.FacilitySnapshot
	Pools      []sim.PoolSnapshot
	Queues     []sim.QueueSnapshot
	Histograms []stats.HistogramSnapshot
	Stats      []stats.StatSnapshot
}

// InSystem returns the visitors still inside at the report time.
func (r Report) InSystem() int {
	return r.CustomersIn - r.CustomersOut
}

// Pool returns the snapshot of the named pool.
func (r Report) Pool(name string) (sim.PoolSnapshot, bool) {
	for _, p := range r.Pools {
		if p.Name == name {
			return p, true
		}
	}
	return sim.PoolSnapshot{}, false
}

// Stat returns the snapshot of the named statistic.
func (r Report) Stat(name string) (stats.StatSnapshot, bool) {
	for _, s := range r.Stats {
		if s.Name == name {
			return s, true
		}
	}
	return stats.StatSnapshot{}, false
}

// Report snapshots every resource and collector of the model.
func (m *Model) Report() Report {
	s := m.sim
	r := Report{
		Clock:        s.Now(),
		EventsFired:  s.EventsFired(),
		CustomersIn:  m.CustomersIn,
		CustomersOut: m.CustomersOut,
	}
	if m.generator != nil {
		r.Generated = m.generator.Spawned()
	}
	for _, f := range s.Facilities() {
		r.Facilities = append(r.Facilities, f.Snapshot())
	}
	for _, p := range s.Pools() {
		r.Pools = append(r.Pools, p.Snapshot())
	}
	for _, q := range s.Queues() {
		r.Queues = append(r.Queues, q.Snapshot())
	}
	r.Histograms = []stats.HistogramSnapshot{
		m.ArrivalsPerHour.Snapshot(),
		m.ShowersSkipped.Snapshot(),
	}
	for _, st := range []*stats.Stat{
		m.WaitLockers, m.WaitReception, m.WaitSauna, m.WaitPool, m.WaitRest,
		m.TimeInSystem, m.ExtraTime, m.Rounds,
	} {
		r.Stats = append(r.Stats, st.Snapshot())
	}
	return r
}
