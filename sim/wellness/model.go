// Package wellness is the visitor-flow workload that runs on the sim core:
// a generator admits visitors who pass reception, take a locker and cycle
// through sauna, pool or showers and the rest area until their time is up.
package wellness

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/wellness-sim/wellness-sim/sim"
	"github.com/wellness-sim/wellness-sim/sim/stats"
)

// Process kinds.
const (
	KindGenerator = "generator"
	KindCustomer  = "customer"
)

// Model is one wellness facility bound to a simulator.
type Model struct {
	cfg Config
	sim *sim.Simulator

	Reception  *sim.Facility
	Lockers    *sim.Pool
	Showers    *sim.Pool
	Sauna      *sim.Pool
	Pool       *sim.Pool
	Loungers   *sim.Pool
	SaunaQueue *sim.WaitQueue
	PoolQueue  *sim.WaitQueue

	ArrivalsPerHour *stats.Histogram
	ShowersSkipped  *stats.Histogram
	WaitLockers     *stats.Stat
	WaitReception   *stats.Stat
	WaitSauna       *stats.Stat
	WaitPool        *stats.Stat
	WaitRest        *stats.Stat
	TimeInSystem    *stats.Stat
	ExtraTime       *stats.Stat
	Rounds          *stats.Stat

	CustomersIn  int
	CustomersOut int

	arrivals  *sim.Variates
	service   *sim.Variates
	decisions *sim.Variates
	generator *Generator
}

// NewModel validates cfg and creates every resource and collector of the
// facility on s.
func NewModel(s *sim.Simulator, cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newModel(s, cfg), nil
}

func newModel(s *sim.Simulator, cfg Config) *Model {
	caps := cfg.Capacities
	hours := max(1, int(math.Ceil(cfg.Horizon/60)))
	m := &Model{
		cfg: cfg,
		sim: s,

		Reception:  s.NewFacility("reception"),
		Lockers:    s.NewPool("lockers", caps.Lockers),
		Showers:    s.NewPool("showers", caps.Showers),
		Sauna:      s.NewPool("sauna", caps.Sauna),
		Pool:       s.NewPool("pool", caps.Pool),
		Loungers:   s.NewPool("loungers", caps.Loungers),
		SaunaQueue: s.NewWaitQueue("sauna queue"),
		PoolQueue:  s.NewWaitQueue("pool queue"),

		ArrivalsPerHour: stats.NewHistogram("arrivals per hour", 0, 60, hours),
		ShowersSkipped:  stats.NewHistogram("showers skipped per hour", 0, 60, hours),
		WaitLockers:     stats.NewStat("wait for lockers"),
		WaitReception:   stats.NewStat("wait at reception"),
		WaitSauna:       stats.NewStat("wait for sauna"),
		WaitPool:        stats.NewStat("wait for pool"),
		WaitRest:        stats.NewStat("wait for lounger"),
		TimeInSystem:    stats.NewStat("time in system"),
		ExtraTime:       stats.NewStat("extra time"),
		Rounds:          stats.NewStat("wellness rounds"),

		arrivals:  s.RNG.Variates(sim.SubsystemArrivals),
		service:   s.RNG.Variates(sim.SubsystemService),
		decisions: s.RNG.Variates(sim.SubsystemDecisions),
	}
	return m
}

// Config returns the scenario the model was built from.
func (m *Model) Config() Config { return m.cfg }

// Sim returns the simulator the model runs on.
func (m *Model) Sim() *sim.Simulator { return m.sim }

// Start activates the generator at the current time.
func (m *Model) Start() error {
	m.generator = &Generator{model: m}
	return m.sim.Activate(m.sim.NewProcess(KindGenerator, "generator", m.generator))
}

// sample draws a service duration.
func (m *Model) sample(d DistSpec) float64 {
	return d.Sample(m.service)
}

// observeWait records a waiting time. Negative waits point at a clock
// defect and are logged; the Stat counts them as well.
func (m *Model) observeWait(st *stats.Stat, p *sim.Process, w float64) {
	if w < 0 {
		logrus.Warnf("[t=%10.4f] negative %s of %.4f for %s", p.Now(), st.Name(), w, p)
	}
	st.Observe(w)
}
