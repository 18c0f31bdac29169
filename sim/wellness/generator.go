package wellness

import (
	"github.com/sirupsen/logrus"

	"github.com/wellness-sim/wellness-sim/sim"
)

// Generator admits visitors with exponential inter-arrival times taken from
// the arrival band of the current time. It stops at the first arrival that
// would fall at or after the last entry time.
type Generator struct {
	model   *Model
	spawned int
}

// Spawned returns the number of visitors admitted so far.
func (g *Generator) Spawned() int { return g.spawned }

// Run spawns a visitor now and waits for the next arrival, for as long as
// the next arrival is still before the last entry time.
func (g *Generator) Run(p *sim.Process) {
	m := g.model
	lastEntry := m.cfg.LastEntry()
	for {
		interval, err := m.cfg.Arrivals.Interval(m.arrivals, p.Now())
		if err != nil {
			p.Fail(err)
		}
		if p.Now()+interval >= lastEntry {
			logrus.Infof("[t=%10.4f] generator stopped, next interval %.4f crosses last entry %.4f",
				p.Now(), interval, lastEntry)
			return
		}
		p.Spawn(KindCustomer, "", &Customer{model: m})
		g.spawned++
		p.Wait(interval)
	}
}
