package wellness

import (
	"math"

	"github.com/wellness-sim/wellness-sim/sim"
)

// Customer is one visitor. It records its own arrival time and the extra
// time it granted itself beyond the planned stay.
type Customer struct {
	model   *Model
	arrival float64
	extra   float64
	rounds  int
}

// Run drives the visit: lockers, reception, changing, a first shower, then
// wellness rounds until the visitor decides to leave.
func (c *Customer) Run(p *sim.Process) {
	m := c.model
	d := m.cfg.Durations
	m.CustomersIn++
	c.arrival = p.Now()
	m.ArrivalsPerHour.Observe(c.arrival)

	// Nobody queues at reception while the locker room is full.
	lockerWait := 0.0
	start := p.Now()
	for m.Lockers.Full() {
		p.Wait(m.sample(d.LockerRetry))
	}
	lockerWait += p.Now() - start

	queued := m.Reception.Busy()
	waited := p.Seize(m.Reception)
	if queued {
		m.observeWait(m.WaitReception, p, waited)
	}
	p.Wait(m.sample(d.Reception))
	p.Release(m.Reception)

	lockerWait += p.EnterPolling(m.Lockers, 1, func() float64 { return m.sample(d.LockerRetry) })
	m.observeWait(m.WaitLockers, p, lockerWait)
	p.Wait(m.sample(d.Changing))

	c.showerOrSkip(p, d.FirstShower)

	v := m.cfg.Visit
	for {
		remaining := v.MaxStay - (p.Now() - c.arrival)
		if remaining < v.LeaveThreshold {
			if m.decisions.Random() < v.StayLongerProb {
				c.extra += math.Max(remaining, 0)
			} else {
				p.Wait(m.sample(d.Dressing))
				p.Leave(m.Lockers, 1)
				break
			}
		}
		c.round(p)
	}

	m.TimeInSystem.Observe(p.Now() - c.arrival)
	m.ExtraTime.Observe(c.extra)
	m.Rounds.Observe(float64(c.rounds))
	m.CustomersOut++
}

// round is one pass through sauna, pool or shower, and the rest area.
func (c *Customer) round(p *sim.Process) {
	m := c.model
	d := m.cfg.Durations
	c.rounds++

	queued := m.Sauna.Full()
	waited := p.EnterQueued(m.Sauna, m.SaunaQueue, 1)
	if queued {
		m.observeWait(m.WaitSauna, p, waited)
	}
	p.Wait(m.sample(d.Sauna))
	p.LeaveAndNotify(m.Sauna, m.SaunaQueue, 1)

	if m.decisions.Random() <= m.cfg.Visit.PoolProb {
		c.showerOrSkip(p, d.QuickShower)

		queued := m.Pool.Full()
		waited := p.EnterQueued(m.Pool, m.PoolQueue, 1)
		if queued {
			m.observeWait(m.WaitPool, p, waited)
		}
		p.Wait(m.sample(d.Swim))
		p.LeaveAndNotify(m.Pool, m.PoolQueue, 1)
	} else {
		c.showerOrSkip(p, d.LongShower)
	}

	c.rest(p)
}

// rest spends a sampled rest time, on a lounger once one frees up. Only
// visitors who got a lounger record their standing time; one who stood for
// the whole rest time moves on unrecorded.
func (c *Customer) rest(p *sim.Process) {
	m := c.model
	d := m.cfg.Durations
	start := p.Now()
	end := start + m.sample(d.Rest)

	for p.Now() < end {
		if p.TryEnter(m.Loungers, 1) {
			m.observeWait(m.WaitRest, p, p.Now()-start)
			p.Wait(end - p.Now())
			p.Leave(m.Loungers, 1)
			return
		}
		step := m.sample(d.LoungerRetry)
		if step >= end-p.Now() {
			p.Wait(end - p.Now())
			break
		}
		p.Wait(step)
	}
}

// showerOrSkip showers for a duration drawn from dist, or skips the shower
// when all are taken.
func (c *Customer) showerOrSkip(p *sim.Process, dist DistSpec) {
	m := c.model
	dt := m.sample(dist)
	if !p.TryEnter(m.Showers, 1) {
		m.ShowersSkipped.Observe(p.Now())
		return
	}
	p.Wait(dt)
	p.Leave(m.Showers, 1)
}
