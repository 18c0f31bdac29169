package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wellness-sim/wellness-sim/sim/stats"
)

// waiter is a process on a wait list together with the time it joined.
type waiter struct {
	proc  *Process
	since float64
}

// Facility is an exclusive resource: at most one holder, and a wait list
// ordered by process priority (higher first), FIFO among equal priorities.
type Facility struct {
	name     string
	sim      *Simulator
	holder   *Process
	waitList []waiter

	requests  int64
	busy      *stats.TimeWeighted
	queueLen  *stats.TimeWeighted
	queueWait *stats.Stat
}

// FacilitySnapshot is a read-only view of a facility for reporting.
type FacilitySnapshot struct {
	Name        string
	Holder      string
	Requests    int64
	QueueLen    int
	Utilization float64
	Busy        stats.TimeWeightedSnapshot
	Queue       stats.TimeWeightedSnapshot
	QueueWait   stats.StatSnapshot
}

// NewFacility creates a free facility registered with the simulator.
func (s *Simulator) NewFacility(name string) *Facility {
	f := &Facility{
		name:      name,
		sim:       s,
		busy:      stats.NewTimeWeighted(name+" busy", s.clock),
		queueLen:  stats.NewTimeWeighted(name+" queue", s.clock),
		queueWait: stats.NewStat(name + " queue wait"),
	}
	s.facilities = append(s.facilities, f)
	return f
}

// Name returns the facility name.
func (f *Facility) Name() string { return f.name }

// Holder returns the current holder, or nil.
func (f *Facility) Holder() *Process { return f.holder }

// Busy reports whether the facility is held.
func (f *Facility) Busy() bool { return f.holder != nil }

// QueueLen returns the number of processes on the wait list.
func (f *Facility) QueueLen() int { return len(f.waitList) }

// WaitList returns a copy of the wait list, head first.
func (f *Facility) WaitList() []*Process {
	procs := make([]*Process, len(f.waitList))
	for i, w := range f.waitList {
		procs[i] = w.proc
	}
	return procs
}

// request makes p the holder if free, or appends it to the wait list.
// It reports whether p has to suspend.
func (f *Facility) request(p *Process) (bool, error) {
	if f.holder == p {
		return false, fmt.Errorf("%s seizing %s: %w", p, f.name, ErrReentrantSeize)
	}
	now := f.sim.clock
	f.requests++
	if f.holder == nil {
		f.holder = p
		f.busy.Update(now, 1)
		f.sim.InvokeHook(HookCtx{Pos: HookPosSeize, Clock: now, Process: p, Resource: f.name})
		return false, nil
	}

	idx := len(f.waitList)
	for i, w := range f.waitList {
		if w.proc == p {
			return false, fmt.Errorf("%s already queued on %s: %w", p, f.name, ErrInvariant)
		}
		if idx == len(f.waitList) && w.proc.priority < p.priority {
			idx = i
		}
	}
	f.waitList = append(f.waitList, waiter{})
	copy(f.waitList[idx+1:], f.waitList[idx:])
	f.waitList[idx] = waiter{proc: p, since: now}
	f.queueLen.Update(now, float64(len(f.waitList)))

	logrus.Tracef("[t=%10.4f] %s queued on %s at position %d", now, p, f.name, idx)
	f.sim.InvokeHook(HookCtx{Pos: HookPosQueue, Clock: now, Process: p, Resource: f.name, Detail: idx})
	return true, nil
}

// release hands the facility to the head of the wait list, or frees it.
func (f *Facility) release(p *Process) error {
	if f.holder != p {
		holder := "nobody"
		if f.holder != nil {
			holder = f.holder.String()
		}
		return fmt.Errorf("%s releasing %s held by %s: %w", p, f.name, holder, ErrNotHolder)
	}
	now := f.sim.clock
	f.sim.InvokeHook(HookCtx{Pos: HookPosRelease, Clock: now, Process: p, Resource: f.name})

	if len(f.waitList) == 0 {
		f.holder = nil
		f.busy.Update(now, 0)
		return nil
	}
	next := f.waitList[0]
	f.waitList[0] = waiter{}
	f.waitList = f.waitList[1:]
	f.queueLen.Update(now, float64(len(f.waitList)))
	f.queueWait.Observe(now - next.since)

	f.holder = next.proc
	f.sim.InvokeHook(HookCtx{Pos: HookPosSeize, Clock: now, Process: next.proc, Resource: f.name})
	f.sim.wakeAt(now, next.proc, EventHandoff)
	return nil
}

// CheckInvariant verifies that the holder is not queued and that the wait
// list holds no duplicates.
func (f *Facility) CheckInvariant() error {
	seen := make(map[*Process]bool, len(f.waitList))
	for _, w := range f.waitList {
		if w.proc == f.holder {
			return fmt.Errorf("%s: holder %s is also queued: %w", f.name, w.proc, ErrInvariant)
		}
		if seen[w.proc] {
			return fmt.Errorf("%s: %s queued twice: %w", f.name, w.proc, ErrInvariant)
		}
		seen[w.proc] = true
	}
	return nil
}

// Snapshot returns the facility statistics at the current time.
func (f *Facility) Snapshot() FacilitySnapshot {
	now := f.sim.clock
	snap := FacilitySnapshot{
		Name:      f.name,
		Requests:  f.requests,
		QueueLen:  len(f.waitList),
		Busy:      f.busy.Snapshot(now),
		Queue:     f.queueLen.Snapshot(now),
		QueueWait: f.queueWait.Snapshot(),
	}
	snap.Utilization = snap.Busy.Mean
	if f.holder != nil {
		snap.Holder = f.holder.String()
	}
	return snap
}
