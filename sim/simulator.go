// sim/simulator.go
package sim

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"
)

// yieldSignal hands scheduler control back from a process goroutine.
type yieldSignal struct {
	err error
}

// Simulator is the core object that holds the virtual clock, the event
// calendar and every resource of one run.
//
// Processes run on their own goroutines, but control is handed over on
// unbuffered channels so that exactly one of them (or the scheduler loop)
// executes at any time. All state below is therefore confined to a single
// logical thread and needs no locking.
type Simulator struct {
	*HookableBase

	clock    float64
	horizon  float64
	calendar *Calendar

	// RNG holds the per-subsystem random streams of the run.
	RNG *PartitionedRNG

	current *Process
	nextID  int64
	yield   chan yieldSignal
	done    chan struct{}
	wg      sync.WaitGroup
	ran     bool

	eventsFired int64

	facilities []*Facility
	pools      []*Pool
	queues     []*WaitQueue
}

// NewSimulator creates a simulator at time 0 whose random streams derive
// from key.
func NewSimulator(key SimulationKey) *Simulator {
	return &Simulator{
		HookableBase: NewHookableBase(),
		clock:        0,
		horizon:      math.Inf(1),
		calendar:     NewCalendar(),
		RNG:          NewPartitionedRNG(key),
		yield:        make(chan yieldSignal),
		done:         make(chan struct{}),
	}
}

// Now returns the current virtual time.
func (s *Simulator) Now() float64 {
	return s.clock
}

// Horizon returns the end time passed to Run, or +Inf before Run.
func (s *Simulator) Horizon() float64 {
	return s.horizon
}

// Current returns the process holding control, or nil on the scheduler.
func (s *Simulator) Current() *Process {
	return s.current
}

// Calendar exposes the pending events for inspection.
func (s *Simulator) Calendar() *Calendar {
	return s.calendar
}

// EventsFired returns the number of events dispatched so far.
func (s *Simulator) EventsFired() int64 {
	return s.eventsFired
}

// Facilities returns the facilities created on this simulator.
func (s *Simulator) Facilities() []*Facility { return s.facilities }

// Pools returns the capacity pools created on this simulator.
func (s *Simulator) Pools() []*Pool { return s.pools }

// Queues returns the explicit wait queues created on this simulator.
func (s *Simulator) Queues() []*WaitQueue { return s.queues }

// NewProcess creates a process in the Created state. It does not run until
// activated. An empty name defaults to "kind#id".
func (s *Simulator) NewProcess(kind, name string, b Behavior) *Process {
	if b == nil {
		panic("NewProcess: behavior must not be nil")
	}
	s.nextID++
	p := &Process{
		id:       s.nextID,
		kind:     kind,
		name:     name,
		sim:      s,
		behavior: b,
		state:    StateCreated,
		resume:   make(chan struct{}),
	}
	if p.name == "" {
		p.name = fmt.Sprintf("%s#%d", kind, p.id)
	}
	return p
}

// Spawn creates a process and activates it at the current time.
func (s *Simulator) Spawn(kind, name string, b Behavior) (*Process, error) {
	p := s.NewProcess(kind, name, b)
	if err := s.Activate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Activate schedules p to resume at the current time.
//
// Created and Passive processes are scheduled; a Waiting process has its
// pending timeout cancelled and is rescheduled; Terminated processes are
// ignored. Ready, Running and Blocked processes fail with
// ErrDoubleActivation.
func (s *Simulator) Activate(p *Process) error {
	return s.Schedule(s.clock, p)
}

// Schedule activates p at time at, following the same state rules as
// Activate. Scheduling before the current time fails with
// ErrCausalityViolation.
func (s *Simulator) Schedule(at float64, p *Process) error {
	if p == nil {
		panic("Schedule: process must not be nil")
	}
	if math.IsNaN(at) || at < s.clock {
		return s.errorf(s.current, "schedule",
			fmt.Errorf("%s at t=%g before now: %w", p, at, ErrCausalityViolation))
	}
	switch p.state {
	case StateTerminated:
		return nil
	case StateReady, StateRunning, StateBlocked:
		return s.errorf(s.current, "activate",
			fmt.Errorf("%s is %s: %w", p, p.state, ErrDoubleActivation))
	case StateWaiting:
		s.calendar.Cancel(p.pending)
	}
	s.wakeAt(at, p, EventActivation)
	return nil
}

// wakeAt puts p on the calendar without any state checks.
func (s *Simulator) wakeAt(at float64, p *Process, kind EventKind) {
	p.pending = s.calendar.Schedule(at, p, kind)
	p.state = StateReady
	logrus.Tracef("[t=%10.4f] schedule %s at %.4f (%s)", s.clock, p, at, kind)
	s.InvokeHook(HookCtx{Pos: HookPosActivate, Clock: s.clock, Process: p, Detail: at})
}

// Run dispatches events in (time, insertion) order until the calendar is
// empty or the next event is due at or after endTime. Events due at or
// after endTime are left pending. When stopped by the horizon the clock is
// set to endTime.
//
// A fatal error raised by any process aborts the run and is returned as a
// *SimError. Processes still suspended when Run returns are released; their
// state and pending events stay inspectable.
func (s *Simulator) Run(endTime float64) error {
	if s.ran {
		return ErrAlreadyRun
	}
	s.ran = true
	if math.IsNaN(endTime) || endTime < s.clock {
		return s.errorf(nil, "run", fmt.Errorf("horizon t=%g before now: %w", endTime, ErrCausalityViolation))
	}
	s.horizon = endTime
	defer s.shutdown()

	logrus.Infof("[t=%10.4f] Starting simulation, horizon=%.4f, pending=%d", s.clock, endTime, s.calendar.Len())
	for {
		ev := s.calendar.Peek()
		if ev == nil {
			break
		}
		if ev.at >= endTime {
			s.clock = endTime
			break
		}
		s.calendar.PopNext()
		s.clock = ev.at
		p := ev.target
		p.pending = nil
		s.eventsFired++

		if !dispatchable(ev, p) {
			err := s.errorf(p, "dispatch", fmt.Errorf("%s event for %s process: %w", ev.kind, p.state, ErrInvariant))
			logrus.Errorf("Simulation aborted: %v", err)
			return err
		}
		logrus.Debugf("[t=%10.4f] resume %s (%s)", s.clock, p, ev.kind)
		if err := s.dispatch(p); err != nil {
			logrus.Errorf("Simulation aborted: %v", err)
			return err
		}
		s.InvokeHook(HookCtx{Pos: HookPosAfterEvent, Clock: s.clock, Process: p})
	}
	logrus.Infof("[t=%10.4f] Simulation ended, %d events fired, %d pending", s.clock, s.eventsFired, s.calendar.Len())
	return nil
}

// dispatchable reports whether ev may resume p. A timeout resumes a
// process still in Wait; every other event was scheduled by wakeAt.
func dispatchable(ev *Event, p *Process) bool {
	if ev.kind == EventTimeout {
		return p.state == StateWaiting
	}
	return p.state == StateReady
}

// dispatch hands control to p and blocks until p suspends or terminates.
func (s *Simulator) dispatch(p *Process) error {
	s.current = p
	p.state = StateRunning
	s.InvokeHook(HookCtx{Pos: HookPosResume, Clock: s.clock, Process: p})
	if !p.started {
		p.start()
	} else {
		p.resume <- struct{}{}
	}
	sig := <-s.yield
	s.current = nil
	return sig.err
}

// shutdown unwinds every goroutine of a still-suspended process.
func (s *Simulator) shutdown() {
	close(s.done)
	s.wg.Wait()
}

// errorf wraps err with the clock and process context. Errors that already
// carry context are returned unchanged.
func (s *Simulator) errorf(p *Process, op string, err error) *SimError {
	var se *SimError
	if errors.As(err, &se) {
		return se
	}
	se = &SimError{Err: err, Clock: s.clock, Op: op}
	if p != nil {
		se.ProcessID = p.id
		se.Process = p.String()
	}
	return se
}
