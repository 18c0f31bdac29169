package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// ProcessState represents the lifecycle state of a process.
type ProcessState int

const (
	// StateCreated: constructed but never activated.
	StateCreated ProcessState = iota
	// StateReady: an activation, timeout or handoff event is pending.
	StateReady
	// StateRunning: the process holds scheduler control.
	StateRunning
	// StateWaiting: suspended in Wait until its timeout fires.
	StateWaiting
	// StateBlocked: suspended on a facility wait list.
	StateBlocked
	// StatePassive: suspended with no pending event.
	StatePassive
	// StateTerminated: its logic ran to completion or aborted.
	StateTerminated
)

func (s ProcessState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateWaiting:
		return "waiting"
	case StateBlocked:
		return "blocked"
	case StatePassive:
		return "passive"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("ProcessState(%d)", int(s))
	}
}

// Behavior is the logic of a process. Run executes on the process's own
// goroutine and may suspend through the Process methods; when Run returns
// the process terminates.
//
// Behaviors must not recover panics they did not raise: suspension points
// unwind with a panic when the run is shut down or aborted.
type Behavior interface {
	Run(p *Process)
}

// BehaviorFunc adapts a plain function to the Behavior interface.
type BehaviorFunc func(p *Process)

// Run calls f(p).
func (f BehaviorFunc) Run(p *Process) { f(p) }

// Process is one simulated entity with its own suspendable logic.
// Exactly one simulator owns it and only that simulator resumes it.
type Process struct {
	id       int64
	kind     string
	name     string
	priority int
	state    ProcessState

	sim      *Simulator
	behavior Behavior
	pending  *Event
	resume   chan struct{}
	started  bool
}

// processKilled unwinds a suspended goroutine during shutdown.
type processKilled struct{}

// processAbort carries a fatal error out of a process goroutine.
type processAbort struct {
	err *SimError
}

// ID returns the process identifier, unique and sequential per simulator.
func (p *Process) ID() int64 { return p.id }

// Kind returns the role tag, e.g. "generator" or "customer".
func (p *Process) Kind() string { return p.kind }

// Name returns the display name.
func (p *Process) Name() string { return p.name }

func (p *Process) String() string { return p.name }

// State returns the lifecycle state.
func (p *Process) State() ProcessState { return p.state }

// Priority returns the facility queueing priority; higher goes first.
func (p *Process) Priority() int { return p.priority }

// SetPriority changes the facility queueing priority. It affects only
// wait lists joined afterwards.
func (p *Process) SetPriority(priority int) { p.priority = priority }

// Sim returns the owning simulator.
func (p *Process) Sim() *Simulator { return p.sim }

// Now returns the current virtual time.
func (p *Process) Now() float64 { return p.sim.clock }

// PendingEvent returns the scheduled resumption, or nil.
func (p *Process) PendingEvent() *Event { return p.pending }

func (p *Process) start() {
	p.started = true
	p.sim.wg.Add(1)
	go p.main()
}

func (p *Process) main() {
	defer p.sim.wg.Done()
	defer func() {
		r := recover()
		if p.shuttingDown() {
			// Nobody receives on yield once the run is over.
			return
		}
		var sig yieldSignal
		switch v := r.(type) {
		case nil:
			p.state = StateTerminated
			logrus.Tracef("[t=%10.4f] %s terminated", p.sim.clock, p)
			p.sim.InvokeHook(HookCtx{Pos: HookPosTerminate, Clock: p.sim.clock, Process: p})
		case processKilled:
			return
		case processAbort:
			p.state = StateTerminated
			sig.err = v.err
		default:
			p.state = StateTerminated
			sig.err = p.sim.errorf(p, "run", fmt.Errorf("process panicked: %v", v))
		}
		p.sim.yield <- sig
	}()
	p.behavior.Run(p)
}

func (p *Process) shuttingDown() bool {
	select {
	case <-p.sim.done:
		return true
	default:
		return false
	}
}

// suspend gives control back to the scheduler and blocks until resumed.
func (p *Process) suspend(state ProcessState) {
	p.state = state
	if p.shuttingDown() {
		panic(processKilled{})
	}
	p.sim.yield <- yieldSignal{}
	select {
	case <-p.resume:
	case <-p.sim.done:
		panic(processKilled{})
	}
}

// abort ends the run with err. It never returns.
func (p *Process) abort(op string, err error) {
	panic(processAbort{err: p.sim.errorf(p, op, err)})
}

func (p *Process) mustBeCurrent(op string) {
	if p.shuttingDown() {
		panic(processKilled{})
	}
	if p.sim.current != p {
		p.abort(op, fmt.Errorf("%s called on %s process: %w", op, p.state, ErrNotRunning))
	}
}

// Fail aborts the run with err; Simulator.Run returns it wrapped in a
// *SimError. Fail never returns.
func (p *Process) Fail(err error) {
	p.abort("fail", err)
}

// Wait suspends the process for d units of virtual time. A negative or NaN
// d aborts the run with ErrCausalityViolation. Wait(0) still yields, so
// every event already due at the current time runs first.
func (p *Process) Wait(d float64) {
	p.mustBeCurrent("wait")
	if math.IsNaN(d) || d < 0 {
		p.abort("wait", fmt.Errorf("wait(%g) ends before now: %w", d, ErrCausalityViolation))
	}
	p.pending = p.sim.calendar.Schedule(p.sim.clock+d, p, EventTimeout)
	p.sim.InvokeHook(HookCtx{Pos: HookPosWait, Clock: p.sim.clock, Process: p, Detail: d})
	p.suspend(StateWaiting)
}

// Passivate suspends the process with no scheduled wake-up. Only an
// Activate from another process resumes it.
func (p *Process) Passivate() {
	p.mustBeCurrent("passivate")
	p.sim.InvokeHook(HookCtx{Pos: HookPosPassivate, Clock: p.sim.clock, Process: p})
	p.suspend(StatePassive)
}

// Activate schedules other to resume at the current time. Errors abort the
// run; see Simulator.Activate for the state rules.
func (p *Process) Activate(other *Process) {
	p.mustBeCurrent("activate")
	if err := p.sim.Activate(other); err != nil {
		p.abort("activate", err)
	}
}

// ActivateAt schedules other to resume at time at.
func (p *Process) ActivateAt(other *Process, at float64) {
	p.mustBeCurrent("activate")
	if err := p.sim.Schedule(at, other); err != nil {
		p.abort("activate", err)
	}
}

// Spawn creates a process and activates it at the current time. It runs
// after the caller suspends, in scheduling order.
func (p *Process) Spawn(kind, name string, b Behavior) *Process {
	p.mustBeCurrent("spawn")
	child := p.sim.NewProcess(kind, name, b)
	p.Activate(child)
	return child
}

// Seize acquires f, suspending on its wait list while another process holds
// it. It returns the time spent waiting.
func (p *Process) Seize(f *Facility) float64 {
	p.mustBeCurrent("seize")
	start := p.sim.clock
	queued, err := f.request(p)
	if err != nil {
		p.abort("seize", err)
	}
	if queued {
		p.suspend(StateBlocked)
		if f.holder != p {
			p.abort("seize", fmt.Errorf("%s resumed without holding %s: %w", p, f.name, ErrInvariant))
		}
	}
	return p.sim.clock - start
}

// Release gives up f. The head of its wait list, if any, becomes the holder
// and is activated at the current time.
func (p *Process) Release(f *Facility) {
	p.mustBeCurrent("release")
	if err := f.release(p); err != nil {
		p.abort("release", err)
	}
}

// TryEnter takes units from pool if they are free and reports whether it
// did. It never suspends.
func (p *Process) TryEnter(pool *Pool, units int) bool {
	p.mustBeCurrent("enter")
	ok, err := pool.enter(p, units)
	if err != nil {
		p.abort("enter", err)
	}
	return ok
}

// EnterPolling takes units from pool, re-checking after Wait(retry()) while
// they are not free. Pollers get no ordering guarantee among themselves.
// It returns the time spent waiting.
func (p *Process) EnterPolling(pool *Pool, units int, retry func() float64) float64 {
	start := p.sim.clock
	for !p.TryEnter(pool, units) {
		p.Wait(retry())
	}
	return p.sim.clock - start
}

// EnterQueued takes units from pool, joining q and passivating while they
// are not free. A waiter woken after its slot was taken by someone else
// goes back to the head of q. It returns the time spent waiting.
func (p *Process) EnterQueued(pool *Pool, q *WaitQueue, units int) float64 {
	start := p.sim.clock
	if p.TryEnter(pool, units) {
		return 0
	}
	q.Insert(p)
	p.Passivate()
	for !p.TryEnter(pool, units) {
		q.PrependFront(p)
		p.Passivate()
	}
	return p.sim.clock - start
}

// Leave returns units to pool. It wakes nobody.
func (p *Process) Leave(pool *Pool, units int) {
	p.mustBeCurrent("leave")
	if err := pool.leave(p, units); err != nil {
		p.abort("leave", err)
	}
}

// LeaveAndNotify returns units to pool, then pops and activates one waiter
// of q per freed unit.
func (p *Process) LeaveAndNotify(pool *Pool, q *WaitQueue, units int) {
	p.Leave(pool, units)
	for i := 0; i < units; i++ {
		next := q.PopFront()
		if next == nil {
			break
		}
		p.Activate(next)
	}
}
