// Implements the WaitQueue, an explicit FIFO of suspended processes that
// domain logic fills and drains itself.

package sim

import (
	"fmt"
	"strings"

	"github.com/wellness-sim/wellness-sim/sim/stats"
)

// WaitQueue is a FIFO rendezvous list of processes. It carries no resource
// semantics: domain code inserts a process before passivating it and pops
// the head to decide whom to activate, e.g. when a pool slot frees up.
type WaitQueue struct {
	name  string
	sim   *Simulator
	queue []waiter

	inserted int64
	length   *stats.TimeWeighted
	wait     *stats.Stat
}

// QueueSnapshot is a read-only view of a wait queue for reporting.
type QueueSnapshot struct {
	Name     string
	Len      int
	Inserted int64
	Length   stats.TimeWeightedSnapshot
	Wait     stats.StatSnapshot
}

// NewWaitQueue creates an empty queue registered with the simulator.
func (s *Simulator) NewWaitQueue(name string) *WaitQueue {
	q := &WaitQueue{
		name:   name,
		sim:    s,
		length: stats.NewTimeWeighted(name+" length", s.clock),
		wait:   stats.NewStat(name + " wait"),
	}
	s.queues = append(s.queues, q)
	return q
}

// Name returns the queue name.
func (wq *WaitQueue) Name() string { return wq.name }

// Insert adds a process to the back of the queue.
func (wq *WaitQueue) Insert(p *Process) {
	if p == nil {
		panic("Insert: process must not be nil")
	}
	now := wq.sim.clock
	wq.queue = append(wq.queue, waiter{proc: p, since: now})
	wq.inserted++
	wq.length.Update(now, float64(len(wq.queue)))
	wq.sim.InvokeHook(HookCtx{Pos: HookPosInsert, Clock: now, Process: p, Resource: wq.name})
}

// PrependFront puts a process back at the front of the queue. A waiter
// whose wake-up found no free slot uses it to keep its turn; it does not
// count as a new insertion.
func (wq *WaitQueue) PrependFront(p *Process) {
	if p == nil {
		panic("PrependFront: process must not be nil")
	}
	now := wq.sim.clock
	wq.queue = append([]waiter{{proc: p, since: now}}, wq.queue...)
	wq.length.Update(now, float64(len(wq.queue)))
	wq.sim.InvokeHook(HookCtx{Pos: HookPosInsert, Clock: now, Process: p, Resource: wq.name})
}

// PopFront removes and returns the process at the front of the queue.
// Returns nil if the queue is empty.
func (wq *WaitQueue) PopFront() *Process {
	if len(wq.queue) == 0 {
		return nil
	}
	now := wq.sim.clock
	head := wq.queue[0]
	wq.queue[0] = waiter{}
	wq.queue = wq.queue[1:]
	wq.length.Update(now, float64(len(wq.queue)))
	wq.wait.Observe(now - head.since)
	wq.sim.InvokeHook(HookCtx{Pos: HookPosPop, Clock: now, Process: head.proc, Resource: wq.name})
	return head.proc
}

// Peek returns the process at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (wq *WaitQueue) Peek() *Process {
	if len(wq.queue) == 0 {
		return nil
	}
	return wq.queue[0].proc
}

// Empty reports whether the queue is empty.
func (wq *WaitQueue) Empty() bool {
	return len(wq.queue) == 0
}

// Len returns the number of queued processes.
func (wq *WaitQueue) Len() int {
	return len(wq.queue)
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, w := range wq.queue {
		sb.WriteString(fmt.Sprint(w.proc))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Snapshot returns the queue statistics at the current time.
func (wq *WaitQueue) Snapshot() QueueSnapshot {
	return QueueSnapshot{
		Name:     wq.name,
		Len:      len(wq.queue),
		Inserted: wq.inserted,
		Length:   wq.length.Snapshot(wq.sim.clock),
		Wait:     wq.wait.Snapshot(),
	}
}
