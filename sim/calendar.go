package sim

import "container/heap"

// EventKind tells why a process is being resumed.
type EventKind int

const (
	// EventActivation starts or re-activates a process.
	EventActivation EventKind = iota
	// EventTimeout ends a Wait.
	EventTimeout
	// EventHandoff transfers facility holdership to a waiter.
	EventHandoff
)

func (k EventKind) String() string {
	switch k {
	case EventActivation:
		return "activation"
	case EventTimeout:
		return "timeout"
	case EventHandoff:
		return "handoff"
	default:
		return "unknown"
	}
}

// Event is a pending resumption of a process at a virtual time.
type Event struct {
	at     float64
	seq    uint64
	target *Process
	kind   EventKind
	index  int // position in the heap, -1 once removed
}

// Timestamp returns the virtual time the event is due.
func (e *Event) Timestamp() float64 { return e.at }

// Seq returns the insertion sequence used to break ties between equal times.
func (e *Event) Seq() uint64 { return e.seq }

// Target returns the process the event resumes.
func (e *Event) Target() *Process { return e.target }

// Kind returns the event kind.
func (e *Event) Kind() EventKind { return e.kind }

// Pending reports whether the event is still in a calendar.
func (e *Event) Pending() bool { return e.index >= 0 }

// eventHeap implements heap.Interface.
// Ordering: due time, then insertion sequence.
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x any) {
	ev := x.(*Event)
	ev.index = len(*h)
	*h = append(*h, ev)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	ev.index = -1
	*h = old[0 : n-1]
	return ev
}

// Calendar is the ordered set of pending resumptions. Two events due at the
// same time come out in the order they were scheduled.
//
// Not safe for concurrent use; the scheduler owns it.
type Calendar struct {
	events eventHeap
	seq    uint64
}

// NewCalendar creates an empty calendar.
func NewCalendar() *Calendar {
	c := &Calendar{events: make(eventHeap, 0)}
	heap.Init(&c.events)
	return c
}

// Schedule inserts a new event and returns it.
func (c *Calendar) Schedule(at float64, target *Process, kind EventKind) *Event {
	c.seq++
	ev := &Event{at: at, seq: c.seq, target: target, kind: kind}
	heap.Push(&c.events, ev)
	return ev
}

// Cancel removes a pending event. Cancelling an event that already fired or
// was already cancelled is a no-op.
func (c *Calendar) Cancel(ev *Event) {
	if ev == nil || ev.index < 0 || ev.index >= len(c.events) || c.events[ev.index] != ev {
		return
	}
	heap.Remove(&c.events, ev.index)
}

// PopNext removes and returns the earliest event, or nil when empty.
func (c *Calendar) PopNext() *Event {
	if len(c.events) == 0 {
		return nil
	}
	return heap.Pop(&c.events).(*Event)
}

// Peek returns the earliest event without removing it.
func (c *Calendar) Peek() *Event {
	if len(c.events) == 0 {
		return nil
	}
	return c.events[0]
}

// Len returns the number of pending events.
func (c *Calendar) Len() int {
	return len(c.events)
}
