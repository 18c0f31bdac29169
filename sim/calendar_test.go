package sim

import (
	"testing"
)

// TestCalendar_TimestampOrdering tests that events come out in time order
func TestCalendar_TimestampOrdering(t *testing.T) {
	c := NewCalendar()

	c.Schedule(100, nil, EventActivation)
	c.Schedule(50, nil, EventActivation)
	c.Schedule(150, nil, EventActivation)

	for _, want := range []float64{50, 100, 150} {
		ev := c.PopNext()
		if ev.Timestamp() != want {
			t.Errorf("event timestamp = %v, want %v", ev.Timestamp(), want)
		}
	}
	if c.Len() != 0 {
		t.Errorf("calendar should be empty, len = %d", c.Len())
	}
}

// TestCalendar_SameTimeFIFO tests that equal times keep insertion order
func TestCalendar_SameTimeFIFO(t *testing.T) {
	c := NewCalendar()
	s := NewSimulator(NewSimulationKey(1))

	procs := make([]*Process, 8)
	for i := range procs {
		procs[i] = s.NewProcess("test", "", BehaviorFunc(func(*Process) {}))
	}
	// Interleave a later event to force heap reshuffles.
	for i, p := range procs {
		c.Schedule(10, p, EventActivation)
		if i%3 == 0 {
			c.Schedule(5, nil, EventTimeout)
		}
	}

	for c.Peek().Timestamp() == 5 {
		c.PopNext()
	}
	for i, want := range procs {
		ev := c.PopNext()
		if ev.Target() != want {
			t.Fatalf("position %d: got %v, want %v", i, ev.Target(), want)
		}
	}
}

func TestCalendar_Cancel_RemovesOnlyThatEvent(t *testing.T) {
	c := NewCalendar()
	a := c.Schedule(1, nil, EventActivation)
	b := c.Schedule(2, nil, EventTimeout)
	d := c.Schedule(3, nil, EventHandoff)

	c.Cancel(b)

	if b.Pending() {
		t.Error("cancelled event still pending")
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if got := c.PopNext(); got != a {
		t.Errorf("first = %v, want a", got.Timestamp())
	}
	if got := c.PopNext(); got != d {
		t.Errorf("second = %v, want d", got.Timestamp())
	}
}

func TestCalendar_Cancel_FiredEventIsNoop(t *testing.T) {
	c := NewCalendar()
	a := c.Schedule(1, nil, EventActivation)
	c.Schedule(2, nil, EventActivation)

	c.PopNext()
	c.Cancel(a)
	c.Cancel(nil)

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCalendar_EmptyPeekAndPop(t *testing.T) {
	c := NewCalendar()
	if c.Peek() != nil || c.PopNext() != nil {
		t.Error("empty calendar should return nil")
	}
}

func TestEventKind_String(t *testing.T) {
	tests := map[EventKind]string{
		EventActivation: "activation",
		EventTimeout:    "timeout",
		EventHandoff:    "handoff",
		EventKind(42):   "unknown",
	}
	for kind, want := range tests {
		if kind.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(kind), kind.String(), want)
		}
	}
}
