package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// occupancyGuard records every after-event occupancy above capacity.
func occupancyGuard(s *Simulator, pl *Pool) *[]int {
	var over []int
	s.AcceptHook(HookFunc(func(ctx HookCtx) {
		if ctx.Pos != HookPosAfterEvent {
			return
		}
		if pl.Occupied() > pl.Capacity() || pl.CheckInvariant() != nil {
			over = append(over, pl.Occupied())
		}
	}))
	return &over
}

func TestPool_PollingPolicy_CapacityTwo(t *testing.T) {
	// GIVEN a pool of 2 and three visitors arriving at 0, 0 and 5 who poll every 1
	s := NewSimulator(NewSimulationKey(1))
	pl := s.NewPool("lounge", 2)
	over := occupancyGuard(s, pl)
	j := &journal{}
	visit := func(p *Process) {
		waited := p.EnterPolling(pl, 1, func() float64 { return 1 })
		if waited > 0 {
			j.note(p, "entered late")
		}
		p.Wait(10)
		p.Leave(pl, 1)
		j.note(p, "left")
	}
	startAt(s, "P1", 0, visit)
	startAt(s, "P2", 0, visit)
	startAt(s, "P3", 5, visit)

	// WHEN run
	require.NoError(t, s.Run(100))

	// THEN the first two leave at 10 and the third enters at 10 and leaves at 20
	assert.Equal(t, []string{
		"P1 left @10",
		"P2 left @10",
		"P3 entered late @10",
		"P3 left @20",
	}, j.strings())
	assert.Empty(t, *over)
	assert.True(t, pl.Empty())

	snap := pl.Snapshot()
	assert.Equal(t, 2, snap.Peak)
	assert.Equal(t, int64(3), snap.Entries)
	// 2 slots busy for 10, 1 slot for 10, over 20 with capacity 2
	assert.InDelta(t, 0.75, snap.Utilization, 1e-12)
}

func TestPool_QueuedPolicy_CapacityTwo(t *testing.T) {
	// GIVEN a pool of 2 with an explicit wait queue and three visitors
	s := NewSimulator(NewSimulationKey(1))
	pl := s.NewPool("lounge", 2)
	q := s.NewWaitQueue("lounge queue")
	over := occupancyGuard(s, pl)
	j := &journal{}
	visit := func(p *Process) {
		p.EnterQueued(pl, q, 1)
		j.note(p, "entered")
		p.Wait(10)
		p.LeaveAndNotify(pl, q, 1)
		j.note(p, "left")
	}
	startAt(s, "P1", 0, visit)
	startAt(s, "P2", 0, visit)
	p3 := startAt(s, "P3", 5, visit)
	activations := countActivations(s)

	// WHEN run
	require.NoError(t, s.Run(100))

	// THEN the third is woken exactly once and departs at 20
	assert.Equal(t, []string{
		"P1 entered @0",
		"P2 entered @0",
		"P1 left @10",
		"P2 left @10",
		"P3 entered @10",
		"P3 left @20",
	}, j.strings())
	assert.Equal(t, 1, activations[p3.Name()])
	assert.Empty(t, *over)
	assert.True(t, q.Empty())

	qs := q.Snapshot()
	assert.Equal(t, int64(1), qs.Inserted)
	assert.Equal(t, 5.0, qs.Wait.Mean)
}

func TestPool_QueuedPolicy_BargingWaiterRequeues(t *testing.T) {
	// GIVEN a pool of 1 where a newcomer arrives right after the slot frees
	s := NewSimulator(NewSimulationKey(1))
	pl := s.NewPool("sauna", 1)
	q := s.NewWaitQueue("sauna queue")
	over := occupancyGuard(s, pl)
	j := &journal{}
	visit := func(p *Process) {
		p.EnterQueued(pl, q, 1)
		j.note(p, "entered")
		p.Wait(10)
		p.LeaveAndNotify(pl, q, 1)
	}
	startAt(s, "first", 0, visit)
	startAt(s, "queued", 1, visit)
	// the barger's timeout at 10 is scheduled before the waiter's wake-up
	startAt(s, "barger", 9, func(p *Process) {
		p.Wait(1)
		visit(p)
	})

	// WHEN run
	require.NoError(t, s.Run(100))

	// THEN the barger takes the slot and the woken waiter queues again
	assert.Equal(t, []string{
		"first entered @0",
		"barger entered @10",
		"queued entered @20",
	}, j.strings())
	assert.Empty(t, *over)
	assert.Equal(t, int64(1), q.Snapshot().Inserted)
}

func TestPool_QueuedPolicy_RequeuedWaiterKeepsItsTurn(t *testing.T) {
	// GIVEN a pool of 1 with two queued waiters and a newcomer who takes
	// the slot the first waiter was woken for
	s := NewSimulator(NewSimulationKey(1))
	pl := s.NewPool("sauna", 1)
	q := s.NewWaitQueue("sauna queue")
	over := occupancyGuard(s, pl)
	j := &journal{}
	visit := func(p *Process) {
		p.EnterQueued(pl, q, 1)
		j.note(p, "entered")
		p.Wait(10)
		p.LeaveAndNotify(pl, q, 1)
	}
	startAt(s, "holder", 0, visit)
	startAt(s, "W1", 1, visit)
	startAt(s, "W2", 2, visit)
	startAt(s, "newcomer", 9, func(p *Process) {
		p.Wait(1)
		visit(p)
	})

	// WHEN run
	require.NoError(t, s.Run(100))

	// THEN W1 still enters before W2
	assert.Equal(t, []string{
		"holder entered @0",
		"newcomer entered @10",
		"W1 entered @20",
		"W2 entered @30",
	}, j.strings())
	assert.Empty(t, *over)
	assert.True(t, q.Empty())
}

func TestPool_LeaveAndNotify_WakesOnePerUnit(t *testing.T) {
	// GIVEN a pool of 3 held as a block of 3 and three queued single-unit visitors
	s := NewSimulator(NewSimulationKey(1))
	pl := s.NewPool("showers", 3)
	q := s.NewWaitQueue("showers queue")
	j := &journal{}
	startAt(s, "group", 0, func(p *Process) {
		assert.True(t, p.TryEnter(pl, 3))
		p.Wait(5)
		p.LeaveAndNotify(pl, q, 2)
		p.Wait(5)
		p.LeaveAndNotify(pl, q, 1)
	})
	for _, name := range []string{"a", "b", "c"} {
		startAt(s, name, 1, func(p *Process) {
			p.EnterQueued(pl, q, 1)
			j.note(p, "entered")
			p.Wait(100)
			p.Leave(pl, 1)
		})
	}

	// WHEN run
	require.NoError(t, s.Run(1000))

	// THEN two are woken at 5 and the last at 10
	assert.Equal(t, []string{"a entered @5", "b entered @5", "c entered @10"}, j.strings())
}

func TestPool_Leave_Underflow(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))
	pl := s.NewPool("lockers", 3)
	startAt(s, "a", 0, func(p *Process) {
		p.TryEnter(pl, 1)
		p.Leave(pl, 2)
	})

	err := s.Run(10)

	require.ErrorIs(t, err, ErrUnderflow)
	assert.Equal(t, 1, pl.Occupied())
}

func TestPool_InvalidUnits(t *testing.T) {
	tests := []struct {
		name  string
		units int
	}{
		{name: "zero", units: 0},
		{name: "negative", units: -1},
		{name: "above capacity", units: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSimulator(NewSimulationKey(1))
			pl := s.NewPool("lockers", 2)
			startAt(s, "a", 0, func(p *Process) { p.TryEnter(pl, tt.units) })

			assert.ErrorIs(t, s.Run(10), ErrInvalidUnits)
		})
	}
}

func TestPool_TryEnter_PartialUnitsNotGranted(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))
	pl := s.NewPool("lockers", 3)
	var got []bool
	startAt(s, "a", 0, func(p *Process) {
		got = append(got, p.TryEnter(pl, 2))
		got = append(got, p.TryEnter(pl, 2))
		got = append(got, p.TryEnter(pl, 1))
	})

	require.NoError(t, s.Run(10))

	assert.Equal(t, []bool{true, false, true}, got)
	assert.True(t, pl.Full())
	assert.Equal(t, 0, pl.Free())
}

func TestPool_NonPositiveCapacityPanics(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))
	assert.Panics(t, func() { s.NewPool("empty", 0) })
}
