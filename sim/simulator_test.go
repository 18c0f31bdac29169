package sim

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_Wait_ResumesAtExactTime(t *testing.T) {
	// GIVEN a process waiting 2.5 then 4
	s := NewSimulator(NewSimulationKey(1))
	j := &journal{}
	startAt(s, "a", 1, func(p *Process) {
		j.note(p, "start")
		p.Wait(2.5)
		j.note(p, "mid")
		p.Wait(4)
		j.note(p, "end")
	})

	// WHEN run with a distant horizon
	require.NoError(t, s.Run(100))

	// THEN it resumes at 1, 3.5 and 7.5, and the clock stays at the last event
	assert.Equal(t, []string{"a start @1", "a mid @3.5", "a end @7.5"}, j.strings())
	assert.Equal(t, 7.5, s.Now())
	assert.Equal(t, int64(3), s.EventsFired())
}

func TestSimulator_SameTimeEvents_FireInSchedulingOrder(t *testing.T) {
	// GIVEN N processes scheduled at the same time in a known order
	s := NewSimulator(NewSimulationKey(1))
	j := &journal{}
	const n = 20
	want := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("p%02d", i)
		startAt(s, name, 3, func(p *Process) { j.note(p, "run") })
		want = append(want, name+" run @3")
	}

	// WHEN the simulation runs
	require.NoError(t, s.Run(10))

	// THEN they resume in scheduling order
	assert.Equal(t, want, j.strings())
}

func TestSimulator_WaitZero_YieldsToEarlierSameTimeEvents(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))
	j := &journal{}
	startAt(s, "a", 0, func(p *Process) {
		j.note(p, "first")
		p.Wait(0)
		j.note(p, "second")
	})
	startAt(s, "b", 0, func(p *Process) { j.note(p, "only") })

	require.NoError(t, s.Run(1))

	assert.Equal(t, []string{"a first @0", "b only @0", "a second @0"}, j.strings())
}

func TestSimulator_Horizon_LeavesLateEventsUnfired(t *testing.T) {
	// GIVEN a process whose second wake-up is due exactly at the horizon
	s := NewSimulator(NewSimulationKey(1))
	j := &journal{}
	p := startAt(s, "a", 0, func(p *Process) {
		j.note(p, "start")
		p.Wait(10)
		j.note(p, "never")
	})

	// WHEN run until 10
	require.NoError(t, s.Run(10))

	// THEN the event at 10 is left pending and the clock stops at 10
	assert.Equal(t, []string{"a start @0"}, j.strings())
	assert.Equal(t, 10.0, s.Now())
	assert.Equal(t, StateWaiting, p.State())
	require.NotNil(t, p.PendingEvent())
	assert.Equal(t, 10.0, p.PendingEvent().Timestamp())
	assert.Equal(t, 1, s.Calendar().Len())
}

func TestSimulator_Run_Twice(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))
	require.NoError(t, s.Run(1))
	assert.ErrorIs(t, s.Run(2), ErrAlreadyRun)
}

func TestSimulator_Run_HorizonBeforeNow(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))
	assert.ErrorIs(t, s.Run(-1), ErrCausalityViolation)
}

func TestSimulator_Schedule_IntoPast(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))
	p := s.NewProcess("test", "a", BehaviorFunc(func(*Process) {}))

	err := s.Schedule(-0.5, p)

	require.ErrorIs(t, err, ErrCausalityViolation)
	assert.Equal(t, StateCreated, p.State())
}

func TestSimulator_Wait_Negative_AbortsRun(t *testing.T) {
	// GIVEN a process that waits a negative duration at t=4
	s := NewSimulator(NewSimulationKey(1))
	startAt(s, "bad", 4, func(p *Process) { p.Wait(-1) })

	// WHEN run
	err := s.Run(100)

	// THEN the run aborts with full context
	require.ErrorIs(t, err, ErrCausalityViolation)
	var se *SimError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 4.0, se.Clock)
	assert.Equal(t, "bad", se.Process)
	assert.Equal(t, "wait", se.Op)
}

func TestSimulator_Activate_StateRules(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(s *Simulator, p *Process)
		wantErr error
	}{
		{
			name:    "created is scheduled",
			prepare: func(*Simulator, *Process) {},
		},
		{
			name: "ready fails",
			prepare: func(s *Simulator, p *Process) {
				require.NoError(t, s.Activate(p))
			},
			wantErr: ErrDoubleActivation,
		},
		{
			name: "terminated is a no-op",
			prepare: func(s *Simulator, p *Process) {
				p.state = StateTerminated
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSimulator(NewSimulationKey(1))
			p := s.NewProcess("test", "a", BehaviorFunc(func(*Process) {}))
			tt.prepare(s, p)

			err := s.Activate(p)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSimulator_Activate_TerminatedAfterRun(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))
	p := startAt(s, "a", 0, func(p *Process) { p.Wait(1) })
	require.NoError(t, s.Run(10))
	require.Equal(t, StateTerminated, p.State())

	assert.NoError(t, s.Activate(p))
	assert.Equal(t, 0, s.Calendar().Len())
}

func TestSimulator_ActivateRunning_AbortsRun(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))
	startAt(s, "self", 0, func(p *Process) { p.Activate(p) })

	err := s.Run(10)

	assert.ErrorIs(t, err, ErrDoubleActivation)
}

func TestSimulator_BehaviorPanic_AbortsRun(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))
	startAt(s, "a", 2, func(p *Process) { panic("boom") })

	err := s.Run(10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "process panicked: boom")
	assert.Contains(t, err.Error(), "t=2.0000")
}

func TestSimulator_Fail_PropagatesTypedError(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))
	cause := fmt.Errorf("band missing: %w", ErrDomainConfiguration)
	startAt(s, "gen", 1, func(p *Process) { p.Fail(cause) })

	err := s.Run(10)

	assert.ErrorIs(t, err, ErrDomainConfiguration)
}

func TestSimulator_AbortLeavesOtherProcessesInspectable(t *testing.T) {
	// GIVEN a waiting process and a process that aborts
	s := NewSimulator(NewSimulationKey(1))
	waiter := startAt(s, "waiter", 0, func(p *Process) { p.Wait(50) })
	passive := startAt(s, "passive", 0, func(p *Process) { p.Passivate() })
	startAt(s, "bad", 1, func(p *Process) { p.Wait(-3) })

	// WHEN the run aborts
	require.Error(t, s.Run(100))

	// THEN the survivors keep their suspended state
	assert.Equal(t, StateWaiting, waiter.State())
	assert.Equal(t, StatePassive, passive.State())
}

func TestSimulator_Hooks_AfterEventSeesEveryDispatch(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))
	var after []float64
	s.AcceptHook(HookFunc(func(ctx HookCtx) {
		if ctx.Pos == HookPosAfterEvent {
			after = append(after, ctx.Clock)
		}
	}))
	startAt(s, "a", 0, func(p *Process) {
		p.Wait(1)
		p.Wait(2)
	})

	require.NoError(t, s.Run(10))

	assert.Equal(t, []float64{0, 1, 3}, after)
	assert.Equal(t, 1, s.NumHooks())
}

func TestDispatchable_TimeoutResumesWaitingProcess(t *testing.T) {
	tests := []struct {
		kind  EventKind
		state ProcessState
		want  bool
	}{
		{EventTimeout, StateWaiting, true},
		{EventTimeout, StateReady, false},
		{EventActivation, StateReady, true},
		{EventActivation, StateWaiting, false},
		{EventHandoff, StateReady, true},
		{EventHandoff, StateBlocked, false},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s/%s", tc.kind, tc.state), func(t *testing.T) {
			p := &Process{state: tc.state}
			assert.Equal(t, tc.want, dispatchable(&Event{kind: tc.kind}, p))
		})
	}
}

func TestSimulator_Shutdown_DeferredReleaseDoesNotHang(t *testing.T) {
	// GIVEN a holder that defers its release and waits past the horizon
	s := NewSimulator(NewSimulationKey(1))
	f := s.NewFacility("reception")
	holder := startAt(s, "holder", 0, func(p *Process) {
		p.Seize(f)
		defer p.Release(f)
		p.Wait(100)
	})

	// WHEN the run stops at the horizon
	done := make(chan error, 1)
	go func() { done <- s.Run(10) }()

	// THEN Run returns and the holder stays suspended
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the horizon")
	}
	assert.Equal(t, StateWaiting, holder.State())
	assert.Equal(t, 10.0, s.Now())
}
