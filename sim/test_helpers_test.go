package sim

import (
	"fmt"
)

// stamp is one observation made by a test behavior.
type stamp struct {
	who  string
	what string
	at   float64
}

func (s stamp) String() string {
	return fmt.Sprintf("%s %s @%g", s.who, s.what, s.at)
}

// journal collects stamps in the order processes made them. Only one
// process runs at a time, so appends need no locking.
type journal struct {
	stamps []stamp
}

func (j *journal) note(p *Process, what string) {
	j.stamps = append(j.stamps, stamp{who: p.Name(), what: what, at: p.Now()})
}

func (j *journal) strings() []string {
	out := make([]string, len(j.stamps))
	for i, s := range j.stamps {
		out[i] = s.String()
	}
	return out
}

// startAt creates a named process and schedules its first activation.
func startAt(s *Simulator, name string, at float64, fn func(p *Process)) *Process {
	p := s.NewProcess("test", name, BehaviorFunc(fn))
	if err := s.Schedule(at, p); err != nil {
		panic(err)
	}
	return p
}

// countActivations counts activation hook calls per process name.
func countActivations(s *Simulator) map[string]int {
	counts := make(map[string]int)
	s.AcceptHook(HookFunc(func(ctx HookCtx) {
		if ctx.Pos == HookPosActivate {
			counts[ctx.Process.Name()]++
		}
	}))
	return counts
}
