package sim

import "github.com/wellness-sim/wellness-sim/sim/trace"

// traceHook records hook invocations into a SimulationTrace.
type traceHook struct {
	st *trace.SimulationTrace
}

// NewTraceHook returns a hook that appends a trace.Record for every action
// accepted by st's level. After-event notifications are not recorded.
func NewTraceHook(st *trace.SimulationTrace) Hook {
	return &traceHook{st: st}
}

func (h *traceHook) Func(ctx HookCtx) {
	if ctx.Pos == HookPosAfterEvent || ctx.Process == nil {
		return
	}
	h.st.Record(trace.Record{
		Clock:     ctx.Clock,
		ProcessID: ctx.Process.ID(),
		Kind:      ctx.Process.Kind(),
		Process:   ctx.Process.Name(),
		Action:    ctx.Pos.Name,
		Resource:  ctx.Resource,
	})
}
