package sim

// HookPos defines the enum of possible hooking positions
type HookPos struct {
	Name string
}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered
type HookCtx struct {
	Pos      *HookPos
	Clock    float64
	Process  *Process
	Resource string
	Detail   any
}

// Hook is a short piece of program that can be invoked by the simulator.
// Hooks run on the goroutine holding scheduler control and must not call
// suspending process operations.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) { f(ctx) }

// Hooking positions, in the order a process usually meets them.
var (
	HookPosActivate  = &HookPos{Name: "activate"}
	HookPosResume    = &HookPos{Name: "resume"}
	HookPosWait      = &HookPos{Name: "wait"}
	HookPosPassivate = &HookPos{Name: "passivate"}
	HookPosTerminate = &HookPos{Name: "terminate"}

	HookPosSeize   = &HookPos{Name: "seize"}
	HookPosQueue   = &HookPos{Name: "queue"}
	HookPosRelease = &HookPos{Name: "release"}

	HookPosEnter = &HookPos{Name: "enter"}
	HookPosLeave = &HookPos{Name: "leave"}

	HookPosInsert = &HookPos{Name: "insert"}
	HookPosPop    = &HookPos{Name: "pop"}

	// HookPosAfterEvent fires on the scheduler once the resumed process has
	// suspended or terminated. Process is the process that was resumed.
	HookPosAfterEvent = &HookPos{Name: "after-event"}
)

// A HookableBase provides some utility function for other type that implement
// the Hookable interface.
type HookableBase struct {
	Hooks []Hook
}

// NewHookableBase creates a HookableBase object
func NewHookableBase() *HookableBase {
	h := new(HookableBase)
	h.Hooks = make([]Hook, 0)
	return h
}

// AcceptHook register a hook
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// NumHooks returns the number of registered hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.Hooks)
}

// InvokeHook triggers the register Hooks
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
