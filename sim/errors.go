package sim

import (
	"errors"
	"fmt"
)

// Programmer-error classes. Any of them aborts the run: continuing would
// corrupt scheduler or resource state.
var (
	// ErrCausalityViolation reports an attempt to schedule into the past.
	ErrCausalityViolation = errors.New("causality violation")
	// ErrDoubleActivation reports activating a process that is ready, running
	// or queued on a resource.
	ErrDoubleActivation = errors.New("double activation")
	// ErrNotHolder reports releasing a facility the caller does not hold.
	ErrNotHolder = errors.New("not holder")
	// ErrUnderflow reports leaving a pool with more units than are occupied.
	ErrUnderflow = errors.New("pool underflow")
	// ErrDomainConfiguration reports a workload configuration that does not
	// cover the simulated time range, e.g. a missing arrival band.
	ErrDomainConfiguration = errors.New("domain configuration error")

	// ErrNotRunning reports a process operation invoked outside the logic of
	// the currently running process.
	ErrNotRunning = errors.New("process is not running")
	// ErrInvalidUnits reports a pool request outside [1, capacity].
	ErrInvalidUnits = errors.New("invalid pool units")
	// ErrReentrantSeize reports a holder seizing its own facility.
	ErrReentrantSeize = errors.New("facility already held by caller")
	// ErrInvariant reports a broken resource invariant.
	ErrInvariant = errors.New("resource invariant violated")
	// ErrAlreadyRun reports a second call to Simulator.Run.
	ErrAlreadyRun = errors.New("simulator already ran")
)

// SimError carries the context of a fatal simulation error: the virtual
// clock, the process that triggered it and the operation it was performing.
type SimError struct {
	Err       error
	Clock     float64
	ProcessID int64
	Process   string
	Op        string
}

func (e *SimError) Error() string {
	if e.Process == "" {
		return fmt.Sprintf("t=%.4f %s: %v", e.Clock, e.Op, e.Err)
	}
	return fmt.Sprintf("t=%.4f process %s (#%d) %s: %v", e.Clock, e.Process, e.ProcessID, e.Op, e.Err)
}

func (e *SimError) Unwrap() error {
	return e.Err
}
