// Package trace provides action-trace recording for simulation runs.
// This package has no dependencies on sim/. It stores pure data types.
package trace

// Record captures one scheduler or resource action taken by a process.
type Record struct {
	Seq       int64   // position in the trace, starting at 1
	Clock     float64 // virtual time of the action
	ProcessID int64
	Kind      string // process role, e.g. "customer"
	Process   string // process display name
	Action    string // hook position name, e.g. "seize", "enter", "wait"
	Resource  string // facility, pool or queue name; empty for process actions
}

// Key returns the (process, time, action, resource) tuple used to compare
// runs for determinism.
func (r Record) Key() Key {
	return Key{ProcessID: r.ProcessID, Clock: r.Clock, Action: r.Action, Resource: r.Resource}
}

// Key is the comparable part of a Record.
type Key struct {
	ProcessID int64
	Clock     float64
	Action    string
	Resource  string
}
