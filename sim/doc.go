// Package sim provides the discrete-event simulation core for wellness-sim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - calendar.go: pending resumptions ordered by (time, insertion sequence)
//   - simulator.go: the virtual clock, the dispatch loop and Run
//   - process.go: process lifecycle and the suspension points (Wait,
//     Passivate, Seize, pool entry)
//
// # Concurrency model
//
// Each process runs its Behavior on a dedicated goroutine, but the scheduler
// hands control over through unbuffered channels: exactly one goroutine
// executes simulation code at any time, so the calendar, the clock and the
// resources need no locks. Concurrency is logical only.
//
// # Resources
//
//   - Facility: single holder, priority/FIFO wait list, automatic handoff
//   - Pool: N interchangeable slots, never queues by itself
//   - WaitQueue: explicit FIFO filled and drained by domain logic
//
// Sub-packages:
//   - sim/stats/: Stat, Histogram and TimeWeighted collectors
//   - sim/trace/: action trace records and SQLite export
//   - sim/wellness/: the wellness-facility workload
package sim
