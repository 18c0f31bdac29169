package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wellness-sim/wellness-sim/sim/stats"
)

// Pool is a capacity pool of interchangeable slots. It never queues:
// callers that do not get their units choose how to wait, either by polling
// (Process.EnterPolling) or through an explicit wait queue
// (Process.EnterQueued with Process.LeaveAndNotify).
//
// Invariant: 0 <= occupied <= capacity.
type Pool struct {
	name     string
	sim      *Simulator
	capacity int
	occupied int

	entries   int64
	occupancy *stats.TimeWeighted
}

// PoolSnapshot is a read-only view of a pool for reporting.
type PoolSnapshot struct {
	Name        string
	Capacity    int
	Occupied    int
	Entries     int64
	Peak        int
	Utilization float64
	Occupancy   stats.TimeWeightedSnapshot
}

// NewPool creates an empty pool registered with the simulator. capacity
// must be positive.
func (s *Simulator) NewPool(name string, capacity int) *Pool {
	if capacity <= 0 {
		panic(fmt.Sprintf("NewPool: capacity of %s must be positive, got %d", name, capacity))
	}
	pl := &Pool{
		name:      name,
		sim:       s,
		capacity:  capacity,
		occupancy: stats.NewTimeWeighted(name+" occupancy", s.clock),
	}
	s.pools = append(s.pools, pl)
	return pl
}

// Name returns the pool name.
func (pl *Pool) Name() string { return pl.name }

// Capacity returns the number of slots.
func (pl *Pool) Capacity() int { return pl.capacity }

// Occupied returns the number of slots in use.
func (pl *Pool) Occupied() int { return pl.occupied }

// Free returns the number of free slots.
func (pl *Pool) Free() int { return pl.capacity - pl.occupied }

// Full reports whether every slot is in use.
func (pl *Pool) Full() bool { return pl.occupied == pl.capacity }

// Empty reports whether no slot is in use.
func (pl *Pool) Empty() bool { return pl.occupied == 0 }

func (pl *Pool) checkUnits(units int) error {
	if units < 1 || units > pl.capacity {
		return fmt.Errorf("%d units of %s with capacity %d: %w", units, pl.name, pl.capacity, ErrInvalidUnits)
	}
	return nil
}

// enter takes units if they are free and reports whether it did.
func (pl *Pool) enter(p *Process, units int) (bool, error) {
	if err := pl.checkUnits(units); err != nil {
		return false, err
	}
	if pl.capacity-pl.occupied < units {
		return false, nil
	}
	now := pl.sim.clock
	pl.occupied += units
	pl.entries++
	pl.occupancy.Update(now, float64(pl.occupied))
	logrus.Tracef("[t=%10.4f] %s entered %s (%d/%d)", now, p, pl.name, pl.occupied, pl.capacity)
	pl.sim.InvokeHook(HookCtx{Pos: HookPosEnter, Clock: now, Process: p, Resource: pl.name, Detail: units})
	return true, pl.CheckInvariant()
}

// leave returns units. It fails with ErrUnderflow past the occupancy.
func (pl *Pool) leave(p *Process, units int) error {
	if err := pl.checkUnits(units); err != nil {
		return err
	}
	if units > pl.occupied {
		return fmt.Errorf("%s leaving %d units of %s with %d occupied: %w", p, units, pl.name, pl.occupied, ErrUnderflow)
	}
	now := pl.sim.clock
	pl.occupied -= units
	pl.occupancy.Update(now, float64(pl.occupied))
	logrus.Tracef("[t=%10.4f] %s left %s (%d/%d)", now, p, pl.name, pl.occupied, pl.capacity)
	pl.sim.InvokeHook(HookCtx{Pos: HookPosLeave, Clock: now, Process: p, Resource: pl.name, Detail: units})
	return pl.CheckInvariant()
}

// CheckInvariant verifies 0 <= occupied <= capacity.
func (pl *Pool) CheckInvariant() error {
	if pl.occupied < 0 || pl.occupied > pl.capacity {
		return fmt.Errorf("%s occupied %d of %d: %w", pl.name, pl.occupied, pl.capacity, ErrInvariant)
	}
	return nil
}

// Snapshot returns the pool statistics at the current time.
func (pl *Pool) Snapshot() PoolSnapshot {
	occ := pl.occupancy.Snapshot(pl.sim.clock)
	return PoolSnapshot{
		Name:        pl.name,
		Capacity:    pl.capacity,
		Occupied:    pl.occupied,
		Entries:     pl.entries,
		Peak:        int(occ.Max),
		Utilization: occ.Mean / float64(pl.capacity),
		Occupancy:   occ,
	}
}
