// Package testutil provides shared test infrastructure for the wellness
// simulator: scenario fixtures, invariant checking hooks and float
// assertion helpers used by sim/wellness and cmd tests.
package testutil

import (
	"math"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/wellness-sim/wellness-sim/sim"
)

// ScenarioPath resolves a scenario file under the repository's
// testdata/scenarios directory. The path is resolved relative to this source
// file: sim/internal/testutil/ → testdata/scenarios/.
func ScenarioPath(t *testing.T, name string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "scenarios", name)
}

// InvariantChecker verifies every facility and pool of a simulator after
// each dispatched event and keeps the violations it finds.
type InvariantChecker struct {
	Violations []error
	Checks     int
}

// Func implements sim.Hook.
func (c *InvariantChecker) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterEvent {
		return
	}
	s := ctx.Process.Sim()
	c.Checks++
	for _, f := range s.Facilities() {
		if err := f.CheckInvariant(); err != nil {
			c.Violations = append(c.Violations, err)
		}
	}
	for _, p := range s.Pools() {
		if err := p.CheckInvariant(); err != nil {
			c.Violations = append(c.Violations, err)
		}
	}
}

// AssertNoViolations fails the test for every recorded violation.
func (c *InvariantChecker) AssertNoViolations(t *testing.T) {
	t.Helper()
	if c.Checks == 0 {
		t.Error("invariant checker never ran")
	}
	for _, v := range c.Violations {
		t.Errorf("invariant violated: %v", v)
	}
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
