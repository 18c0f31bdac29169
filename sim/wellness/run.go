package wellness

import (
	"github.com/sirupsen/logrus"

	"github.com/wellness-sim/wellness-sim/sim"
)

// Run simulates cfg with the given key until the horizon and returns the
// final report. hooks are attached before the generator starts. On error the
// report reflects the state at the abort.
func Run(cfg Config, key sim.SimulationKey, hooks ...sim.Hook) (Report, error) {
	s := sim.NewSimulator(key)
	for _, h := range hooks {
		s.AcceptHook(h)
	}
	m, err := NewModel(s, cfg)
	if err != nil {
		return Report{}, err
	}
	if err := m.Start(); err != nil {
		return m.Report(), err
	}
	err = s.Run(cfg.Horizon)
	r := m.Report()
	if err != nil {
		return r, err
	}
	logrus.Infof("wellness run done: %d in, %d out, %d still inside", r.CustomersIn, r.CustomersOut, r.InSystem())
	return r, nil
}
