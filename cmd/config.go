package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wellness-sim/wellness-sim/sim/wellness"
)

// resolveConfig builds the scenario: defaults, then the --config file, then
// every flag the user set explicitly. The result is validated.
func resolveConfig(cmd *cobra.Command) (wellness.Config, error) {
	cfg := wellness.DefaultConfig()
	if configPath != "" {
		loaded, err := wellness.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("horizon") {
		cfg.SetHorizon(horizon)
	}
	if flags.Changed("lead-time") {
		cfg.LeadTime = leadTime
	}
	if flags.Changed("peak-arrivals") {
		cfg.SetPeakMean(peakMean)
	}
	if flags.Changed("normal-arrivals") {
		cfg.SetNormalMean(normalMean)
	}
	if flags.Changed("lockers") {
		cfg.Capacities.Lockers = lockers
	}
	if flags.Changed("showers") {
		cfg.Capacities.Showers = showers
	}
	if flags.Changed("sauna") {
		cfg.Capacities.Sauna = sauna
	}
	if flags.Changed("pool") {
		cfg.Capacities.Pool = pool
	}
	if flags.Changed("loungers") {
		cfg.Capacities.Loungers = loungers
	}
	return cfg, cfg.Validate()
}
