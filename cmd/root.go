package cmd

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wellness-sim/wellness-sim/sim"
	"github.com/wellness-sim/wellness-sim/sim/trace"
	"github.com/wellness-sim/wellness-sim/sim/wellness"
)

var (
	// CLI flags for the simulation run
	seed       int64   // Master seed for every random stream
	horizon    float64 // Simulated minutes
	leadTime   float64 // Minutes before the horizon without new arrivals
	logLevel   string  // Log verbosity level
	configPath string  // Optional YAML scenario file

	// CLI flags for arrivals and capacities
	peakMean   float64 // Mean inter-arrival time during the peak
	normalMean float64 // Mean inter-arrival time before the peak
	lockers    int     // Number of lockers
	showers    int     // Number of showers
	sauna      int     // Sauna places
	pool       int     // Pool places
	loungers   int     // Rest area loungers

	// CLI flags for tracing
	traceLevel string // Trace verbosity: none, resources, all
	traceDB    string // SQLite file receiving the trace
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "wellness-sim",
	Short: "Discrete-event simulator for visitor flow through a wellness facility",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the wellness simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level %q; valid: none, resources, all", traceLevel)
		}

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		runSeed := seed
		if !cmd.Flags().Changed("seed") {
			runSeed = time.Now().UnixNano()
		}
		logrus.Infof("Starting simulation with seed=%d, horizon=%.1f, last entry=%.1f, capacities=%+v",
			runSeed, cfg.Horizon, cfg.LastEntry(), cfg.Capacities)

		var st *trace.SimulationTrace
		var hooks []sim.Hook
		if traceDB != "" && (traceLevel == "" || traceLevel == string(trace.TraceLevelNone)) {
			traceLevel = string(trace.TraceLevelAll)
		}
		if traceLevel != "" && traceLevel != string(trace.TraceLevelNone) {
			st = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(traceLevel)})
			hooks = append(hooks, sim.NewTraceHook(st))
		}

		startTime := time.Now()
		report, err := wellness.Run(cfg, sim.NewSimulationKey(runSeed), hooks...)
		if err != nil {
			logrus.Fatalf("Simulation aborted: %v", err)
		}

		printReport(os.Stdout, report)
		if st != nil {
			printTraceSummary(os.Stdout, trace.Summarize(st))
		}
		if traceDB != "" {
			runID := trace.NewRunID()
			if err := trace.WriteSQLiteFile(context.Background(), traceDB, runID, st); err != nil {
				logrus.Fatalf("Failed to export trace: %v", err)
			}
			logrus.Infof("Trace of run %s written to %s (%d records)", runID, traceDB, len(st.Records))
		}

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	defaults := wellness.DefaultConfig()

	runCmd.Flags().Int64Var(&seed, "seed", 0, "Master seed for random streams (default: wall clock)")
	runCmd.Flags().Float64Var(&horizon, "horizon", defaults.Horizon, "Simulated time in minutes")
	runCmd.Flags().Float64Var(&leadTime, "lead-time", defaults.LeadTime, "Minutes before the horizon without new arrivals")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML scenario file; flags override its values")

	// Arrivals and capacities, with the short options of the original tool
	runCmd.Flags().Float64VarP(&peakMean, "peak-arrivals", "p", defaults.PeakMean(), "Mean minutes between arrivals during the peak")
	runCmd.Flags().Float64VarP(&normalMean, "normal-arrivals", "n", defaults.NormalMean(), "Mean minutes between arrivals before the peak")
	runCmd.Flags().IntVarP(&lockers, "lockers", "l", defaults.Capacities.Lockers, "Number of lockers")
	runCmd.Flags().IntVarP(&showers, "showers", "s", defaults.Capacities.Showers, "Number of showers")
	runCmd.Flags().IntVarP(&sauna, "sauna", "a", defaults.Capacities.Sauna, "Sauna capacity")
	runCmd.Flags().IntVarP(&pool, "pool", "b", defaults.Capacities.Pool, "Pool capacity")
	runCmd.Flags().IntVarP(&loungers, "loungers", "r", defaults.Capacities.Loungers, "Number of rest area loungers")

	// Tracing
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Trace level (none, resources, all)")
	runCmd.Flags().StringVar(&traceDB, "trace-db", "", "SQLite file receiving the action trace (implies --trace all unless set)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
