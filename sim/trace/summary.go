package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalRecords   int
	UniqueProcess  int
	ActionCounts   map[string]int // action → count
	ResourceCounts map[string]int // resource → count of actions on it
	LastClock      float64
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ActionCounts:   make(map[string]int),
		ResourceCounts: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	procs := make(map[int64]bool)
	for _, r := range st.Records {
		summary.ActionCounts[r.Action]++
		if r.Resource != "" {
			summary.ResourceCounts[r.Resource]++
		}
		procs[r.ProcessID] = true
		if r.Clock > summary.LastClock {
			summary.LastClock = r.Clock
		}
	}
	summary.TotalRecords = len(st.Records)
	summary.UniqueProcess = len(procs)

	return summary
}
