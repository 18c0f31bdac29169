package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/wellness-sim/wellness-sim/sim/stats"
	"github.com/wellness-sim/wellness-sim/sim/trace"
	"github.com/wellness-sim/wellness-sim/sim/wellness"
)

// printReport writes the end-of-run statistics in the order the facility is
// visited.
func printReport(w io.Writer, r wellness.Report) {
	fmt.Fprintln(w, "=== Simulation Report ===")
	fmt.Fprintf(w, "Simulated time       : %.2f min\n", r.Clock)
	fmt.Fprintf(w, "Events fired         : %d\n", r.EventsFired)
	fmt.Fprintf(w, "Customers in         : %d\n", r.CustomersIn)
	fmt.Fprintf(w, "Customers out        : %d\n", r.CustomersOut)
	fmt.Fprintf(w, "Still inside         : %d\n", r.InSystem())

	for _, f := range r.Facilities {
		fmt.Fprintf(w, "\n--- Facility %s ---\n", f.Name)
		fmt.Fprintf(w, "Requests             : %d\n", f.Requests)
		fmt.Fprintf(w, "Utilization          : %.4f\n", f.Utilization)
		fmt.Fprintf(w, "Avg queue length     : %.4f (max %.0f)\n", f.Queue.Mean, f.Queue.Max)
		printStat(w, f.QueueWait)
	}
	for _, p := range r.Pools {
		fmt.Fprintf(w, "\n--- Store %s (capacity %d) ---\n", p.Name, p.Capacity)
		fmt.Fprintf(w, "Entries              : %d\n", p.Entries)
		fmt.Fprintf(w, "Utilization          : %.4f\n", p.Utilization)
		fmt.Fprintf(w, "Avg occupancy        : %.4f (peak %d, now %d)\n", p.Occupancy.Mean, p.Peak, p.Occupied)
	}
	for _, q := range r.Queues {
		fmt.Fprintf(w, "\n--- Queue %s ---\n", q.Name)
		fmt.Fprintf(w, "Inserted             : %d\n", q.Inserted)
		fmt.Fprintf(w, "Avg length           : %.4f (max %.0f)\n", q.Length.Mean, q.Length.Max)
		printStat(w, q.Wait)
	}
	for _, h := range r.Histograms {
		printHistogram(w, h)
	}
	fmt.Fprintln(w)
	for _, s := range r.Stats {
		printStat(w, s)
	}
}

func printStat(w io.Writer, s stats.StatSnapshot) {
	if s.Count == 0 {
		fmt.Fprintf(w, "%-20s : no data\n", s.Name)
		return
	}
	fmt.Fprintf(w, "%-20s : n=%d mean=%.4f sd=%.4f min=%.4f max=%.4f\n",
		s.Name, s.Count, s.Mean, s.StdDev, s.Min, s.Max)
}

func printHistogram(w io.Writer, h stats.HistogramSnapshot) {
	fmt.Fprintf(w, "\n--- Histogram %s ---\n", h.Name)
	if h.Underflow > 0 {
		fmt.Fprintf(w, "      < %7.1f : %d\n", h.Low, h.Underflow)
	}
	for _, b := range h.Buckets {
		fmt.Fprintf(w, "[%7.1f, %7.1f) : %d\n", b.From, b.To, b.Count)
	}
	if h.Overflow > 0 {
		last := h.Low + h.Step*float64(len(h.Buckets))
		fmt.Fprintf(w, "     >= %7.1f : %d\n", last, h.Overflow)
	}
}

// printTraceSummary writes the per-action counts of a trace.
func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	fmt.Fprintln(w, "\n=== Trace Summary ===")
	fmt.Fprintf(w, "Records              : %d\n", s.TotalRecords)
	fmt.Fprintf(w, "Processes            : %d\n", s.UniqueProcess)
	actions := make([]string, 0, len(s.ActionCounts))
	for a := range s.ActionCounts {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	for _, a := range actions {
		fmt.Fprintf(w, "  %-18s : %d\n", a, s.ActionCounts[a])
	}
}
