package trace

import "testing"

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalRecords != 0 || summary.UniqueProcess != 0 {
		t.Errorf("expected zero counts, got %+v", summary)
	}
	if summary.ActionCounts == nil || summary.ResourceCounts == nil {
		t.Error("expected non-nil maps")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with two processes using two resources
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelAll})
	st.Record(Record{ProcessID: 1, Clock: 0, Action: "seize", Resource: "reception"})
	st.Record(Record{ProcessID: 2, Clock: 1, Action: "queue", Resource: "reception"})
	st.Record(Record{ProcessID: 1, Clock: 3, Action: "wait"})
	st.Record(Record{ProcessID: 1, Clock: 5, Action: "release", Resource: "reception"})
	st.Record(Record{ProcessID: 2, Clock: 5, Action: "enter", Resource: "lockers"})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match the records
	if summary.TotalRecords != 5 {
		t.Errorf("expected 5 records, got %d", summary.TotalRecords)
	}
	if summary.UniqueProcess != 2 {
		t.Errorf("expected 2 processes, got %d", summary.UniqueProcess)
	}
	if summary.ResourceCounts["reception"] != 3 || summary.ResourceCounts["lockers"] != 1 {
		t.Errorf("unexpected resource counts %v", summary.ResourceCounts)
	}
	if summary.ActionCounts["wait"] != 1 {
		t.Errorf("expected 1 wait, got %d", summary.ActionCounts["wait"])
	}
	if summary.LastClock != 5 {
		t.Errorf("expected last clock 5, got %v", summary.LastClock)
	}
}
