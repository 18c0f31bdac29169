package trace

// TraceLevel controls the verbosity of action tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelResources captures facility, pool and queue actions only.
	TraceLevelResources TraceLevel = "resources"
	// TraceLevelAll additionally captures activations, waits, passivations,
	// resumptions and terminations.
	TraceLevelAll TraceLevel = "all"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelResources: true,
	TraceLevelAll:       true,
	"":                  true, // empty defaults to none
}

// resourceActions are the actions kept at TraceLevelResources.
var resourceActions = map[string]bool{
	"seize":   true,
	"queue":   true,
	"release": true,
	"enter":   true,
	"leave":   true,
	"insert":  true,
	"pop":     true,
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects action records during a simulation.
type SimulationTrace struct {
	Config  TraceConfig
	Records []Record
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:  config,
		Records: make([]Record, 0),
	}
}

// Accepts reports whether an action is recorded at the configured level.
func (st *SimulationTrace) Accepts(action string) bool {
	switch st.Config.Level {
	case TraceLevelAll:
		return true
	case TraceLevelResources:
		return resourceActions[action]
	default:
		return false
	}
}

// Record appends a record if its action is accepted, numbering it.
func (st *SimulationTrace) Record(r Record) {
	if !st.Accepts(r.Action) {
		return
	}
	r.Seq = int64(len(st.Records)) + 1
	st.Records = append(st.Records, r)
}

// Keys returns the comparable tuples of every record, in order.
func (st *SimulationTrace) Keys() []Key {
	keys := make([]Key, len(st.Records))
	for i, r := range st.Records {
		keys[i] = r.Key()
	}
	return keys
}
