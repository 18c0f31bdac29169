package sim

import (
	"hash/fnv"
	"math/rand/v2"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce identical traces and statistics.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemArrivals is the stream for inter-arrival sampling.
	SubsystemArrivals = "arrivals"

	// SubsystemService is the stream for service, stay and travel durations.
	SubsystemService = "service"

	// SubsystemDecisions is the stream for branching draws (stay longer,
	// pool or shower).
	SubsystemDecisions = "decisions"
)

// pcgStream is the fixed PCG increment; only the state varies per subsystem.
const pcgStream = 0x9e3779b97f4a7c15

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName), used as the
// PCG state. Drawing from one subsystem never shifts another's sequence.
//
// Thread-safety: NOT thread-safe. Must be called from the goroutine that
// currently holds scheduler control.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
	variates   map[string]*Variates
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
		variates:   make(map[string]*Variates),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewPCG(uint64(derivedSeed), pcgStream))
	p.subsystems[name] = rng
	return rng
}

// Variates returns the variate source drawing from the named subsystem.
func (p *PartitionedRNG) Variates(name string) *Variates {
	if v, ok := p.variates[name]; ok {
		return v
	}
	v := NewVariates(p.ForSubsystem(name))
	p.variates[name] = v
	return v
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
