package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey is the master seed of a run. Equal keys and equal
// configuration give identical job pools and identical dispatch traces.
type SimulationKey int64

// NewSimulationKey wraps seed as a SimulationKey.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// SubsystemWorkload names the stream that generates the job pool. It is seeded
// with the master seed unchanged, so a pool file can be regenerated from --seed alone.
const SubsystemWorkload = "workload"

// SubsystemReplenish names the replenishment stream of one algorithm.
func SubsystemReplenish(algorithm string) string {
	return "replenish_" + algorithm
}

// PartitionedRNG hands out one independent random stream per named consumer.
// A stream's seed is the master seed XORed with the FNV-1a hash of its name,
// so draining one algorithm's stream never shifts another's and runs do not
// depend on which algorithms were selected or in which order they ran.
// Not safe for concurrent use.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates the stream set for key.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Later calls continue the same stream.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	rng, ok := p.streams[name]
	if !ok {
		rng = rand.New(rand.NewSource(p.seedFor(name)))
		p.streams[name] = rng
	}
	return rng
}

// Key returns the master seed.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func (p *PartitionedRNG) seedFor(name string) int64 {
	if name == SubsystemWorkload {
		return int64(p.key)
	}
	return int64(p.key) ^ nameHash(name)
}

func nameHash(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64())
}
