// Package workload synthesizes and persists job pools: ordered lists of
// positive burst quanta that every dispatch run starts from.
package workload

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/cpu-sched-sim/cpu-sched-sim/sim"
)

const (
	DefaultPoolSize        = 5000
	DefaultLongProbability = 0.66
)

// Band is an inclusive-lower, exclusive-upper range of burst quanta.
// A band with Min == Max always yields Min.
type Band struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Sample draws floor(U*(Max-Min)) + Min for U uniform in [0, 1).
func (b Band) Sample(rng *rand.Rand) int {
	return int(rng.Float64()*float64(b.Max-b.Min)) + b.Min
}

func (b Band) validate(name string) error {
	if b.Min < 1 {
		return fmt.Errorf("%s band: min must be >= 1, got %d", name, b.Min)
	}
	if b.Max < b.Min {
		return fmt.Errorf("%s band: max %d is below min %d", name, b.Max, b.Min)
	}
	return nil
}

// Config describes a two-band workload.
type Config struct {
	PoolSize        int     `yaml:"pool_size"`
	LongProbability float64 `yaml:"long_probability"`
	ShortBand       Band    `yaml:"short_band"`
	LongBand        Band    `yaml:"long_band"`
}

// DefaultConfig returns the reference workload: 5000 jobs, two thirds of them
// drawn from the long band.
func DefaultConfig() Config {
	return Config{
		PoolSize:        DefaultPoolSize,
		LongProbability: DefaultLongProbability,
		ShortBand:       Band{Min: 1, Max: 125},
		LongBand:        Band{Min: 151, Max: 250},
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.PoolSize < 1 {
		errs = append(errs, fmt.Errorf("pool size must be >= 1, got %d", c.PoolSize))
	}
	if c.LongProbability < 0 || c.LongProbability > 1 {
		errs = append(errs, fmt.Errorf("long probability must be in [0, 1], got %g", c.LongProbability))
	}
	if err := c.ShortBand.validate("short"); err != nil {
		errs = append(errs, err)
	}
	if err := c.LongBand.validate("long"); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Generator draws burst quanta from the short or long band.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// NewGenerator returns a generator over cfg. Panics on an invalid config or nil rng.
func NewGenerator(cfg Config, rng *rand.Rand) *Generator {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("NewGenerator: %v", err))
	}
	if rng == nil {
		panic("NewGenerator: rng must not be nil")
	}
	return &Generator{cfg: cfg, rng: rng}
}

// Next returns one burst quantum. The band is picked first, then the quantum.
func (g *Generator) Next() int {
	band := g.cfg.ShortBand
	if g.rng.Float64() < g.cfg.LongProbability {
		band = g.cfg.LongBand
	}
	return band.Sample(g.rng)
}

// Pool returns n burst quanta in generation order.
func (g *Generator) Pool(n int) []int {
	jobs := make([]int, n)
	for i := range jobs {
		jobs[i] = g.Next()
	}
	return jobs
}

// GeneratePool builds cfg.PoolSize jobs from the workload subsystem of the
// simulation key, so the same seed always yields the same pool.
func GeneratePool(cfg Config, key sim.SimulationKey) ([]int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("workload config: %w", err)
	}
	rng := sim.NewPartitionedRNG(key).ForSubsystem(sim.SubsystemWorkload)
	jobs := NewGenerator(cfg, rng).Pool(cfg.PoolSize)
	logrus.Infof("generated job pool: %d jobs (seed=%d, long probability %.2f)", len(jobs), int64(key), cfg.LongProbability)
	return jobs, nil
}
