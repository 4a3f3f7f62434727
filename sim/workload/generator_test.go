package workload

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpu-sched-sim/cpu-sched-sim/sim"
)

func TestBand_Sample_StaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	band := Band{Min: 151, Max: 250}
	for i := 0; i < 10000; i++ {
		v := band.Sample(rng)
		require.GreaterOrEqual(t, v, 151)
		require.Less(t, v, 250, "upper bound is exclusive")
	}
}

func TestBand_Sample_Degenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Equal(t, 9, Band{Min: 9, Max: 9}.Sample(rng))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero pool", func(c *Config) { c.PoolSize = 0 }, "pool size"},
		{"probability above one", func(c *Config) { c.LongProbability = 1.5 }, "long probability"},
		{"negative probability", func(c *Config) { c.LongProbability = -0.1 }, "long probability"},
		{"short band min zero", func(c *Config) { c.ShortBand.Min = 0 }, "short band"},
		{"long band inverted", func(c *Config) { c.LongBand = Band{Min: 200, Max: 100} }, "long band"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerator_LongProbability_Extremes(t *testing.T) {
	// GIVEN a generator that always picks the long band
	cfg := DefaultConfig()
	cfg.LongProbability = 1
	g := NewGenerator(cfg, rand.New(rand.NewSource(3)))

	// THEN every job is long
	for _, v := range g.Pool(500) {
		assert.GreaterOrEqual(t, v, cfg.LongBand.Min)
	}

	// AND with probability 0 every job is short
	cfg.LongProbability = 0
	g = NewGenerator(cfg, rand.New(rand.NewSource(3)))
	for _, v := range g.Pool(500) {
		assert.Less(t, v, cfg.ShortBand.Max)
	}
}

func TestGenerator_LongFraction_ApproximatesProbability(t *testing.T) {
	cfg := DefaultConfig()
	g := NewGenerator(cfg, rand.New(rand.NewSource(42)))
	jobs := g.Pool(20000)

	long := 0
	for _, v := range jobs {
		if v >= cfg.LongBand.Min {
			long++
		}
	}
	frac := float64(long) / float64(len(jobs))
	assert.InDelta(t, cfg.LongProbability, frac, 0.02)
}

func TestNewGenerator_InvalidConfig_Panics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PoolSize = -1
	assert.Panics(t, func() { NewGenerator(cfg, rand.New(rand.NewSource(1))) })
	assert.Panics(t, func() { NewGenerator(DefaultConfig(), nil) })
}

func TestGeneratePool_Deterministic_SameSeedSameOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PoolSize = 300

	a, err := GeneratePool(cfg, sim.NewSimulationKey(99))
	require.NoError(t, err)
	b, err := GeneratePool(cfg, sim.NewSimulationKey(99))
	require.NoError(t, err)
	c, err := GeneratePool(cfg, sim.NewSimulationKey(100))
	require.NoError(t, err)

	assert.Len(t, a, 300)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGeneratePool_InvalidConfig_ReturnsError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShortBand = Band{}
	_, err := GeneratePool(cfg, sim.NewSimulationKey(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workload config")
}
