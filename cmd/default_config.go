package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cpu-sched-sim/cpu-sched-sim/sim"
	"github.com/cpu-sched-sim/cpu-sched-sim/sim/workload"
)

// SimulationSection is the `simulation` block of the config file.
type SimulationSection struct {
	ReadyCapacity     int  `yaml:"ready_capacity"`
	SteadyState       int  `yaml:"steady_state"`
	MinReadyJobs      int  `yaml:"min_ready_jobs"`
	ReplenishDrawSpan int  `yaml:"replenish_draw_span"`
	TimeSlice         int  `yaml:"time_slice"`
	BucketThreshold   int  `yaml:"bucket_threshold"`
	MaxSteps          int  `yaml:"max_steps"`
	RequeueRemainder  bool `yaml:"requeue_remainder"`
}

// Config represents the full config file structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Simulation SimulationSection `yaml:"simulation"`
	Workload   workload.Config   `yaml:"workload"`
}

// DefaultConfig returns the built-in configuration used when no file is given.
func DefaultConfig() Config {
	d := sim.DefaultDispatchConfig()
	return Config{
		Simulation: SimulationSection{
			ReadyCapacity:     d.ReadyCapacity,
			SteadyState:       d.SteadyState,
			MinReadyJobs:      d.MinReadyJobs,
			ReplenishDrawSpan: d.ReplenishDrawSpan,
			TimeSlice:         d.TimeSlice,
			BucketThreshold:   d.BucketThreshold,
			MaxSteps:          d.MaxSteps,
			RequeueRemainder:  d.RequeueRemainder,
		},
		Workload: workload.DefaultConfig(),
	}
}

// DispatchConfig converts the simulation section for the engine.
func (c Config) DispatchConfig() sim.DispatchConfig {
	s := c.Simulation
	return sim.DispatchConfig{
		ReadyCapacity:     s.ReadyCapacity,
		SteadyState:       s.SteadyState,
		MinReadyJobs:      s.MinReadyJobs,
		ReplenishDrawSpan: s.ReplenishDrawSpan,
		TimeSlice:         s.TimeSlice,
		BucketThreshold:   s.BucketThreshold,
		MaxSteps:          s.MaxSteps,
		RequeueRemainder:  s.RequeueRemainder,
	}
}

// Validate checks both sections.
func (c Config) Validate() error {
	var errs []error
	if err := c.DispatchConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("simulation: %w", err))
	}
	if err := c.Workload.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("workload: %w", err))
	}
	return errors.Join(errs...)
}

// parseConfig decodes data over the built-in defaults, so a file only needs
// the keys it changes. Unknown keys are errors (typos must not pass silently).
func parseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config YAML: %w", err)
	}
	return cfg, nil
}

// loadConfig reads the config file at path, or returns the defaults when
// path is empty.
func loadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := parseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
