package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cpu-sched-sim/cpu-sched-sim/sim"
	"github.com/cpu-sched-sim/cpu-sched-sim/sim/workload"
)

var generateOut string // Destination of the generated job pool

// generateCmd writes a job pool file without running any algorithm.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a job pool file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		setLogLevel()
		n, err := generatePool(cmd, generateOut)
		if err != nil {
			logrus.Fatalf("Generating job pool: %v", err)
		}
		logrus.Infof("Wrote %d jobs to %s", n, generateOut)
	},
}

// generatePool builds the pool described by the config file and flags and
// writes it to path. Returns the number of jobs written.
func generatePool(cmd *cobra.Command, path string) (int, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return 0, err
	}
	if cmd.Flags().Changed("pool-size") {
		cfg.Workload.PoolSize = poolSize
	}
	if cmd.Flags().Changed("long-probability") {
		cfg.Workload.LongProbability = longProbability
	}
	jobs, err := workload.GeneratePool(cfg.Workload, sim.NewSimulationKey(seed))
	if err != nil {
		return 0, err
	}
	if err := workload.WritePool(path, jobs); err != nil {
		return 0, err
	}
	return len(jobs), nil
}

func init() {
	generateCmd.Flags().StringVar(&generateOut, "out", "job_pool.txt", "Destination file for the job pool")
	generateCmd.Flags().IntVar(&poolSize, "pool-size", workload.DefaultPoolSize, "Number of generated jobs")
	generateCmd.Flags().Float64Var(&longProbability, "long-probability", workload.DefaultLongProbability, "Probability that a generated job is drawn from the long band")
}
