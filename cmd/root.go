package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cpu-sched-sim/cpu-sched-sim/sim"
	"github.com/cpu-sched-sim/cpu-sched-sim/sim/report"
	"github.com/cpu-sched-sim/cpu-sched-sim/sim/sink"
	"github.com/cpu-sched-sim/cpu-sched-sim/sim/workload"
)

var (
	configPath       string        // Optional YAML config file
	logLevel         string        // Log verbosity level
	seed             int64         // Seed for the job pool and replenishment draws
	algorithms       []string      // Algorithms to run, in order
	outputDir        string        // Directory for the per-algorithm flat files
	jobPoolPath      string        // Read the job pool from this file instead of generating it
	writeJobPoolPath string        // Persist the job pool used for the run
	sqlitePath       string        // Optional SQLite metrics store
	htmlPath         string        // Optional HTML chart page
	tick             time.Duration // Wall-clock pause per simulated quantum
	maxSteps         int           // Step horizon per algorithm (0 = none)
	requeueRemainder bool          // RR/MHRR re-enqueue unexecuted remainders
	poolSize         int           // Number of generated jobs
	longProbability  float64       // Probability of drawing from the long band
)

// runOptions is everything one invocation of the simulator needs.
type runOptions struct {
	Config       Config
	Seed         int64
	Algorithms   []string
	OutputDir    string
	JobPoolPath  string
	WriteJobPool string
	SQLitePath   string
	HTMLPath     string
	Tick         time.Duration
}

// rootCmd runs every algorithm when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "cpu-sched-sim",
	Short: "CPU scheduling simulator comparing FCFS, RR, MRR and MHRR",
	Args:  cobra.NoArgs,
	Run:   runSimulation,
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduling simulation",
	Args:  cobra.NoArgs,
	Run:   runSimulation,
}

func runSimulation(cmd *cobra.Command, _ []string) {
	setLogLevel()

	opts, err := buildOptions(cmd)
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	startTime := time.Now()
	results, err := simulate(cmd.Context(), opts, cmd.OutOrStdout())
	if err != nil {
		logrus.Fatalf("Simulation aborted: %v", err)
	}
	logrus.Infof("Simulation complete: %d algorithms in %s", len(results), time.Since(startTime).Round(time.Millisecond))
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// buildOptions loads the config file and applies only the flags the user set
// explicitly, so file values are never overwritten by flag defaults.
func buildOptions(cmd *cobra.Command) (runOptions, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return runOptions{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("max-steps") {
		cfg.Simulation.MaxSteps = maxSteps
	}
	if flags.Changed("requeue-remainder") {
		cfg.Simulation.RequeueRemainder = requeueRemainder
	}
	if flags.Changed("pool-size") {
		cfg.Workload.PoolSize = poolSize
	}
	if flags.Changed("long-probability") {
		cfg.Workload.LongProbability = longProbability
	}
	if err := cfg.Validate(); err != nil {
		return runOptions{}, err
	}

	algs, err := sim.ParseAlgorithms(algorithms)
	if err != nil {
		return runOptions{}, err
	}
	return runOptions{
		Config:       cfg,
		Seed:         seed,
		Algorithms:   algs,
		OutputDir:    outputDir,
		JobPoolPath:  jobPoolPath,
		WriteJobPool: writeJobPoolPath,
		SQLitePath:   sqlitePath,
		HTMLPath:     htmlPath,
		Tick:         tick,
	}, nil
}

// loadJobs reads the pool file when one is given and generates the pool otherwise.
func loadJobs(opts runOptions) ([]int, error) {
	var jobs []int
	var err error
	if opts.JobPoolPath != "" {
		jobs, err = workload.ReadPool(opts.JobPoolPath)
		if err != nil {
			return nil, err
		}
		logrus.Infof("Loaded %d jobs from %s", len(jobs), opts.JobPoolPath)
	} else {
		jobs, err = workload.GeneratePool(opts.Config.Workload, sim.NewSimulationKey(opts.Seed))
		if err != nil {
			return nil, err
		}
	}
	if opts.WriteJobPool != "" {
		if err := workload.WritePool(opts.WriteJobPool, jobs); err != nil {
			return nil, err
		}
		logrus.Infof("Wrote job pool to %s", opts.WriteJobPool)
	}
	return jobs, nil
}

// openFileSinks acquires the flat-file outputs of every algorithm before any
// engine runs.
func openFileSinks(opts runOptions) (map[string]*sink.FileSink, error) {
	opened := make(map[string]*sink.FileSink, len(opts.Algorithms))
	for _, alg := range opts.Algorithms {
		fs, err := sink.NewFileSink(opts.OutputDir, sink.Prefix(alg))
		if err != nil {
			for _, o := range opened {
				_ = o.Close()
			}
			return nil, err
		}
		opened[alg] = fs
	}
	return opened, nil
}

// runSinks attaches the SQLite run, when a store is configured, to the
// algorithm's file sink. A store holds one open run at a time.
func runSinks(ctx context.Context, alg string, seed int64, fs *sink.FileSink, store *sink.SQLiteStore) (sim.MetricsSink, sink.Closer, error) {
	closer := sink.Closer{fs.Close}
	if store == nil {
		return fs, closer, nil
	}
	ss, err := store.NewRun(ctx, alg, seed)
	if err != nil {
		return nil, nil, errors.Join(err, closer.Close())
	}
	return sink.Multi{fs, ss}, append(closer, ss.Close), nil
}

// simulate runs every selected algorithm over the same job pool, one after
// another, and writes the comparison report to out.
func simulate(ctx context.Context, opts runOptions, out io.Writer) ([]*sim.RunResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	jobs, err := loadJobs(opts)
	if err != nil {
		return nil, err
	}

	var store *sink.SQLiteStore
	if opts.SQLitePath != "" {
		store, err = sink.NewSQLiteStore(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", opts.SQLitePath, err)
		}
	}

	files, err := openFileSinks(opts)
	if err != nil {
		return nil, err
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(opts.Seed))
	pacer := sim.NewPacer(opts.Tick)
	dispatch := opts.Config.DispatchConfig()

	results := make([]*sim.RunResult, 0, len(opts.Algorithms))
	var runErr error
	for _, alg := range opts.Algorithms {
		if runErr != nil {
			_ = files[alg].Close()
			continue
		}
		metrics, closer, err := runSinks(ctx, alg, opts.Seed, files[alg], store)
		if err != nil {
			runErr = err
			continue
		}
		logrus.Infof("Starting %s", sink.Prefix(alg))
		s := sim.NewSimulator(dispatch, sim.NewDispatchPolicy(alg), jobs,
			rng.ForSubsystem(sim.SubsystemReplenish(alg)), metrics, pacer)
		res, err := s.Run()
		closeErr := closer.Close()

		switch {
		case errors.Is(err, sim.ErrHorizonReached):
			logrus.Warnf("%v; histogram %v is incomplete", err, res.Histogram)
		case err != nil:
			runErr = err
			continue
		}
		if closeErr != nil {
			runErr = fmt.Errorf("%s: closing outputs: %w", alg, closeErr)
			continue
		}
		logrus.Infof("Finished %s: %s", sink.Prefix(alg), res)
		results = append(results, res)
	}
	if runErr != nil {
		return results, runErr
	}

	summaries := report.SummarizeAll(results)
	report.WriteTable(out, summaries)
	report.WriteHistogramTable(out, summaries)
	if opts.HTMLPath != "" {
		if err := report.SaveHTML(opts.HTMLPath, results); err != nil {
			return results, err
		}
		logrus.Infof("Wrote chart page to %s", opts.HTMLPath)
	}
	return results, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file (defaults apply to omitted keys)")
	flags.StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	flags.Int64Var(&seed, "seed", 42, "Seed for job pool generation and replenishment draws")

	runFlags := []*cobra.Command{rootCmd, runCmd}
	for _, c := range runFlags {
		c.Flags().StringSliceVar(&algorithms, "algorithms", nil, "Comma-separated algorithms to run (fcfs, rr, mrr, mhrr); empty runs all")
		c.Flags().StringVar(&outputDir, "output-dir", ".", "Directory for the per-algorithm metric files")
		c.Flags().StringVar(&jobPoolPath, "job-pool", "", "Read the job pool from this file instead of generating it")
		c.Flags().StringVar(&writeJobPoolPath, "write-job-pool", "", "Write the job pool used for this run to a file")
		c.Flags().StringVar(&sqlitePath, "sqlite", "", "Also store runs in this SQLite database")
		c.Flags().StringVar(&htmlPath, "html", "", "Write an HTML chart page comparing the runs")
		c.Flags().DurationVar(&tick, "tick", 0, "Wall-clock pause per simulated quantum (0 disables)")
		c.Flags().IntVar(&maxSteps, "max-steps", 0, "Stop each algorithm after this many steps (0 = until sampling completes)")
		c.Flags().BoolVar(&requeueRemainder, "requeue-remainder", false, "RR/MHRR re-enqueue the unexecuted remainder")
		c.Flags().IntVar(&poolSize, "pool-size", workload.DefaultPoolSize, "Number of generated jobs")
		c.Flags().Float64Var(&longProbability, "long-probability", workload.DefaultLongProbability, "Probability that a generated job is drawn from the long band")
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(generateCmd)
}
