// Package sim provides the CPU dispatch simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - queue.go: the bounded circular ready queue and the clamped Transfer
//   - waittable.go: position-indexed wait-time and MRR tracker tables
//   - simulator.go: the run loop, the logical clock and step recording
//
// # Architecture
//
// A Simulator owns one (ready, pool) queue pair built from a private copy of
// the job pool. Each step it asks its DispatchPolicy to dispatch the head job;
// the policy decides the slice, updates the wait-time table, re-enqueues a
// remainder when its discipline calls for it, and lets the Replenisher top the
// ready queue up from the pool. Every dispatched burst is classified by the
// BucketSampler, which ends the run once each of its 13 buckets holds
// BucketThreshold samples.
//
// Implementations of the outer surfaces live in sub-packages:
//   - sim/workload/: two-band job pool generation and pool files
//   - sim/sink/: MetricsSink implementations (flat files, SQLite, fan-out)
//   - sim/report/: summary statistics, console tables and chart pages
//
// # Key Interfaces
//
//   - DispatchPolicy: one dispatch step of FCFS, RR, MHRR or MRR
//   - MetricsSink: receives StepRecords and the final histogram
//   - Pacer: optional wall-clock pause per simulated quantum
//   - IntSource: the replenishment draw, satisfied by *rand.Rand
//
// # Determinism
//
// All randomness flows from a SimulationKey through PartitionedRNG. The job
// pool uses the workload subsystem; each algorithm's replenishment draws use
// its own subsystem, so runs are independent of each other and of run order.
package sim
