package sink

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/cpu-sched-sim/cpu-sched-sim/sim"
)

// schema holds the DDL for the metrics store. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		algorithm  TEXT NOT NULL,
		seed       INTEGER NOT NULL,
		started_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS steps (
		run_id     TEXT NOT NULL REFERENCES runs(id),
		step       INTEGER NOT NULL,
		job        INTEGER NOT NULL,
		slice      INTEGER NOT NULL,
		wait_time  INTEGER NOT NULL,
		queue_size INTEGER NOT NULL,
		total_time INTEGER NOT NULL,
		PRIMARY KEY (run_id, step)
	)`,

	`CREATE TABLE IF NOT EXISTS histogram (
		run_id TEXT NOT NULL REFERENCES runs(id),
		bucket INTEGER NOT NULL,
		lower  INTEGER NOT NULL,
		upper  INTEGER NOT NULL,
		count  INTEGER NOT NULL,
		PRIMARY KEY (run_id, bucket)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_algorithm ON runs(algorithm)`,
}

// SQLiteStore persists dispatch runs in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// One connection: ":memory:" databases are per connection, and each run
	// writes inside a single transaction anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma fk %s: %w", dbPath, err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	logrus.Debugf("sqlite: migrating %d statements", len(schema))
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// NewRun registers a run and returns a sink that writes its steps and
// histogram in one transaction. The sink must be closed to commit.
func (s *SQLiteStore) NewRun(ctx context.Context, algorithm string, seed int64) (*SQLiteSink, error) {
	id := "run_" + uuid.New().String()
	started := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin run %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, algorithm, seed, started_at) VALUES (?, ?, ?, ?)`,
		id, algorithm, seed, started,
	); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("insert run %s: %w", id, err)
	}
	stepStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO steps (run_id, step, job, slice, wait_time, queue_size, total_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("prepare steps %s: %w", id, err)
	}
	logrus.Debugf("sqlite: run %s (%s, seed=%d) opened", id, algorithm, seed)
	return &SQLiteSink{ctx: ctx, id: id, tx: tx, stepStmt: stepStmt}, nil
}

// StepCount returns how many steps are stored for runID.
func (s *SQLiteStore) StepCount(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM steps WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

// Histogram returns the stored bucket counts of runID in bucket order.
func (s *SQLiteStore) Histogram(ctx context.Context, runID string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT count FROM histogram WHERE run_id = ? ORDER BY bucket`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var counts []int
	for rows.Next() {
		var c int
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// SQLiteSink is the sim.MetricsSink of one stored run.
type SQLiteSink struct {
	ctx      context.Context
	id       string
	tx       *sql.Tx
	stepStmt *sql.Stmt
}

var _ sim.MetricsSink = (*SQLiteSink)(nil)

// RunID returns the run's primary key.
func (s *SQLiteSink) RunID() string {
	return s.id
}

func (s *SQLiteSink) RecordStep(rec sim.StepRecord) error {
	if _, err := s.stepStmt.ExecContext(s.ctx,
		s.id, rec.Step, rec.Job, rec.Slice, rec.WaitTime, rec.QueueSize, rec.TotalTime,
	); err != nil {
		return fmt.Errorf("insert step %d of %s: %w", rec.Step, s.id, err)
	}
	return nil
}

func (s *SQLiteSink) RecordHistogram(counts []int) error {
	for i, c := range counts {
		lower, upper := sim.BucketBounds(i)
		if _, err := s.tx.ExecContext(s.ctx,
			`INSERT INTO histogram (run_id, bucket, lower, upper, count) VALUES (?, ?, ?, ?, ?)`,
			s.id, i, lower, upper, c,
		); err != nil {
			return fmt.Errorf("insert bucket %d of %s: %w", i, s.id, err)
		}
	}
	return nil
}

// Close commits everything recorded for the run.
func (s *SQLiteSink) Close() error {
	_ = s.stepStmt.Close()
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", s.id, err)
	}
	logrus.Debugf("sqlite: run %s committed", s.id)
	return nil
}
