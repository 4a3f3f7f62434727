package sink

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpu-sched-sim/cpu-sched-sim/sim"
)

func testStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(path)
	require.NoError(t, err, "open store")
	require.NoError(t, st.Migrate(context.Background()), "migrate")
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSQLiteStore_Migrate_Idempotent(t *testing.T) {
	st := testStore(t, ":memory:")
	assert.NoError(t, st.Migrate(context.Background()))
}

func TestSQLiteSink_StoresStepsAndHistogram(t *testing.T) {
	ctx := context.Background()
	st := testStore(t, ":memory:")

	// GIVEN a run with three steps and a histogram
	s, err := st.NewRun(ctx, sim.AlgorithmRR, 42)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.RunID(), "run_"))
	for i := 0; i < 3; i++ {
		require.NoError(t, s.RecordStep(sim.StepRecord{Step: i, Job: 25, Slice: 10, WaitTime: i, QueueSize: 11, TotalTime: 10 * i}))
	}
	hist := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}
	require.NoError(t, s.RecordHistogram(hist))

	// WHEN the sink is closed
	require.NoError(t, s.Close())

	// THEN the store holds exactly what was recorded
	n, err := st.StepCount(ctx, s.RunID())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	got, err := st.Histogram(ctx, s.RunID())
	require.NoError(t, err)
	assert.Equal(t, hist, got)

	var algorithm string
	var seed int64
	require.NoError(t, st.db.QueryRowContext(ctx, `SELECT algorithm, seed FROM runs WHERE id = ?`, s.RunID()).Scan(&algorithm, &seed))
	assert.Equal(t, "rr", algorithm)
	assert.Equal(t, int64(42), seed)

	var lower, upper int
	require.NoError(t, st.db.QueryRowContext(ctx,
		`SELECT lower, upper FROM histogram WHERE run_id = ? AND bucket = 0`, s.RunID()).Scan(&lower, &upper))
	assert.Equal(t, 2, lower)
	assert.Equal(t, 5, upper)
}

func TestSQLiteSink_DuplicateStep_Fails(t *testing.T) {
	st := testStore(t, ":memory:")
	s, err := st.NewRun(context.Background(), sim.AlgorithmFCFS, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.RecordStep(sim.StepRecord{Step: 0}))
	err = s.RecordStep(sim.StepRecord{Step: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert step 0")
}

func TestSQLiteStore_FileBacked_RunsAreSeparate(t *testing.T) {
	ctx := context.Background()
	st := testStore(t, filepath.Join(t.TempDir(), "metrics.db"))

	ids := make([]string, 0, 2)
	for _, alg := range []string{sim.AlgorithmFCFS, sim.AlgorithmMRR} {
		s, err := st.NewRun(ctx, alg, 7)
		require.NoError(t, err)
		require.NoError(t, s.RecordStep(sim.StepRecord{Step: 0}))
		require.NoError(t, s.Close())
		ids = append(ids, s.RunID())
	}

	assert.NotEqual(t, ids[0], ids[1])
	for _, id := range ids {
		n, err := st.StepCount(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}
}
