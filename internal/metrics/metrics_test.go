package metrics

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"codeberg.org/mutker/dpmsctl/internal/logger"
	"codeberg.org/mutker/dpmsctl/internal/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig(filepath.Join(t.TempDir(), "history", "history.db"))
	cfg.Enabled = true
	cfg.BatchTimeout = 0
	return cfg
}

func openDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func countTicks(t *testing.T, path string) int {
	t.Helper()
	var n int
	require.NoError(t, openDB(t, path).QueryRow("SELECT COUNT(*) FROM ticks").Scan(&n))
	return n
}

func status(state monitor.State, transition monitor.Transition) monitor.Status {
	return monitor.Status{
		Time:       time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		Session:    "5f0c7a8e-7c0e-4d59-9d59-3f2b7f1d8a10",
		Idle:       65 * time.Second,
		Audio:      false,
		State:      state,
		Transition: transition,
		Timeout:    time.Minute,
	}
}

func TestDisabledIsNoop(t *testing.T) {
	cfg := DefaultConfig("")
	c, err := NewService(cfg, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, c.Record(context.Background(), FromStatus(status(monitor.Active, monitor.NoTransition))))
	require.NoError(t, c.Close())
}

func TestEnabledRequiresDBPath(t *testing.T) {
	cfg := DefaultConfig("")
	cfg.Enabled = true

	_, err := NewService(cfg, logger.Nop())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrInvalidDBPath))
}

func TestFromStatus(t *testing.T) {
	s := FromStatus(status(monitor.Blanked, monitor.PowerOff))

	assert.Equal(t, "blanked", s.State)
	assert.Equal(t, "power_off", s.Transition)
	assert.Equal(t, 65*time.Second, s.Idle)
	assert.Equal(t, time.Minute, s.Timeout)
	assert.NotEmpty(t, s.Session)
}

func TestRecordFlushesByBatchSize(t *testing.T) {
	cfg := testConfig(t)
	cfg.BatchSize = 2

	c, err := NewService(cfg, logger.Nop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Record(ctx, FromStatus(status(monitor.Active, monitor.NoTransition))))
	assert.Equal(t, 0, countTicks(t, cfg.DBPath))

	require.NoError(t, c.Record(ctx, FromStatus(status(monitor.Blanked, monitor.PowerOff))))
	assert.Equal(t, 2, countTicks(t, cfg.DBPath))

	require.NoError(t, c.Close())
}

func TestCloseFlushesPending(t *testing.T) {
	cfg := testConfig(t)

	c, err := NewService(cfg, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, c.Record(context.Background(), FromStatus(status(monitor.Blanked, monitor.PowerOff))))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	db := openDB(t, cfg.DBPath)
	var (
		idleMs     int64
		audio      int
		state      string
		transition string
		timeoutMs  int64
	)
	require.NoError(t, db.QueryRow(
		"SELECT idle_ms, audio, state, transition, timeout_ms FROM ticks",
	).Scan(&idleMs, &audio, &state, &transition, &timeoutMs))

	assert.Equal(t, int64(65000), idleMs)
	assert.Equal(t, 0, audio)
	assert.Equal(t, "blanked", state)
	assert.Equal(t, "power_off", transition)
	assert.Equal(t, int64(60000), timeoutMs)

	err = c.Record(context.Background(), FromStatus(status(monitor.Active, monitor.NoTransition)))
	assert.True(t, errors.HasCode(err, ErrCollectorClosed))
}

func TestBatchTimeoutFlushes(t *testing.T) {
	cfg := testConfig(t)
	cfg.BatchTimeout = 20 * time.Millisecond

	c, err := NewService(cfg, logger.Nop())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Record(context.Background(), FromStatus(status(monitor.Active, monitor.NoTransition))))

	assert.Eventually(t, func() bool {
		return countTicks(t, cfg.DBPath) == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRecordRejectsInvalidSnapshots(t *testing.T) {
	cfg := testConfig(t)
	c, err := NewService(cfg, logger.Nop())
	require.NoError(t, err)
	defer c.Close()

	err = c.Record(context.Background(), nil)
	assert.True(t, errors.HasCode(err, ErrInvalidMetrics))

	err = c.Record(context.Background(), FromStatus(status(monitor.State(7), monitor.NoTransition)))
	assert.True(t, errors.HasCode(err, ErrInvalidMetrics))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = c.Record(ctx, FromStatus(status(monitor.Active, monitor.NoTransition)))
	assert.True(t, errors.HasCode(err, ErrOperationTimeout))
}

func TestSchemaMismatchBacksUpAndRecreates(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755))

	old := openDB(t, cfg.DBPath)
	_, err := old.Exec(`
		CREATE TABLE schema_versions (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL);
		INSERT INTO schema_versions VALUES (99, datetime('now'));
		CREATE TABLE ticks (timestamp INTEGER PRIMARY KEY);`)
	require.NoError(t, err)
	require.NoError(t, old.Close())

	c, err := NewService(cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, c.Close())

	version, err := GetSchemaVersion(openDB(t, cfg.DBPath))
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)

	backups, err := filepath.Glob(filepath.Join(backupDir(cfg.DBPath), "history_v99_*.db"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestObserverRecords(t *testing.T) {
	cfg := testConfig(t)
	c, err := NewService(cfg, logger.Nop())
	require.NoError(t, err)

	observe := Observer(context.Background(), c, logger.Nop())
	observe(status(monitor.Active, monitor.NoTransition))
	observe(status(monitor.Blanked, monitor.PowerOff))
	require.NoError(t, c.Close())

	assert.Equal(t, 2, countTicks(t, cfg.DBPath))
}
