package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyforge/studyforge/pkg/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// newTestConfig uses a temp file database so multiple connections share the
// same database, which is required to exercise lock contention.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 3,
		DatabaseConnectRetryDelay: 10 * time.Millisecond,
		DatabaseFilePath:          filepath.Join(t.TempDir(), "test.sqlite"),
		DatabaseMaxRetries:        5,
	}
}

func TestNewAppliesWALMode(t *testing.T) {
	t.Parallel()

	db, err := New(newTestConfig(t))
	require.NoError(t, err)
	defer db.Close()

	var mode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)
}

func TestCheckFTS5Support(t *testing.T) {
	t.Parallel()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	assert.NoError(t, CheckFTS5Support(db))
}

// TestConcurrentWrites verifies that concurrent writers complete without
// "database is locked" errors thanks to WAL mode, busy_timeout, and the retry
// connector. This is the access pattern of per-unit import transactions
// racing booking writes.
func TestConcurrentWrites(t *testing.T) {
	t.Parallel()

	db, err := New(newTestConfig(t))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE concurrency_test (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT NOT NULL,
		worker_id INTEGER NOT NULL
	)`)
	require.NoError(t, err)

	const numWorkers = 10
	const writesPerWorker = 25

	var wg sync.WaitGroup
	var errorCount atomic.Int32

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := 0; i < writesPerWorker; i++ {
				_, err := db.Exec(
					"INSERT INTO concurrency_test (value, worker_id) VALUES (?, ?)",
					fmt.Sprintf("worker-%d-write-%d", workerID, i),
					workerID,
				)
				if err != nil {
					errorCount.Add(1)
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, int32(0), errorCount.Load())

	count, err := db.NewSelect().Table("concurrency_test").Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, numWorkers*writesPerWorker, count)
}
