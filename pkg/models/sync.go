package models

import "time"

// SyncColumns is the durable bookkeeping every synced entity carries across
// runs. LastUpdated is the max file mtime among the entity's source files,
// LastCommit the commit hash of that file, and LastSync the wall-clock
// timestamp of the run that last touched the row. Rows whose LastSync predates
// the current run are stale and eligible for reaping.
type SyncColumns struct {
	LastUpdated time.Time `bun:",nullzero" json:"last_updated"`
	LastCommit  string    `json:"last_commit"`
	LastSync    time.Time `bun:",nullzero" json:"last_sync"`
}

// SyncColumnNames are the column names of SyncColumns, in the order they
// should be overwritten by an upsert.
var SyncColumnNames = []string{"last_updated", "last_commit", "last_sync"}
