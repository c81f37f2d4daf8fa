package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BCertEdition is one edition of the certification exam.
type BCertEdition struct {
	bun.BaseModel `bun:"table:bcert_editions,alias:bce"`

	ID              string     `bun:",pk,nullzero" json:"id"`
	Name            string     `bun:",nullzero" json:"name"`
	Date            *time.Time `json:"date"`
	Location        string     `json:"location"`
	DurationMinutes *int       `json:"duration_minutes"`
	MinScore        *int       `json:"min_score"`

	SyncColumns

	Results []*BCertResult `bun:"rel:has-many,join:id=edition_id" json:"results,omitempty"`
}

// BCertResult is one participant's result in an edition. The whole result set
// is replaced when the edition re-imports.
type BCertResult struct {
	bun.BaseModel `bun:"table:bcert_results,alias:bcr"`

	ID        int    `bun:",pk,autoincrement" json:"id"`
	EditionID string `bun:",nullzero" json:"edition_id"`
	Username  string `bun:",nullzero" json:"username"`
	Score     int    `json:"score"`
	Passed    bool   `json:"passed"`
}
