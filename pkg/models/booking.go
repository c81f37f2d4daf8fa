package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ChapterBooking is created outside the sync pipeline; the pipeline only
// aggregates paid bookings when recomputing remaining seats.
type ChapterBooking struct {
	bun.BaseModel `bun:"table:chapter_bookings,alias:cb"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	ChapterID int       `bun:",nullzero" json:"chapter_id"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type EventBooking struct {
	bun.BaseModel `bun:"table:event_bookings,alias:eb"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	EventID   string    `bun:",nullzero" json:"event_id"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
}
