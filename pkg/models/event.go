package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID             string     `bun:",pk,nullzero" json:"id"`
	Name           string     `bun:",nullzero" json:"name"`
	Type           string     `bun:",nullzero" json:"type"`
	Description    string     `json:"description"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Timezone       *string    `json:"timezone"`
	PriceDollars   *int       `json:"price_dollars"`
	AvailableSeats *int       `json:"available_seats"`
	RemainingSeats *int       `json:"remaining_seats"`
	IsOnline       bool       `json:"is_online"`
	IsInPerson     bool       `json:"is_in_person"`
	Address        *string    `json:"address"`
	PlaceID        *string    `json:"place_id"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	WebsiteURL     *string    `json:"website_url"`
	ReplayURL      *string    `json:"replay_url"`

	SyncColumns

	Languages []*EventLanguage `bun:"rel:has-many,join:id=event_id" json:"languages,omitempty"`
}

// EventLanguage records that an event is available in a language. The set is
// replaced wholesale on every import of the event.
type EventLanguage struct {
	bun.BaseModel `bun:"table:event_languages,alias:el"`

	EventID  string `bun:",pk,nullzero" json:"event_id"`
	Language string `bun:",pk,nullzero" json:"language"`
}
