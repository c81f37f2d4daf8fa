package models

import "github.com/uptrace/bun"

type Legal struct {
	bun.BaseModel `bun:"table:legals,alias:lg"`

	ID string `bun:",pk,nullzero" json:"id"`

	SyncColumns

	Localized []*LegalLocalized `bun:"rel:has-many,join:id=legal_id" json:"localized,omitempty"`
}

type LegalLocalized struct {
	bun.BaseModel `bun:"table:legal_localized,alias:lgl"`

	LegalID    string `bun:",pk,nullzero" json:"legal_id"`
	Language   string `bun:",pk,nullzero" json:"language"`
	Title      string `bun:",nullzero" json:"title"`
	RawContent string `json:"raw_content"`

	SyncColumns
}
