package models

import "github.com/uptrace/bun"

type Professor struct {
	bun.BaseModel `bun:"table:professors,alias:p"`

	ID               string  `bun:",pk,nullzero" json:"id"`
	Name             string  `bun:",nullzero" json:"name"`
	Company          *string `json:"company"`
	ContributorID    *string `json:"contributor_id"`
	LightningAddress *string `json:"lightning_address"`
	TwitterURL       *string `json:"twitter_url"`
	GithubURL        *string `json:"github_url"`
	NostrPubkey      *string `json:"nostr_pubkey"`
	WebsiteURL       *string `json:"website_url"`

	SyncColumns

	Localized []*ProfessorLocalized `bun:"rel:has-many,join:id=professor_id" json:"localized,omitempty"`
	Tags      []*Tag                `bun:"m2m:professor_tags,join:Professor=Tag" json:"tags,omitempty"`
}

type ProfessorLocalized struct {
	bun.BaseModel `bun:"table:professor_localized,alias:pl"`

	ProfessorID string `bun:",pk,nullzero" json:"professor_id"`
	Language    string `bun:",pk,nullzero" json:"language"`
	Bio         string `json:"bio"`
	ShortBio    string `json:"short_bio"`

	SyncColumns
}

type ProfessorTag struct {
	bun.BaseModel `bun:"table:professor_tags,alias:pt"`

	ProfessorID string     `bun:",pk,nullzero" json:"professor_id"`
	Professor   *Professor `bun:"rel:belongs-to,join:professor_id=id" json:"-"`
	TagID       int        `bun:",pk,nullzero" json:"tag_id"`
	Tag         *Tag       `bun:"rel:belongs-to,join:tag_id=id" json:"-"`
}
