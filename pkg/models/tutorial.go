package models

import "github.com/uptrace/bun"

type Tutorial struct {
	bun.BaseModel `bun:"table:tutorials,alias:t"`

	ID               string  `bun:",pk,nullzero" json:"id"`
	Path             string  `bun:",nullzero" json:"path"`
	Category         string  `bun:",nullzero" json:"category"`
	Name             string  `bun:",nullzero" json:"name"`
	Level            string  `bun:",nullzero" json:"level"`
	OriginalLanguage *string `json:"original_language"`
	BuilderName      *string `json:"builder_name"`

	SyncColumns

	Localized  []*TutorialLocalized `bun:"rel:has-many,join:id=tutorial_id" json:"localized,omitempty"`
	Credits    []*TutorialCredit    `bun:"rel:has-many,join:id=tutorial_id" json:"credits,omitempty"`
	Proofreads []*TutorialProofread `bun:"rel:has-many,join:id=tutorial_id" json:"proofreads,omitempty"`
	Tags       []*Tag               `bun:"m2m:tutorial_tags,join:Tutorial=Tag" json:"tags,omitempty"`
}

type TutorialLocalized struct {
	bun.BaseModel `bun:"table:tutorial_localized,alias:tl"`

	TutorialID  string `bun:",pk,nullzero" json:"tutorial_id"`
	Language    string `bun:",pk,nullzero" json:"language"`
	Title       string `bun:",nullzero" json:"title"`
	Description string `json:"description"`
	RawContent  string `json:"raw_content"`

	SyncColumns
}

// TutorialCredit attributes a tutorial to an author. The credit can point at a
// professor by declared id or carry a free-form name with optional tip info.
type TutorialCredit struct {
	bun.BaseModel `bun:"table:tutorial_credits,alias:tc"`

	ID               int     `bun:",pk,autoincrement" json:"id"`
	TutorialID       string  `bun:",nullzero" json:"tutorial_id"`
	ProfessorID      *string `json:"professor_id"`
	Name             *string `json:"name"`
	Link             *string `json:"link"`
	LightningAddress *string `json:"lightning_address"`
}

// TutorialProofread records a proofreading contributor for one language
// variant of a tutorial.
type TutorialProofread struct {
	bun.BaseModel `bun:"table:tutorial_proofreads,alias:tp"`

	ID          int    `bun:",pk,autoincrement" json:"id"`
	TutorialID  string `bun:",nullzero" json:"tutorial_id"`
	Language    string `bun:",nullzero" json:"language"`
	Contributor string `bun:",nullzero" json:"contributor"`
}

type TutorialTag struct {
	bun.BaseModel `bun:"table:tutorial_tags,alias:tt"`

	TutorialID string    `bun:",pk,nullzero" json:"tutorial_id"`
	Tutorial   *Tutorial `bun:"rel:belongs-to,join:tutorial_id=id" json:"-"`
	TagID      int       `bun:",pk,nullzero" json:"tag_id"`
	Tag        *Tag      `bun:"rel:belongs-to,join:tag_id=id" json:"-"`
}
