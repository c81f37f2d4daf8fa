package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Blog struct {
	bun.BaseModel `bun:"table:blogs,alias:bl"`

	ID       string     `bun:",pk,nullzero" json:"id"`
	Author   string     `bun:",nullzero" json:"author"`
	Category *string    `json:"category"`
	Date     *time.Time `json:"date"`

	SyncColumns

	Localized []*BlogLocalized `bun:"rel:has-many,join:id=blog_id" json:"localized,omitempty"`
	Tags      []*Tag           `bun:"m2m:blog_tags,join:Blog=Tag" json:"tags,omitempty"`
}

type BlogLocalized struct {
	bun.BaseModel `bun:"table:blog_localized,alias:bll"`

	BlogID      string `bun:",pk,nullzero" json:"blog_id"`
	Language    string `bun:",pk,nullzero" json:"language"`
	Title       string `bun:",nullzero" json:"title"`
	Description string `json:"description"`
	RawContent  string `json:"raw_content"`

	SyncColumns
}

type BlogTag struct {
	bun.BaseModel `bun:"table:blog_tags,alias:blt"`

	BlogID string `bun:",pk,nullzero" json:"blog_id"`
	Blog   *Blog  `bun:"rel:belongs-to,join:blog_id=id" json:"-"`
	TagID  int    `bun:",pk,nullzero" json:"tag_id"`
	Tag    *Tag   `bun:"rel:belongs-to,join:tag_id=id" json:"-"`
}
