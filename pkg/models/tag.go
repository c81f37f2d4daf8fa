package models

import "github.com/uptrace/bun"

// Tag names are globally deduplicated by lowercase name before join tables
// are populated.
type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:tg"`

	ID   int    `bun:",pk,autoincrement" json:"id"`
	Name string `bun:",nullzero" json:"name"`
}
