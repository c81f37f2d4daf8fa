package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SyncedAsset tracks one binary asset mirrored to object storage. Assets are
// tracked separately from structured content and never roll back with it.
type SyncedAsset struct {
	bun.BaseModel `bun:"table:synced_assets,alias:sa"`

	Key         string    `bun:",pk,nullzero" json:"key"`
	Scope       string    `bun:",pk,nullzero" json:"scope"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	LastSync    time.Time `bun:",nullzero" json:"last_sync"`
}

const (
	AssetScopePublic  = "public"
	AssetScopePrivate = "private"
)
