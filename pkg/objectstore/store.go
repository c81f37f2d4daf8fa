package objectstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/config"
	"github.com/studyforge/studyforge/pkg/models"
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string
	ContentType string
	SizeBytes   int64
}

// Store is the destination for synced binary assets. Keys are repository
// relative paths. Put is an idempotent overwrite.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Head(ctx context.Context, key string) (*ObjectInfo, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Stores bundles the public and private asset destinations. The two scopes
// are always distinct backends or prefixes so private course material can
// never leak into the public bucket.
type Stores struct {
	Public  Store
	Private Store
}

// NewFromConfig builds the public and private stores for the configured
// backend.
func NewFromConfig(cfg *config.Config) (*Stores, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendFilesystem:
		public, err := NewFilesystem(cfg.PublicStorageDir)
		if err != nil {
			return nil, err
		}
		private, err := NewFilesystem(cfg.PrivateStorageDir)
		if err != nil {
			return nil, err
		}
		return &Stores{Public: public, Private: private}, nil
	case config.StorageBackendS3:
		client, err := newS3Client(cfg)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Public:  NewS3(client, cfg.S3PublicBucket),
			Private: NewS3(client, cfg.S3PrivateBucket),
		}, nil
	}
	return nil, errors.Errorf("unknown storage backend: %s", cfg.StorageBackend)
}

// ForScope returns the store matching an asset scope.
func (s *Stores) ForScope(scope string) Store {
	if scope == models.AssetScopePrivate {
		return s.Private
	}
	return s.Public
}
