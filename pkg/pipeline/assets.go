package pipeline

import (
	"context"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/content"
	"github.com/studyforge/studyforge/pkg/models"
	"github.com/studyforge/studyforge/pkg/objectstore"
)

const thumbnailMaxWidth = 480

// reconcileAssets mirrors both asset sets to object storage. The two scopes
// run independently and record errors in their own buckets, so a broken
// private upload never blocks public assets (or vice versa), and neither
// blocks structured content.
func (svc *Service) reconcileAssets(ctx context.Context, run *Run, snapshot *content.Snapshot) {
	run.Report.PublicAssetErrors = svc.syncAssets(ctx, run, snapshot.PublicAssets, models.AssetScopePublic, svc.stores.Public)
	run.Report.PrivateAssetErrors = svc.syncAssets(ctx, run, snapshot.PrivateAssets, models.AssetScopePrivate, svc.stores.Private)
}

func (svc *Service) syncAssets(ctx context.Context, run *Run, assets []content.ChangedAsset, scope string, store objectstore.Store) []Issue {
	issues := []Issue{}

	for _, asset := range assets {
		if ctx.Err() != nil {
			issues = append(issues, Issue{Path: asset.Path, Message: ctx.Err().Error()})
			return issues
		}
		if err := svc.syncAsset(ctx, run, asset, scope, store); err != nil {
			issues = append(issues, Issue{Path: asset.Path, Message: err.Error()})
		}
	}

	// Stale rows are only reaped when this scope's pass was clean; a failed
	// upload would otherwise make its asset look stale and get deleted.
	if len(issues) == 0 {
		if err := svc.reapStaleAssets(ctx, run, scope, store); err != nil {
			issues = append(issues, Issue{Path: scope, Message: err.Error()})
		}
	}
	return issues
}

func (svc *Service) syncAsset(ctx context.Context, run *Run, asset content.ChangedAsset, scope string, store objectstore.Store) error {
	if asset.Kind == content.FileRemoved {
		if err := store.Delete(ctx, asset.Path); err != nil {
			return err
		}
		if scope == models.AssetScopePublic && isCertificatePDF(asset.Path) {
			if err := store.Delete(ctx, asset.Path+".thumb.jpg"); err != nil {
				return err
			}
		}
		_, err := svc.db.NewDelete().
			Model((*models.SyncedAsset)(nil)).
			Where("key = ? AND scope = ?", asset.Path, scope).
			Exec(ctx)
		return errors.WithStack(err)
	}

	contentType := mimetype.Detect(asset.Data).String()
	if err := store.Put(ctx, asset.Path, asset.Data, contentType); err != nil {
		return err
	}

	record := &models.SyncedAsset{
		Key:         asset.Path,
		Scope:       scope,
		ContentType: contentType,
		SizeBytes:   int64(len(asset.Data)),
		LastSync:    run.StartedAt,
	}
	_, err := svc.db.NewInsert().
		Model(record).
		On("CONFLICT (key, scope) DO UPDATE").
		Set("content_type = EXCLUDED.content_type").
		Set("size_bytes = EXCLUDED.size_bytes").
		Set("last_sync = EXCLUDED.last_sync").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	// Certificate PDFs get a first-page preview next to the original. A
	// failed render is a warning, never an asset error.
	if scope == models.AssetScopePublic && isCertificatePDF(asset.Path) {
		if err := svc.putThumbnail(ctx, asset, store); err != nil {
			run.Report.addWarning(asset.Path, errors.Wrap(err, "thumbnail generation failed"))
		}
	}
	return nil
}

func isCertificatePDF(path string) bool {
	return strings.HasPrefix(path, "bcertificates/") && strings.HasSuffix(strings.ToLower(path), ".pdf")
}

func (svc *Service) putThumbnail(ctx context.Context, asset content.ChangedAsset, store objectstore.Store) error {
	thumb, err := svc.thumbnailer.Thumbnail(asset.Data, thumbnailMaxWidth)
	if err != nil {
		return err
	}
	return store.Put(ctx, asset.Path+".thumb.jpg", thumb, "image/jpeg")
}

// reapStaleAssets removes tracked assets the snapshot no longer lists.
func (svc *Service) reapStaleAssets(ctx context.Context, run *Run, scope string, store objectstore.Store) error {
	var stale []*models.SyncedAsset
	err := svc.db.NewSelect().
		Model(&stale).
		Where("scope = ?", scope).
		Where("last_sync IS NULL OR last_sync < ?", run.StartedAt).
		Scan(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, asset := range stale {
		if err := store.Delete(ctx, asset.Key); err != nil {
			return err
		}
		if scope == models.AssetScopePublic && isCertificatePDF(asset.Key) {
			// The derived thumbnail goes with its source.
			if err := store.Delete(ctx, asset.Key+".thumb.jpg"); err != nil {
				return err
			}
		}
		_, err := svc.db.NewDelete().
			Model((*models.SyncedAsset)(nil)).
			Where("key = ? AND scope = ?", asset.Key, scope).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
