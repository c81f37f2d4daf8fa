package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/config"
	"github.com/studyforge/studyforge/pkg/content"
	"github.com/studyforge/studyforge/pkg/errcodes"
)

// Snapshotter produces the current state of the content repositories. How the
// repositories are cloned or pulled is outside the pipeline; it only consumes
// the resulting file listing.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*content.Snapshot, error)
}

// DirSnapshotter walks checked-out repository working trees on disk. Every
// run reports the full listing with kind "added"; idempotent upserts and the
// stale-row reaper make the distinction from "modified" irrelevant.
type DirSnapshotter struct {
	publicDir  string
	privateDir string
}

func NewDirSnapshotter(cfg *config.Config) *DirSnapshotter {
	return &DirSnapshotter{
		publicDir:  cfg.PublicRepoDir,
		privateDir: cfg.PrivateRepoDir,
	}
}

// structured file extensions; everything else is a binary asset.
func isStructuredFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml", ".md":
		return true
	}
	return false
}

func (s *DirSnapshotter) Snapshot(ctx context.Context) (*content.Snapshot, error) {
	if s.publicDir == "" {
		return nil, errcodes.MissingRepository()
	}

	snapshot := &content.Snapshot{
		PublicRepoDir:  s.publicDir,
		PrivateRepoDir: s.privateDir,
	}

	err := walkRepo(ctx, s.publicDir, func(relPath string, info fs.FileInfo, data []byte) {
		if isStructuredFile(relPath) {
			snapshot.Files = append(snapshot.Files, content.ChangedFile{
				Path: relPath,
				Kind: content.FileAdded,
				Data: data,
				Time: info.ModTime(),
			})
			return
		}
		snapshot.PublicAssets = append(snapshot.PublicAssets, content.ChangedAsset{
			Path: relPath,
			Kind: content.FileAdded,
			Data: data,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.privateDir != "" {
		err = walkRepo(ctx, s.privateDir, func(relPath string, info fs.FileInfo, data []byte) {
			snapshot.PrivateAssets = append(snapshot.PrivateAssets, content.ChangedAsset{
				Path: relPath,
				Kind: content.FileAdded,
				Data: data,
			})
		})
		if err != nil {
			return nil, err
		}
	}

	return snapshot, nil
}

func walkRepo(ctx context.Context, root string, visit func(relPath string, info fs.FileInfo, data []byte)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			// Dotdirs hold repository internals, never content.
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return errors.WithStack(err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.WithStack(err)
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return errors.WithStack(err)
		}
		visit(filepath.ToSlash(relPath), info, data)
		return nil
	})
}
