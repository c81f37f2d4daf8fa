package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/errcodes"
)

// Filesystem stores objects as plain files under a root directory. It is the
// default backend for single-host deployments where the web server can serve
// the directory directly.
type Filesystem struct {
	root string
}

func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		return nil, errors.New("filesystem store requires a root directory")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.WithStack(err)
	}
	return &Filesystem{root: root}, nil
}

// resolve maps a key to a path under the root, rejecting traversal outside it.
func (f *Filesystem) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", errors.Errorf("invalid object key: %s", key)
	}
	return filepath.Join(f.root, cleaned), nil
}

func (f *Filesystem) Put(ctx context.Context, key string, data []byte, contentType string) error {
	path, err := f.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WithStack(err)
	}

	// Write through a temp file so readers never observe a partial object.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sync-*")
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.WithStack(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.WithStack(err)
	}
	return errors.WithStack(os.Rename(tmp.Name(), path))
}

func (f *Filesystem) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	path, err := f.resolve(key)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, errcodes.NotFound("Object")
	} else if err != nil {
		return nil, errors.WithStack(err)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &ObjectInfo{
		Key:         key,
		ContentType: mtype.String(),
		SizeBytes:   info.Size(),
	}, nil
}

func (f *Filesystem) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := f.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errcodes.NotFound("Object")
	} else if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}

func (f *Filesystem) Delete(ctx context.Context, key string) error {
	path, err := f.resolve(key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.WithStack(err)
	}
	return nil
}
