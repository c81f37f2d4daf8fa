package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyforge/studyforge/pkg/config"
	"github.com/studyforge/studyforge/pkg/errcodes"
)

func TestFilesystemPutHeadGetDelete(t *testing.T) {
	t.Parallel()

	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte("%PDF-1.4 fake pdf content")
	err = store.Put(ctx, "courses/btc101/assets/slides.pdf", data, "application/pdf")
	require.NoError(t, err)

	info, err := store.Head(ctx, "courses/btc101/assets/slides.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), info.SizeBytes)

	got, err := store.Get(ctx, "courses/btc101/assets/slides.pdf")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	err = store.Delete(ctx, "courses/btc101/assets/slides.pdf")
	require.NoError(t, err)

	_, err = store.Head(ctx, "courses/btc101/assets/slides.pdf")
	assert.ErrorIs(t, err, errcodes.NotFound("Object"))
}

func TestFilesystemPutOverwrites(t *testing.T) {
	t.Parallel()

	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a/b.txt", []byte("one"), "text/plain"))
	require.NoError(t, store.Put(ctx, "a/b.txt", []byte("two"), "text/plain"))

	got, err := store.Get(ctx, "a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := NewFilesystem(filepath.Join(root, "objects"))
	require.NoError(t, err)
	ctx := context.Background()

	err = store.Put(ctx, "../escape.txt", []byte("nope"), "text/plain")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFilesystemDeleteMissingIsNoop(t *testing.T) {
	t.Parallel()

	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "never/existed.bin"))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("v"), "text/plain"))

	info, err := store.Head(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", info.ContentType)
	assert.Equal(t, int64(1), info.SizeBytes)

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, errcodes.NotFound("Object"))
}

func TestNewFromConfigFilesystem(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		StorageBackend:    config.StorageBackendFilesystem,
		PublicStorageDir:  filepath.Join(t.TempDir(), "public"),
		PrivateStorageDir: filepath.Join(t.TempDir(), "private"),
	}

	stores, err := NewFromConfig(cfg)
	require.NoError(t, err)
	assert.NotNil(t, stores.Public)
	assert.NotNil(t, stores.Private)
	assert.NotSame(t, stores.Public, stores.Private)
}

func TestNewFromConfigUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := NewFromConfig(&config.Config{StorageBackend: "tape"})
	assert.Error(t, err)
}
