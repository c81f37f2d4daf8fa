package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.DatabaseBusyTimeout)
	assert.Equal(t, 5, cfg.DatabaseConnectRetryCount)
	assert.Equal(t, 2*time.Second, cfg.DatabaseConnectRetryDelay)
	assert.Equal(t, 5, cfg.DatabaseMaxRetries)
	assert.Equal(t, 10*time.Second, cfg.GeocoderTimeout)
	assert.Equal(t, StorageBackendFilesystem, cfg.StorageBackend)
	assert.NotEmpty(t, cfg.Hostname)
}

func TestNewDevelopment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("PORT", "8080")
	t.Setenv("PUBLIC_REPO_DIR", "/repos/public")

	cfg, err := New()
	require.NoError(t, err)

	assert.True(t, cfg.DatabaseDebug)
	assert.Equal(t, "./tmp/data.sqlite", cfg.DatabaseFilePath)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "127.0.0.1", cfg.ServerHost)
	assert.Equal(t, "/repos/public", cfg.PublicRepoDir)
}

func TestNewTest(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, ":memory:", cfg.DatabaseFilePath)
	assert.Equal(t, "127.0.0.1", cfg.ServerHost)
	assert.Zero(t, cfg.ServerPort)
}

func TestNewProductionFilesystemDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_FILE_PATH", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("PUBLIC_STORAGE_DIR", "")
	t.Setenv("PRIVATE_STORAGE_DIR", "")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "/data/data.sqlite", cfg.DatabaseFilePath)
	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, StorageBackendFilesystem, cfg.StorageBackend)
	assert.Equal(t, "/data/storage/public", cfg.PublicStorageDir)
	assert.Equal(t, "/data/storage/private", cfg.PrivateStorageDir)
}

func TestNewProductionS3(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("S3_ENDPOINT", "https://s3.example.com")
	t.Setenv("S3_PUBLIC_BUCKET", "public-bucket")
	t.Setenv("S3_PRIVATE_BUCKET", "private-bucket")
	t.Setenv("S3_REGION", "eu-west-1")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, StorageBackendS3, cfg.StorageBackend)
	assert.Equal(t, "key", cfg.S3AccessKeyID)
	assert.Equal(t, "public-bucket", cfg.S3PublicBucket)
	assert.Equal(t, "private-bucket", cfg.S3PrivateBucket)
	assert.Equal(t, "eu-west-1", cfg.S3Region)
}
