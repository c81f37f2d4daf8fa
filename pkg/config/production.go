package config

import (
	"os"
	"strconv"
)

func loadProductionConfig(cfg *Config) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		cfg.ServerPort = port
	}

	cfg.DatabaseFilePath = os.Getenv("DATABASE_FILE_PATH")
	if cfg.DatabaseFilePath == "" {
		cfg.DatabaseFilePath = "/data/data.sqlite"
	}
	cfg.GeocoderBaseURL = os.Getenv("GEOCODER_BASE_URL")
	cfg.PrivateRepoDir = os.Getenv("PRIVATE_REPO_DIR")
	cfg.PublicRepoDir = os.Getenv("PUBLIC_REPO_DIR")
	cfg.ServerHost = "0.0.0.0"
	cfg.SyncAPIKey = os.Getenv("SYNC_API_KEY")

	cfg.StorageBackend = os.Getenv("STORAGE_BACKEND")
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = StorageBackendFilesystem
	}
	switch cfg.StorageBackend {
	case StorageBackendS3:
		cfg.S3AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
		cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
		cfg.S3PrivateBucket = os.Getenv("S3_PRIVATE_BUCKET")
		cfg.S3PublicBucket = os.Getenv("S3_PUBLIC_BUCKET")
		cfg.S3Region = os.Getenv("S3_REGION")
		cfg.S3SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
	default:
		cfg.PrivateStorageDir = os.Getenv("PRIVATE_STORAGE_DIR")
		if cfg.PrivateStorageDir == "" {
			cfg.PrivateStorageDir = "/data/storage/private"
		}
		cfg.PublicStorageDir = os.Getenv("PUBLIC_STORAGE_DIR")
		if cfg.PublicStorageDir == "" {
			cfg.PublicStorageDir = "/data/storage/public"
		}
	}
}
