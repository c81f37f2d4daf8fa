package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration
	DatabaseConnectRetryCount int
	DatabaseConnectRetryDelay time.Duration
	DatabaseDebug             bool
	DatabaseFilePath          string
	DatabaseMaxRetries        int
	GeocoderBaseURL           string
	GeocoderTimeout           time.Duration
	Hostname                  string
	PrivateRepoDir            string
	PrivateStorageDir         string
	PublicRepoDir             string
	PublicStorageDir          string
	S3AccessKeyID             string
	S3Endpoint                string
	S3PrivateBucket           string
	S3PublicBucket            string
	S3Region                  string
	S3SecretAccessKey         string
	ServerHost                string
	ServerPort                int
	StorageBackend            string
	SyncAPIKey                string
}

const environmentENV = "ENVIRONMENT"

func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseMaxRetries:        5,
		GeocoderTimeout:           10 * time.Second,
		Hostname:                  hostname,
		ServerPort:                4628,
		StorageBackend:            StorageBackendFilesystem,
	}

	switch os.Getenv(environmentENV) {
	case "development", "":
		loadDevelopmentConfig(cfg)
	case "test":
		loadTestConfig(cfg)
	case "production":
		loadProductionConfig(cfg)
	}

	return cfg, nil
}

const (
	StorageBackendFilesystem = "filesystem"
	StorageBackendS3         = "s3"
)
