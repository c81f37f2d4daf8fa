package config

import (
	"os"
	"strconv"
)

func loadDevelopmentConfig(cfg *Config) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		cfg.ServerPort = port
	}

	cfg.DatabaseDebug = true
	cfg.DatabaseFilePath = "./tmp/data.sqlite"
	cfg.GeocoderBaseURL = os.Getenv("GEOCODER_BASE_URL")
	cfg.PrivateRepoDir = os.Getenv("PRIVATE_REPO_DIR")
	cfg.PrivateStorageDir = "./tmp/storage/private"
	cfg.PublicRepoDir = os.Getenv("PUBLIC_REPO_DIR")
	cfg.PublicStorageDir = "./tmp/storage/public"
	cfg.ServerHost = "127.0.0.1"
	cfg.SyncAPIKey = os.Getenv("SYNC_API_KEY")
}
