package config

func loadTestConfig(cfg *Config) {
	cfg.DatabaseFilePath = ":memory:"
	cfg.PrivateStorageDir = "./tmp/test-storage/private"
	cfg.PublicStorageDir = "./tmp/test-storage/public"
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = 0
}
