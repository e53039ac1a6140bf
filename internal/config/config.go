package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Port          string
	DataDir       string
	OutletName    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SyncChannel   string
	RemoteMirror  bool
	DatabaseURL   string
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		OutletName:    getEnv("OUTLET_NAME", "Sambelan Caping Gunung"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		SyncChannel:   getEnv("SYNC_CHANNEL", "kasir_sync_channel"),
		RemoteMirror:  getEnv("REMOTE_MIRROR", "false") == "true",
		DatabaseURL:   os.Getenv("DATABASE_URL"),
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

// DBPath is the durable store location inside the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "kasir.db")
}

// BackupPath is the backup mirror location inside the data directory.
func (c Config) BackupPath() string {
	return filepath.Join(c.DataDir, "kasir_state_backup.json")
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
