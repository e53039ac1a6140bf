package config

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATA_DIR", "OUTLET_NAME", "REDIS_ADDR", "REDIS_PASSWORD",
		"REDIS_DB", "SYNC_CHANNEL", "REMOTE_MIRROR", "DATABASE_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("DataDir = %q, want ./data", cfg.DataDir)
	}
	if cfg.OutletName != "Sambelan Caping Gunung" {
		t.Errorf("OutletName = %q", cfg.OutletName)
	}
	if cfg.SyncChannel != "kasir_sync_channel" {
		t.Errorf("SyncChannel = %q", cfg.SyncChannel)
	}
	if cfg.RedisAddr != "" || cfg.RemoteMirror || cfg.DatabaseURL != "" {
		t.Errorf("optional collaborators should default off: %+v", cfg)
	}
	if cfg.RedisDB != 0 {
		t.Errorf("RedisDB = %d, want 0", cfg.RedisDB)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/var/lib/kasir")
	t.Setenv("OUTLET_NAME", "Warung Tengah")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SYNC_CHANNEL", "kasir_test")
	t.Setenv("REMOTE_MIRROR", "true")
	t.Setenv("DATABASE_URL", "postgres://kasir@localhost/kasir")

	cfg := Load()
	if cfg.Port != "9090" || cfg.OutletName != "Warung Tengah" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 2 {
		t.Errorf("redis settings not applied: %+v", cfg)
	}
	if !cfg.RemoteMirror || cfg.DatabaseURL == "" {
		t.Errorf("remote mirror settings not applied: %+v", cfg)
	}
	if cfg.SyncChannel != "kasir_test" {
		t.Errorf("SyncChannel = %q", cfg.SyncChannel)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Config{Port: "8080", DataDir: "/tmp/kasir"}

	if got := cfg.Address(); got != ":8080" {
		t.Errorf("Address = %q", got)
	}
	if got := cfg.DBPath(); got != filepath.Join("/tmp/kasir", "kasir.db") {
		t.Errorf("DBPath = %q", got)
	}
	if got := cfg.BackupPath(); got != filepath.Join("/tmp/kasir", "kasir_state_backup.json") {
		t.Errorf("BackupPath = %q", got)
	}
}
