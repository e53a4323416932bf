package app

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfigYAML = `
core:
  telegram:
    run_mode: longpoll
  logging:
    level: debug
    format: kv
  rate_limit:
    interval_ms: 300
    exclude_updates: [callback]
  keepalive:
    enabled: true
    url: https://bot.example.org/
    interval_seconds: 120

database:
  host: db.internal
  port: "5432"
  user: kinobot
  name: kinobot
  sslmode: disable

seed:
  admins: [42]
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfigYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:test-token")

	cfg, err := LoadConfig(writeTestConfig(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Core.Telegram.Token != "123:test-token" {
		t.Errorf("token not taken from env: %q", cfg.Core.Telegram.Token)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("database host = %q", cfg.Database.Host)
	}
	if !cfg.Core.KeepAlive.Enabled || cfg.Core.KeepAlive.IntervalSeconds != 120 {
		t.Errorf("keepalive config not loaded: %+v", cfg.Core.KeepAlive)
	}
	if len(cfg.Seed.Admins) != 1 || cfg.Seed.Admins[0] != 42 {
		t.Errorf("seed admins = %v", cfg.Seed.Admins)
	}
	if cfg.CoreConfig() != &cfg.Core {
		t.Error("CoreConfig should expose the embedded core config")
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:test-token")
	t.Setenv("DB_HOST", "override.internal")

	cfg, err := LoadConfig(writeTestConfig(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Host != "override.internal" {
		t.Errorf("env override ignored, host = %q", cfg.Database.Host)
	}
}

func TestLoadConfigMissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	if _, err := LoadConfig(writeTestConfig(t)); err == nil {
		t.Fatal("expected error for missing bot token")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
