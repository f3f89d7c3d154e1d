package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Rows != 3 || cfg.Cols != 3 || cfg.TickPeriod() != 200*time.Millisecond {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	var onDisk AppConfig
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatal(err)
	}
	if onDisk.Port != cfg.Port || onDisk.TickMs != cfg.TickMs {
		t.Errorf("file content %+v does not match %+v", onDisk, cfg)
	}
}

func TestLoadReadsFileAndKeepsMissingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"rows": 10, "cols": 12, "port": "9000"}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Rows != 10 || cfg.Cols != 12 || cfg.Port != "9000" {
		t.Errorf("file values ignored: %+v", cfg)
	}
	if cfg.TickMs != 200 || cfg.Blocksize != 20 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("SNAKE_ROWS", "8")
	t.Setenv("SNAKE_TICK_MS", "50")
	t.Setenv("SNAKE_DB_PATH", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Rows != 8 || cfg.TickPeriod() != 50*time.Millisecond {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.DBPath != "" {
		t.Errorf("empty SNAKE_DB_PATH should disable the journal, got %q", cfg.DBPath)
	}
}

func TestEnvRejectsGarbage(t *testing.T) {
	t.Setenv("SNAKE_COLS", "wide")
	if _, err := Load(filepath.Join(t.TempDir(), "config.json")); err == nil {
		t.Error("expected error for non-numeric SNAKE_COLS")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*AppConfig)
	}{
		{"zero rows", func(c *AppConfig) { c.Rows = 0 }},
		{"negative cols", func(c *AppConfig) { c.Cols = -2 }},
		{"zero tick", func(c *AppConfig) { c.TickMs = 0 }},
		{"zero blocksize", func(c *AppConfig) { c.Blocksize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.edit(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if err := Defaults().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("SNAKE_TEST_ONLY_KEY=hello\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("SNAKE_TEST_ONLY_KEY") })

	if err := LoadEnv(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("SNAKE_TEST_ONLY_KEY"); got != "hello" {
		t.Errorf("SNAKE_TEST_ONLY_KEY = %q", got)
	}
}

func TestGetConfigValue(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if got := GetConfigValue("blocksize"); got != cfg.Blocksize {
		t.Errorf("blocksize = %v", got)
	}
	if got := GetConfigValue("port"); got != cfg.Port {
		t.Errorf("port = %v", got)
	}
	if got := GetConfigValue("log_level"); got != cfg.LogLevel {
		t.Errorf("log_level = %v", got)
	}
	if got := GetConfigValue("nope"); got != "" {
		t.Errorf("unknown key = %v", got)
	}
}
