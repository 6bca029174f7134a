package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvDBPath, EnvLogLevel, EnvLogFormat, EnvIssuingAuthority, EnvPassPercentage} {
		if v, ok := os.LookupEnv(key); ok {
			t.Setenv(key, v)
			os.Unsetenv(key)
		}
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{Version: "1", DBPath: "/tmp/x.db", PassPercentage: 60}
	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.DBPath != "/tmp/x.db" || loaded.PassPercentage != 60 {
		t.Errorf("unexpected config: %+v", loaded)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Default()
	if *cfg != *want {
		t.Errorf("expected defaults %+v, got %+v", want, cfg)
	}
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	if err := SaveConfig(dir, &Config{IssuingAuthority: "BTEVTA Quetta", PassPercentage: 55, LogLevel: "info"}); err != nil {
		t.Fatal(err)
	}
	dotenv := "BTEVTA_PASS_PERCENTAGE=65\nBTEVTA_DB_PATH=/data/dotenv.db\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvDBPath, "/data/env.db")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"file over default", cfg.IssuingAuthority, "BTEVTA Quetta"},
		{"file log level", cfg.LogLevel, "info"},
		{".env over file", cfg.PassPercentage, 65.0},
		{"process env over .env", cfg.DBPath, "/data/env.db"},
		{"default kept", cfg.LogFormat, "console"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non-numeric pass percentage", EnvPassPercentage, "half"},
		{"pass percentage out of range", EnvPassPercentage, "150"},
		{"unknown log format", EnvLogFormat, "xml"},
		{"unknown log level", EnvLogLevel, "verbose"},
		{"upper-case log level", EnvLogLevel, "DEBUG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(t.TempDir()); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := Default()
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("level %q: unexpected error %v", level, err)
		}
	}

	cfg := Default()
	cfg.LogLevel = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty log level")
	}
}

func TestLoad_CorruptConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, DirName), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, DirName, "config.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected parse error")
	}
}
