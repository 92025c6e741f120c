package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "craftlink.yaml")

	cfg, resolved, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Endpoint != Default().Endpoint {
		t.Fatalf("endpoint = %q, want default", cfg.Endpoint)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
}

func TestLoadReadsFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "craftlink.yaml")
	content := "endpoint: ws://farm:9000/ws\nname: rack-7\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CRAFTLINK_SECRET", "from-env")

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != "ws://farm:9000/ws" || cfg.Name != "rack-7" || cfg.LogLevel != "debug" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Secret != "from-env" {
		t.Fatalf("env override not applied, secret = %q", cfg.Secret)
	}
}

func TestUpdateFromSkipsZeroValues(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{Name: "rack-7"})

	if cfg.Name != "rack-7" {
		t.Fatalf("name = %q, want rack-7", cfg.Name)
	}
	if cfg.Endpoint != Default().Endpoint {
		t.Fatal("unset override clobbered endpoint")
	}
}
