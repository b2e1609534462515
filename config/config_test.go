package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `cluster:
  hosts:
    - db1.internal:27017
    - db2.internal:27017
  auth:
    username: app
    password: secret
    source: admin
  connect_timeout: 5s
  write_concern: majority
  read_preference: secondaryPreferred
logging:
  level: debug
  format: text
telemetry:
  enabled: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(cfg.Cluster.Hosts) != 2 {
		t.Fatalf("expected 2 hosts, got %d", len(cfg.Cluster.Hosts))
	}
	if cfg.Cluster.ConnectTimeout.Duration != 5*time.Second {
		t.Fatalf("expected 5s connect timeout, got %s", cfg.Cluster.ConnectTimeout)
	}
	if cfg.Cluster.WriteConcern != "majority" {
		t.Fatalf("unexpected write concern %q", cfg.Cluster.WriteConcern)
	}
	if !cfg.Cluster.Auth.Enabled() {
		t.Fatal("expected auth to be enabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level %q", cfg.Logging.Level)
	}
	if !cfg.Telemetry.Enabled {
		t.Fatal("expected telemetry to be enabled")
	}
}

func TestLoadURIOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `cluster:
  uri: mongodb://db1.internal:27017/app
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cluster.URI == "" {
		t.Fatal("expected uri to be set")
	}
	if cfg.Cluster.Auth.Enabled() {
		t.Fatal("expected auth to be disabled")
	}
}

func TestLoadRejectsAmbiguousCluster(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `cluster:
  uri: mongodb://db1.internal:27017
  hosts:
    - db2.internal:27017
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for uri combined with hosts")
	}
}

func TestLoadRejectsEmptyCluster(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing cluster target")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `cluster:
  uri: mongodb://db1.internal:27017
  connect_timeout: soon
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
