package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Minimal(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", c.Server.Port)
	}
	if c.Simulation.DefaultSteps != 1000 {
		t.Errorf("expected default steps 1000, got %d", c.Simulation.DefaultSteps)
	}
	if c.Simulation.DefaultStyle != "moderate" {
		t.Errorf("expected default style moderate, got %q", c.Simulation.DefaultStyle)
	}
	if c.Cache.Backend != "memory" {
		t.Errorf("expected default cache backend memory, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL != 15*time.Minute {
		t.Errorf("expected default ttl 15m, got %v", c.Cache.TTL)
	}
}

func TestLoad_Full(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  port: 9000
simulation:
  default_paths: 50
  default_steps: 2000
  default_style: aggressive
  workers: 4
cache:
  enabled: true
  backend: layered
publisher:
  enabled: true
  brokers: ["kafka-1:9092", "kafka-2:9092"]
  topic: volpath.runs
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Server.Port != 9000 {
		t.Errorf("port not applied: %d", c.Server.Port)
	}
	if c.Simulation.DefaultStyle != "aggressive" {
		t.Errorf("style not applied: %q", c.Simulation.DefaultStyle)
	}
	if len(c.Publisher.Brokers) != 2 || c.Publisher.Topic != "volpath.runs" {
		t.Errorf("publisher not applied: %+v", c.Publisher)
	}
}

func TestLoad_MissingEnvironment(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing environment")
	}
}

func TestLoad_BadStyle(t *testing.T) {
	path := writeConfig(t, "environment: test\nsimulation:\n  default_style: reckless\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown style")
	}
}

func TestLoad_BadCacheBackend(t *testing.T) {
	path := writeConfig(t, "environment: test\ncache:\n  backend: memcached\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown cache backend")
	}
}

func TestLoad_PublisherRequiresBrokers(t *testing.T) {
	path := writeConfig(t, "environment: test\npublisher:\n  enabled: true\n  topic: volpath.runs\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for enabled publisher without brokers")
	}
}

func TestLoadWithEnv_PortOverride(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	t.Setenv("VOLPATH_PORT", "9999")
	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Server.Port != 9999 {
		t.Errorf("port override not applied: %d", c.Server.Port)
	}

	t.Setenv("VOLPATH_PORT", "not-a-number")
	c, err = LoadWithEnv(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Server.Port != 8080 {
		t.Errorf("bad override must keep the config value, got %d", c.Server.Port)
	}
}

func TestLoadWithEnv_Overrides(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("KAFKA_TOPIC", "override.topic")
	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Publisher.Brokers) != 2 {
		t.Errorf("brokers override not applied: %v", c.Publisher.Brokers)
	}
	if c.Publisher.Topic != "override.topic" {
		t.Errorf("topic override not applied: %q", c.Publisher.Topic)
	}
}
