package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int `env:"COURTSIDE_TEST_PORT" envDefault:"321"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 321 {
		t.Fatalf("expected default port 321, got %d", cfg.Port)
	}
}

func TestParseEnvOverride(t *testing.T) {
	t.Setenv("COURTSIDE_TEST_PORT", "4321")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 4321 {
		t.Fatalf("expected port 4321, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("COURTSIDE_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
