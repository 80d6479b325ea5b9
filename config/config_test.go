package config

import (
	"strings"
	"testing"
)

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("CARGOFLOW_API_BASE_URL", "")
	t.Setenv("CARGOFLOW_DISTANCE_API_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing CARGOFLOW_API_BASE_URL")
	}
	if !strings.Contains(err.Error(), "CARGOFLOW_API_BASE_URL") {
		t.Fatalf("error should name the missing variable, got %v", err)
	}

	t.Setenv("CARGOFLOW_API_BASE_URL", "https://api.example.test")
	_, err = Load()
	if err == nil || !strings.Contains(err.Error(), "CARGOFLOW_DISTANCE_API_KEY") {
		t.Fatalf("expected missing distance key error, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CARGOFLOW_API_BASE_URL", "https://api.example.test")
	t.Setenv("CARGOFLOW_DISTANCE_API_KEY", "k")
	t.Setenv("CARGOFLOW_DISTANCE_BASE_URL", "")
	t.Setenv("CARGOFLOW_SESSION_FILE", "")
	t.Setenv("CARGOFLOW_LISTEN_ADDR", "")
	t.Setenv("CARGOFLOW_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DistanceBaseURL != defaultDistanceBaseURL {
		t.Fatalf("expected default distance base url, got %q", cfg.DistanceBaseURL)
	}
	if cfg.ListenAddr != defaultListenAddr {
		t.Fatalf("expected default listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.SessionFile == "" {
		t.Fatal("expected a default session file path")
	}
}
