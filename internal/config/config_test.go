package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/planbiir/gpx2garmin/internal/stamp"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != stamp.DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeProfile(t, "strategy: fixed\ninterval_seconds: 10\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Strategy != stamp.FixedInterval {
		t.Fatalf("expected fixed strategy, got %v", cfg.Strategy)
	}
	if cfg.Interval != 10*time.Second {
		t.Fatalf("expected 10s interval, got %v", cfg.Interval)
	}
	if cfg.SpeedKmh != 35 {
		t.Fatalf("expected default speed to survive, got %v", cfg.SpeedKmh)
	}
}

func TestLoadSpeedOnly(t *testing.T) {
	path := writeProfile(t, "speed_kmh: 12.5\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Strategy != stamp.SpeedBased || cfg.SpeedKmh != 12.5 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeProfile(t, "speed_kmh: -3\n")

	if _, err := Load(path); !errors.Is(err, stamp.ErrInvalidSpeed) {
		t.Fatalf("expected ErrInvalidSpeed, got %v", err)
	}

	path = writeProfile(t, "strategy: hover\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
