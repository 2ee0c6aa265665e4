package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/signalsfoundry/orrery/timectrl"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ORRERY_TICK", "ORRERY_DURATION", "ORRERY_MODE", "ORRERY_CATALOG",
		"ORRERY_METRICS_ADDR", "ORRERY_GRPC_ADDR", "ORRERY_AUTOPILOT", "LOG_LEVEL", "LOG_FORMAT",
	} {
		// Setenv registers the restore; Unsetenv leaves the key absent.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Tick != DefaultTick || cfg.Duration != 0 || cfg.MetricsAddr != ":9090" || cfg.GRPCAddr != ":50051" || !cfg.Autopilot {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if mode, _ := cfg.TimeMode(); mode != timectrl.RealTime {
		t.Fatalf("default mode = %v, want realtime", mode)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORRERY_TICK", "10ms")
	t.Setenv("ORRERY_DURATION", "2s")
	t.Setenv("ORRERY_MODE", "Accelerated")
	t.Setenv("ORRERY_AUTOPILOT", "false")
	t.Setenv("ORRERY_GRPC_ADDR", "")
	t.Setenv("ORRERY_METRICS_ADDR", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Tick != 10*time.Millisecond || cfg.Duration != 2*time.Second || cfg.Autopilot {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.GRPCAddr != "" || cfg.MetricsAddr != "" {
		t.Fatalf("explicitly empty addrs should disable both servers, got %q and %q", cfg.GRPCAddr, cfg.MetricsAddr)
	}
	if mode, err := cfg.TimeMode(); err != nil || mode != timectrl.Accelerated {
		t.Fatalf("TimeMode = %v, %v", mode, err)
	}
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORRERY_TICK", "fast")
	if _, err := FromEnv(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []Config{
		{Tick: 0, Mode: "realtime"},
		{Tick: time.Millisecond, Duration: -time.Second},
		{Tick: time.Millisecond, Mode: "warp9"},
	}
	for _, c := range cases {
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("Validate(%+v) = %v, want ErrInvalidConfig", c, err)
		}
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ORRERY_CATALOG=configs/catalog.yaml\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	chdir(t, dir)
	t.Cleanup(func() { os.Unsetenv("ORRERY_CATALOG") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogPath != "configs/catalog.yaml" {
		t.Fatalf("CatalogPath = %q, want value from .env", cfg.CatalogPath)
	}
}

func TestLoadWithoutDotEnv(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	if _, err := Load(); err != nil {
		t.Fatalf("missing .env should be tolerated: %v", err)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
