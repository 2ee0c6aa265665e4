// Package config loads runtime settings for the orrery binary from the
// environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/internal/observability"
	"github.com/signalsfoundry/orrery/timectrl"
)

// DefaultTick is one frame at 60 Hz.
const DefaultTick = time.Second / 60

// ErrInvalidConfig wraps every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Tick        time.Duration
	Duration    time.Duration // zero runs until interrupted
	Mode        string        // accelerated | realtime
	CatalogPath string
	MetricsAddr string
	GRPCAddr    string // empty disables the health server
	Autopilot   bool

	Logging logging.Config
	Tracing observability.TracingConfig
}

// Load reads .env from the working directory when present, then the process
// environment. The result is not validated.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	tick, err := durationEnv("ORRERY_TICK", DefaultTick)
	if err != nil {
		return Config{}, err
	}
	duration, err := durationEnv("ORRERY_DURATION", 0)
	if err != nil {
		return Config{}, err
	}
	autopilot, err := boolEnv("ORRERY_AUTOPILOT", true)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Tick:        tick,
		Duration:    duration,
		Mode:        strings.ToLower(getEnv("ORRERY_MODE", "realtime")),
		CatalogPath: os.Getenv("ORRERY_CATALOG"),
		MetricsAddr: addrEnv("ORRERY_METRICS_ADDR", ":9090"),
		GRPCAddr:    addrEnv("ORRERY_GRPC_ADDR", ":50051"),
		Autopilot:   autopilot,
		Logging: logging.Config{
			Level:  os.Getenv("LOG_LEVEL"),
			Format: os.Getenv("LOG_FORMAT"),
		},
		Tracing: observability.TracingConfigFromEnv(),
	}, nil
}

// Validate rejects settings the simulation loop cannot run with.
func (c Config) Validate() error {
	if c.Tick <= 0 {
		return fmt.Errorf("%w: tick must be positive, got %s", ErrInvalidConfig, c.Tick)
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative, got %s", ErrInvalidConfig, c.Duration)
	}
	if _, err := c.TimeMode(); err != nil {
		return err
	}
	return nil
}

// TimeMode maps the configured mode name onto the time controller's mode.
func (c Config) TimeMode() (timectrl.Mode, error) {
	switch c.Mode {
	case "realtime", "real-time", "":
		return timectrl.RealTime, nil
	case "accelerated":
		return timectrl.Accelerated, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// addrEnv distinguishes unset, which takes the fallback, from set to empty,
// which disables the listener.
func addrEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return b, nil
}
