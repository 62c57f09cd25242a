package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go-chi-calculator/internal/engine"
)

// Config holds the API server settings read from the environment.
type Config struct {
	Addr          string
	MaxDigits     int
	SessionTTL    time.Duration
	SweepInterval time.Duration
	TapePath      string // empty disables the tape
	OTLP          bool
}

// Load reads the configuration from the process environment. Unset
// variables take their defaults; malformed ones are an error.
func Load() (Config, error) {
	cfg := Config{
		Addr:          getenv("CALC_ADDR", ":8080"),
		MaxDigits:     engine.DefaultMaxDigits,
		SessionTTL:    30 * time.Minute,
		SweepInterval: time.Minute,
		TapePath:      os.Getenv("CALC_TAPE_DB"),
	}

	if v := os.Getenv("CALC_MAX_DIGITS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("CALC_MAX_DIGITS: invalid value %q", v)
		}
		cfg.MaxDigits = n
	}

	var err error
	if cfg.SessionTTL, err = duration("CALC_SESSION_TTL", cfg.SessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = duration("CALC_SWEEP_INTERVAL", cfg.SweepInterval); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("CALC_OTLP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("CALC_OTLP: %w", err)
		}
		cfg.OTLP = b
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, d)
	}
	return d, nil
}
