package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"CALC_ADDR", "CALC_MAX_DIGITS", "CALC_SESSION_TTL", "CALC_SWEEP_INTERVAL", "CALC_TAPE_DB", "CALC_OTLP"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("expected addr %q, got %q", ":8080", cfg.Addr)
	}
	if cfg.MaxDigits != 16 {
		t.Fatalf("expected max digits 16, got %d", cfg.MaxDigits)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected session ttl 30m, got %s", cfg.SessionTTL)
	}
	if cfg.SweepInterval != time.Minute {
		t.Fatalf("expected sweep interval 1m, got %s", cfg.SweepInterval)
	}
	if cfg.TapePath != "" || cfg.OTLP {
		t.Fatalf("expected tape and otlp disabled, got %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CALC_ADDR", ":9090")
	t.Setenv("CALC_MAX_DIGITS", "10")
	t.Setenv("CALC_SESSION_TTL", "5m")
	t.Setenv("CALC_SWEEP_INTERVAL", "10s")
	t.Setenv("CALC_TAPE_DB", "/tmp/tape.db")
	t.Setenv("CALC_OTLP", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	want := Config{
		Addr:          ":9090",
		MaxDigits:     10,
		SessionTTL:    5 * time.Minute,
		SweepInterval: 10 * time.Second,
		TapePath:      "/tmp/tape.db",
		OTLP:          true,
	}
	if cfg != want {
		t.Fatalf("expected %+v, got %+v", want, cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "CALC_MAX_DIGITS", value: "zero"},
		{key: "CALC_MAX_DIGITS", value: "0"},
		{key: "CALC_SESSION_TTL", value: "soon"},
		{key: "CALC_SWEEP_INTERVAL", value: "-1s"},
		{key: "CALC_OTLP", value: "maybe"},
	}

	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}
