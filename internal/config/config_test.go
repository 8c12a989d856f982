package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "league-engine" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.CycleTickInterval != 15*time.Second {
		t.Fatalf("unexpected CycleTickInterval: %s", cfg.CycleTickInterval)
	}
	if cfg.EvaluationInterval != time.Minute {
		t.Fatalf("unexpected EvaluationInterval: %s", cfg.EvaluationInterval)
	}
	if !cfg.EvaluationEnabled {
		t.Fatalf("expected EvaluationEnabled=true by default")
	}
	if cfg.IngestWorkers != 8 {
		t.Fatalf("unexpected IngestWorkers: %d", cfg.IngestWorkers)
	}
	if cfg.WebhookEnabled {
		t.Fatalf("expected WebhookEnabled=false by default")
	}
	if cfg.LogLevel.String() != "info" {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel)
	}
}

func TestLoad_WebhookRequiresURLWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("WEBHOOK_ENABLED", "true")
	t.Setenv("WEBHOOK_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when WEBHOOK_ENABLED=true without WEBHOOK_URL")
	}
}

func TestLoad_WebhookConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("WEBHOOK_ENABLED", "true")
	t.Setenv("WEBHOOK_URL", "https://gateway.internal/hooks/games")
	t.Setenv("WEBHOOK_TOKEN", "token-123")
	t.Setenv("WEBHOOK_TIMEOUT", "4s")
	t.Setenv("WEBHOOK_CIRCUIT_FAILURE_COUNT", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.WebhookEnabled {
		t.Fatalf("expected WebhookEnabled=true")
	}
	if cfg.WebhookURL != "https://gateway.internal/hooks/games" {
		t.Fatalf("unexpected WebhookURL: %q", cfg.WebhookURL)
	}
	if cfg.WebhookToken != "token-123" {
		t.Fatalf("unexpected WebhookToken")
	}
	if cfg.WebhookTimeout != 4*time.Second {
		t.Fatalf("unexpected WebhookTimeout: %s", cfg.WebhookTimeout)
	}
	if cfg.WebhookCircuitFailureCount != 3 {
		t.Fatalf("unexpected WebhookCircuitFailureCount: %d", cfg.WebhookCircuitFailureCount)
	}
}

func TestLoad_PyroscopeRequiresServerWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_IntervalValidation(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero tick interval", "CYCLE_TICK_INTERVAL", "0s"},
		{"malformed tick interval", "CYCLE_TICK_INTERVAL", "soon"},
		{"zero evaluation interval", "EVALUATION_INTERVAL", "0s"},
		{"zero ingest workers", "INGEST_WORKERS", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"info":    "info",
		"warn":    "warn",
		"warning": "warn",
		"error":   "error",
		"bogus":   "info",
		"":        "info",
	}
	for input, want := range cases {
		if got := parseLogLevel(input).String(); got != want {
			t.Fatalf("parseLogLevel(%q) = %s, want %s", input, got, want)
		}
	}
}
