package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BALANCE_API_BASE_URL", "https://api.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Client.BaseURL != "https://api.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.Client.BaseURL)
	}
	if cfg.Client.RequestTimeout != 15*time.Second {
		t.Errorf("expected default request timeout 15s, got %s", cfg.Client.RequestTimeout)
	}
	if cfg.Client.DepositTimeout != 60*time.Second {
		t.Errorf("expected default deposit timeout 60s, got %s", cfg.Client.DepositTimeout)
	}
	if cfg.Client.TokenEnv != "BALANCE_API_TOKEN" {
		t.Errorf("unexpected token env %q", cfg.Client.TokenEnv)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("expected 25 max open conns, got %d", cfg.Database.MaxOpenConns)
	}
}

func TestLoadRejectsShortDepositTimeout(t *testing.T) {
	t.Setenv("BALANCE_DEPOSIT_TIMEOUT", "10s")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for deposit timeout below 30s")
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	t.Setenv("BALANCE_REQUEST_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "not-a-number")
	if got := getEnvInt("TEST_INT", 7); got != 7 {
		t.Errorf("getEnvInt fallback = %d, want 7", got)
	}

	t.Setenv("TEST_BOOL", "false")
	if got := getEnvBool("TEST_BOOL", true); got {
		t.Error("getEnvBool should parse false")
	}

	if got := getEnvString("TEST_UNSET_STRING", "fallback"); got != "fallback" {
		t.Errorf("getEnvString fallback = %q", got)
	}
}
