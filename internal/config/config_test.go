package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != "127.0.0.1:8487" {
		t.Errorf("BindAddr = %q, want %q", cfg.BindAddr, "127.0.0.1:8487")
	}
	if cfg.DataFile != "TSLA_data.csv" {
		t.Errorf("DataFile = %q, want %q", cfg.DataFile, "TSLA_data.csv")
	}
	if cfg.Symbol != "TSLA" {
		t.Errorf("Symbol = %q, want %q", cfg.Symbol, "TSLA")
	}
	if cfg.AIProvider != "gemini" {
		t.Errorf("AIProvider = %q, want %q", cfg.AIProvider, "gemini")
	}
	if cfg.AITimeout != 60*time.Second {
		t.Errorf("AITimeout = %v, want %v", cfg.AITimeout, 60*time.Second)
	}
	if cfg.RenderEnabled() {
		t.Error("RenderEnabled() = true with no CDP address configured")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BARBOARD_BIND_ADDR", "0.0.0.0:9000")
	t.Setenv("BARBOARD_SYMBOL", "AAPL")
	t.Setenv("BARBOARD_AI_PROVIDER", "OpenAI")
	t.Setenv("BARBOARD_SESSION_TTL", "90m")
	t.Setenv("CHROMIUM_CDP_ADDRESS", "10.0.0.5")
	t.Setenv("CHROMIUM_CDP_PORT", "9333")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != "0.0.0.0:9000" {
		t.Errorf("BindAddr = %q, want %q", cfg.BindAddr, "0.0.0.0:9000")
	}
	if cfg.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want %q", cfg.Symbol, "AAPL")
	}
	if cfg.AIProvider != "openai" {
		t.Errorf("AIProvider = %q, want lowercased %q", cfg.AIProvider, "openai")
	}
	if cfg.SessionTTL != 90*time.Minute {
		t.Errorf("SessionTTL = %v, want %v", cfg.SessionTTL, 90*time.Minute)
	}
	if !cfg.RenderEnabled() {
		t.Error("RenderEnabled() = false with CDP address configured")
	}
	if got, want := cfg.CDPURL(), "http://10.0.0.5:9333"; got != want {
		t.Errorf("CDPURL() = %q, want %q", got, want)
	}
}

func TestLoadClampsInvalidValues(t *testing.T) {
	t.Setenv("BARBOARD_SESSION_TTL", "5s")
	t.Setenv("BARBOARD_AI_TIMEOUT", "10ms")
	t.Setenv("BARBOARD_AI_RATE_RPM", "-3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SessionTTL != time.Minute {
		t.Errorf("SessionTTL = %v, want clamp to %v", cfg.SessionTTL, time.Minute)
	}
	if cfg.AITimeout != time.Second {
		t.Errorf("AITimeout = %v, want clamp to %v", cfg.AITimeout, time.Second)
	}
	if cfg.AIRateRPM != 0 {
		t.Errorf("AIRateRPM = %d, want clamp to 0", cfg.AIRateRPM)
	}
}
