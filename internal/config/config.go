package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the barboard dashboard service.
type Config struct {
	// HTTP bind settings
	BindAddr     string
	PortFallback bool

	// Dataset settings
	DataFile string
	Symbol   string

	// Logging
	LogLevel string
	LogFile  string

	// Session lifecycle
	SessionTTL time.Duration

	// Artifact directories. Empty AuditDir disables the AI audit trail.
	ExportDir string
	AuditDir  string

	// Optional ntfy-style webhook pinged when a replay reaches the last bar.
	NTFYEndpoint string

	// AI provider settings
	AIProvider   string
	AIModel      string
	AITimeout    time.Duration
	AIMaxTokens  int
	AIRateRPM    int
	GeminiAPIKey string
	OpenAIAPIKey string

	// Headless Chromium used for PNG chart exports. Empty address disables.
	CDPAddress    string
	CDPPort       int
	RenderTimeout time.Duration
}

// Load reads configuration from environment variables and optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		BindAddr:      getEnvOrDefault("BARBOARD_BIND_ADDR", "127.0.0.1:8487"),
		PortFallback:  getEnvBoolOrDefault("BARBOARD_PORT_FALLBACK", true),
		DataFile:      getEnvOrDefault("BARBOARD_DATA_FILE", "TSLA_data.csv"),
		Symbol:        getEnvOrDefault("BARBOARD_SYMBOL", "TSLA"),
		LogLevel:      strings.ToLower(getEnvOrDefault("BARBOARD_LOG_LEVEL", "info")),
		LogFile:       getEnvOrDefault("BARBOARD_LOG_FILE", "logs/barboard.log"),
		SessionTTL:    getEnvDurationOrDefault("BARBOARD_SESSION_TTL", 4*time.Hour),
		ExportDir:     getEnvOrDefault("BARBOARD_EXPORT_DIR", "./exports"),
		AuditDir:      getEnvOrDefault("BARBOARD_AUDIT_DIR", "logs/audit"),
		NTFYEndpoint:  getEnvOrDefault("BARBOARD_NTFY_ENDPOINT", ""),
		AIProvider:    strings.ToLower(getEnvOrDefault("BARBOARD_AI_PROVIDER", "gemini")),
		AIModel:       getEnvOrDefault("BARBOARD_AI_MODEL", ""),
		AITimeout:     getEnvDurationOrDefault("BARBOARD_AI_TIMEOUT", 60*time.Second),
		AIMaxTokens:   getEnvIntOrDefault("BARBOARD_AI_MAX_TOKENS", 1024),
		AIRateRPM:     getEnvIntOrDefault("BARBOARD_AI_RATE_RPM", 6),
		GeminiAPIKey:  getEnvOrDefault("GEMINI_API_KEY", getEnvOrDefault("GOOGLE_API_KEY", "")),
		OpenAIAPIKey:  getEnvOrDefault("OPENAI_API_KEY", ""),
		CDPAddress:    getEnvOrDefault("CHROMIUM_CDP_ADDRESS", ""),
		CDPPort:       getEnvIntOrDefault("CHROMIUM_CDP_PORT", 9222),
		RenderTimeout: getEnvDurationOrDefault("BARBOARD_RENDER_TIMEOUT", 20*time.Second),
	}
	if cfg.SessionTTL < time.Minute {
		cfg.SessionTTL = time.Minute
	}
	if cfg.AITimeout < time.Second {
		cfg.AITimeout = time.Second
	}
	if cfg.AIRateRPM < 0 {
		cfg.AIRateRPM = 0
	}
	return cfg, nil
}

// CDPURL returns the CDP HTTP endpoint used by the chromedp remote allocator.
func (c *Config) CDPURL() string {
	return "http://" + c.CDPAddress + ":" + strconv.Itoa(c.CDPPort)
}

// RenderEnabled reports whether a headless browser is configured for PNG exports.
func (c *Config) RenderEnabled() bool {
	return c.CDPAddress != ""
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
