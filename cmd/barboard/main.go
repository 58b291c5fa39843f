package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fennwick/barboard/internal/ai"
	"github.com/fennwick/barboard/internal/api"
	"github.com/fennwick/barboard/internal/chat"
	"github.com/fennwick/barboard/internal/config"
	"github.com/fennwick/barboard/internal/dashboard"
	"github.com/fennwick/barboard/internal/export"
	"github.com/fennwick/barboard/internal/market"
	"github.com/fennwick/barboard/internal/netutil"
	"github.com/fennwick/barboard/internal/replay"
	"github.com/fennwick/barboard/internal/session"
	"github.com/fennwick/barboard/internal/storage"
	"github.com/fennwick/barboard/internal/stream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		if _, writeErr := io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n"); writeErr != nil {
			slog.Debug("logger setup stderr write failed", "error", writeErr)
		}
		os.Exit(1)
	}

	slog.Info("barboard config loaded",
		"bind_addr", cfg.BindAddr,
		"port_fallback", cfg.PortFallback,
		"data_file", cfg.DataFile,
		"symbol", cfg.Symbol,
		"session_ttl", cfg.SessionTTL,
		"export_dir", cfg.ExportDir,
		"audit_dir", cfg.AuditDir,
		"ai_provider", cfg.AIProvider,
		"render_enabled", cfg.RenderEnabled(),
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	ds, err := market.Load(cfg.DataFile, cfg.Symbol)
	if err != nil {
		slog.Error("failed to load dataset", "file", cfg.DataFile, "error", err)
		os.Exit(1)
	}
	slog.Info("dataset loaded", "file", cfg.DataFile, "bars", ds.Len(), "issues", len(ds.Issues))

	// A missing API key only disables chat. Everything else on the
	// dashboard keeps working and asks report AI_UNCONFIGURED.
	provider, err := ai.New(ai.Settings{
		Provider:  cfg.AIProvider,
		Model:     cfg.AIModel,
		GeminiKey: cfg.GeminiAPIKey,
		OpenAIKey: cfg.OpenAIAPIKey,
		Timeout:   cfg.AITimeout,
		MaxTokens: cfg.AIMaxTokens,
		RateRPM:   cfg.AIRateRPM,
	})
	switch {
	case errors.Is(err, ai.ErrNoAPIKey):
		slog.Warn("AI chat disabled: no API key configured", "provider", cfg.AIProvider)
	case err != nil:
		slog.Warn("AI chat disabled", "provider", cfg.AIProvider, "error", err)
	default:
		slog.Info("AI provider ready", "provider", provider.Name(), "model", provider.Model())
	}

	var audit *storage.Writer
	if cfg.AuditDir != "" {
		audit = storage.NewWriter(cfg.AuditDir, 0, 0)
	}

	exports, err := export.NewStore(cfg.ExportDir)
	if err != nil {
		slog.Error("failed to create export store", "dir", cfg.ExportDir, "error", err)
		os.Exit(1)
	}

	var renderer *export.Renderer
	if cfg.RenderEnabled() {
		renderer = export.NewRenderer(cfg.CDPURL(), cfg.RenderTimeout)
		slog.Info("PNG rendering enabled", "cdp_url", cfg.CDPURL())
	}

	sessions := session.NewManager(cfg.SessionTTL, ds.Len(), replay.DefaultInterval)
	broker := stream.NewBroker()
	chatSvc := chat.NewService(provider, ds, audit)
	svc := dashboard.NewService(ds, sessions, broker, chatSvc, exports, renderer, cfg.NTFYEndpoint)
	h := api.NewServer(svc, stream.WSHandler(broker))

	bindAddr, err := netutil.SelectBindAddr(cfg.BindAddr, netutil.PortCandidates(cfg.BindAddr, 9), cfg.PortFallback)
	if err != nil {
		slog.Error("failed to select bind address", "preferred", cfg.BindAddr, "error", err)
		os.Exit(1)
	}

	srv := &http.Server{Addr: bindAddr, Handler: h}

	go func() {
		slog.Info("barboard listening", "addr", bindAddr, "dashboard", "http://"+bindAddr+"/", "docs", "http://"+bindAddr+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("barboard server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("barboard shutdown failed", "error", err)
	}
	svc.Close()
	if audit != nil {
		if err := audit.Close(); err != nil {
			slog.Debug("audit writer close failed", "error", err)
		}
	}
}

func setupLogger(level, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
