package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"xposter/internal/adapters/alert"
	"xposter/internal/adapters/browser"
	"xposter/internal/adapters/mediastore"
	"xposter/internal/config"
	"xposter/internal/core/domain"
	"xposter/internal/core/ports"
	"xposter/internal/service"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded configuration from .env")
	}

	cfg := config.Load()

	// Parse flags (override environment values)
	mediaDir := flag.String("dir", cfg.MediaDir, "Directory containing media files to post")
	cookiesFile := flag.String("cookies", cfg.CookiesFile, "JSON cookie file for session injection (empty: interactive login)")
	postText := flag.String("text", cfg.PostText, "Optional status text typed into the compose box")
	headful := flag.Bool("headful", cfg.Headful, "Run the browser with a visible window")
	flag.Parse()
	cfg.MediaDir = *mediaDir
	cfg.CookiesFile = *cookiesFile
	cfg.PostText = *postText
	cfg.Headful = *headful

	tail := alert.NewTailWriter(200)
	logger := newLogger(tail)
	defer logger.Sync()

	logger.Info("=== Media Auto-Poster ===",
		zap.String("media_dir", cfg.MediaDir),
		zap.Bool("cookies", cfg.CookiesFile != ""),
		zap.Bool("headful", cfg.Headful),
	)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Received interrupt signal, cancelling run")
		cancel()
	}()

	result, err := run(ctx, cfg, tail, logger)
	printSummary(result)
	if err != nil {
		logger.Error("Run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, tail *alert.TailWriter, logger *zap.Logger) (*domain.RunResult, error) {
	var cookies []domain.Cookie
	if cfg.CookiesFile != "" {
		var err error
		cookies, err = browser.LoadCookieFile(cfg.CookiesFile)
		if err != nil {
			return nil, err
		}
		logger.Info("Cookie file loaded", zap.Int("records", len(cookies)))
	}

	timeouts := browser.Timeouts{
		Nav:             cfg.NavTimeout,
		Upload:          cfg.UploadTimeout,
		Settle:          cfg.SettleInterval,
		PublishAttempts: cfg.PublishAttempts,
		PublishBackoff:  cfg.PublishBackoff,
	}

	// The browser is scoped to the run: acquired here, released on every
	// exit path.
	br, err := browser.New(ctx, cfg.Headful, logger)
	if err != nil {
		return nil, err
	}
	defer br.Close()

	diag := browser.NewRecorder(cfg.DiagnosticsDir, logger)
	selector := mediastore.New(cfg.MediaDir, logger)
	session := browser.NewSessionProvider(cookies, cfg.Username, cfg.Password, timeouts, diag, logger)
	publisher := browser.NewPublishController(timeouts, diag, logger)

	var notifier ports.Notifier = alert.NoopNotifier{}
	if cfg.AlertCommand != "" {
		notifier = alert.NewCommandNotifier(cfg.AlertCommand, logger)
	}

	orchestrator := service.NewOrchestrator(
		selector, session, publisher, diag, notifier, tail.Lines, cfg.PostText, logger)

	return orchestrator.Run(br.Context())
}

// newLogger tees console output with the in-memory tail handed to the
// alerting collaborator.
func newLogger(tail *alert.TailWriter) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	enc := zapcore.NewConsoleEncoder(encCfg)
	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zap.InfoLevel),
		zapcore.NewCore(enc, zapcore.AddSync(tail), zap.InfoLevel),
	)
	return zap.New(core)
}

func printSummary(result *domain.RunResult) {
	if result == nil {
		return
	}
	fmt.Println("\n=== Run Summary ===")
	fmt.Printf("Run ID:       %s\n", result.RunID)
	fmt.Printf("Success:      %t\n", result.Success)
	if result.File.Path != "" {
		fmt.Printf("File:         %s (%d of %d)\n", result.File.Path, result.File.Index+1, result.File.Total)
	}
	if result.Session.Authenticated {
		fmt.Printf("Auth:         %s\n", result.Session.Method)
	}
	if result.Publish.Warning != "" {
		fmt.Printf("Warning:      %s\n", result.Publish.Warning)
	}
	if result.ErrorMessage != "" {
		fmt.Printf("Error:        %s\n", result.ErrorMessage)
	}
	if !result.CompletedAt.IsZero() {
		fmt.Printf("Completed At: %s\n", result.CompletedAt.Format("2006-01-02 15:04:05 UTC"))
	}
}
