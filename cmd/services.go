package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/xvierd/purrmodoro/internal/adapters/clock"
	"github.com/xvierd/purrmodoro/internal/adapters/gemini"
	"github.com/xvierd/purrmodoro/internal/adapters/git"
	"github.com/xvierd/purrmodoro/internal/adapters/notification"
	"github.com/xvierd/purrmodoro/internal/adapters/storage"
	"github.com/xvierd/purrmodoro/internal/config"
	"github.com/xvierd/purrmodoro/internal/domain"
	"github.com/xvierd/purrmodoro/internal/ports"
	"github.com/xvierd/purrmodoro/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	storage  ports.Storage
	prefs    *services.PreferenceService
	history  *services.HistoryService
	wisdom   *services.WisdomService
	state    *services.StateService
	git      ports.GitDetector
	notifier *notification.Notifier
	sound    *notification.SoundPlayer
	config   *config.Config
	logger   *slog.Logger
	logFile  io.Closer
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
// When logToFile is set, log records go to the data directory instead of
// stderr so they do not corrupt the full-screen timer.
func initializeServices(logToFile bool) error {
	// Load configuration
	var err error
	app.config, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
	}

	app.logger, app.logFile, err = newLogger(app.config, logToFile)
	if err != nil {
		return err
	}

	// Determine database path
	path := dbPath
	if path == "" {
		path = config.GetDBPath(app.config)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Initialize storage
	app.storage, err = storage.New(path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.notifier = notification.New(&app.config.Notifications)
	app.sound = notification.NewSoundPlayer(&app.config.Notifications)
	app.git = git.NewDetector()

	workingDir, err := os.Getwd()
	if err != nil {
		workingDir = ""
	}

	quotes := gemini.NewClient(gemini.Config{
		Endpoint:   app.config.Wisdom.Endpoint,
		Model:      app.config.Wisdom.Model,
		APIKey:     app.config.Wisdom.APIKey(),
		Timeout:    time.Duration(app.config.Wisdom.Timeout),
		MaxRetries: app.config.Wisdom.MaxRetries,
	}, app.logger)

	app.prefs = services.NewPreferenceService(app.storage.Preferences(), app.logger)
	app.history = services.NewHistoryService(app.storage.History(), app.git, workingDir)
	app.wisdom = services.NewWisdomService(quotes, app.config.Wisdom.Enabled, app.logger)
	app.state = services.NewStateService(app.prefs, app.history, app.wisdom)

	return nil
}

// newController builds a timer controller on the real clock, wired to the
// desktop notifier, the sound player and the completion history.
func newController(ctx context.Context, mode domain.Mode) (*services.TimerController, error) {
	controller, err := services.NewTimerController(ctx, services.TimerControllerDeps{
		Clock:            clock.NewReal(),
		Preferences:      app.prefs,
		Sound:            app.sound,
		Notifier:         app.notifier,
		NotificationIcon: app.config.Notifications.Icon,
		History:          app.history,
		Logger:           app.logger,
	}, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create timer: %w", err)
	}
	return controller, nil
}

// newLogger returns a text logger at the configured level.
func newLogger(cfg *config.Config, toFile bool) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}
	if !toFile {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil, nil
	}

	path := config.GetLogPath(cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var err error
	if app.storage != nil {
		err = app.storage.Close()
		app.storage = nil
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
	return err
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
