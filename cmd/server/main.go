package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/welldanyogia/webrana-attachments/internal/api"
	"github.com/welldanyogia/webrana-attachments/internal/attachment"
	"github.com/welldanyogia/webrana-attachments/internal/config"
	"github.com/welldanyogia/webrana-attachments/internal/database"
	"github.com/welldanyogia/webrana-attachments/internal/logger"
	"github.com/welldanyogia/webrana-attachments/internal/models"
	"github.com/welldanyogia/webrana-attachments/internal/storage"
	"github.com/welldanyogia/webrana-attachments/internal/upload"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWithValidation()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	events := logger.NewEventLogger(logger.ParseLevel(cfg.LogLevel))
	log := events.GetLogger()
	slog.SetDefault(log)

	log.Info("Starting attachment server...")
	cfg.LogConfig(log)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return err
	}

	store, err := storage.NewLocalStorage(cfg.WebRoot)
	if err != nil {
		return fmt.Errorf("failed to initialize web root: %w", err)
	}
	receiver, err := upload.NewReceiver(cfg.UploadTempDir, cfg.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("failed to initialize upload directory: %w", err)
	}

	registry, err := newRegistry(cfg, store, events)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)

	e, err := api.NewRouter(&api.RouterConfig{
		DB:             db,
		FileStorage:    store,
		Registry:       registry,
		Receiver:       receiver,
		Events:         events,
		Logger:         log,
		AllowedOrigins: cfg.Origins(),
		Production:     cfg.AppEnv == "production",
		RateLimit:      cfg.RateLimitRequests,
		RateBurst:      cfg.RateLimitBurst,
		MaxUploadSize:  cfg.MaxUploadSize,
		Done:           done,
	})
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.APIPort)
	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		return err
	}
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// newRegistry configures one attachment manager per record type. Fields come
// from the schema file when it names the type, else from the models.
func newRegistry(cfg *config.Config, store storage.FileStorage, events *logger.EventLogger) (*attachment.Registry, error) {
	schema := config.AttachmentSchema{}
	if cfg.AttachmentSchemaFile != "" {
		loaded, err := config.LoadAttachmentSchema(cfg.AttachmentSchemaFile)
		if err != nil {
			return nil, err
		}
		schema = loaded
	}

	registry := attachment.NewRegistry(store,
		attachment.WithCollisionPolicy(cfg.CollisionPolicy),
		attachment.WithMaxSize(cfg.MaxUploadSize),
		attachment.WithReporter(events),
	)

	if _, err := registry.Configure(&models.Profile{}, schema.FieldsFor(models.ProfileRecordType, models.ProfileAttachmentFields())...); err != nil {
		return nil, err
	}
	if _, err := registry.Configure(&models.Product{}, schema.FieldsFor(models.ProductRecordType, nil)...); err != nil {
		return nil, err
	}
	return registry, nil
}
