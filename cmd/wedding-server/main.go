package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"wedding-rsvp/internal/api"
	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/notify"
	"wedding-rsvp/internal/storage"
	"wedding-rsvp/internal/storage/sqlstore"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	fmt.Println("💍 Wedding RSVP Server")
	fmt.Println("======================")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	log := cfg.Logger(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("Error initializing storage")
	}
	defer store.Close()

	// Initialize notifications
	notifier, closeNotifier, err := buildNotifier(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing notifications")
	}
	defer closeNotifier()

	gin.SetMode(gin.ReleaseMode)
	srv := api.NewServer(store, notifier, api.Config{
		ServiceName: "Hochzeit " + cfg.CoupleNames,
		AdminToken:  cfg.AdminAPIToken,
		CORSOrigins: cfg.CORSOrigins,
	}, log)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed")
			stop()
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	fmt.Println("\n\nShutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
	srv.Wait()
	fmt.Println("Goodbye! 👋")
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.Store, error) {
	storeLog := log.With().Str("component", "storage").Logger()

	switch cfg.StorageDriver {
	case "json":
		path := filepath.Join(cfg.DataDir, "guests.json")
		storeLog.Info().Str("path", path).Msg("Using JSON file storage")
		return storage.NewJSONStore(path)
	case "sqlite3":
		dsn := cfg.DatabaseURL
		if dsn == "" {
			if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
			dsn = filepath.Join(cfg.DataDir, "guests.db")
		}
		return sqlstore.Open(ctx, "sqlite3", dsn, storeLog)
	case "postgres":
		return sqlstore.Open(ctx, "postgres", cfg.DatabaseURL, storeLog)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func buildNotifier(ctx context.Context, cfg *config.Config, log zerolog.Logger) (notify.Notifier, func(), error) {
	notifiers := notify.Multi{
		notify.NewEmail(notify.EmailConfig{
			APIKey:      cfg.SendGridAPIKey,
			FromEmail:   cfg.SendGridFromEmail,
			FromName:    cfg.SendGridFromName,
			CoupleNames: cfg.CoupleNames,
			WeddingDate: cfg.WeddingDate,
		}, log),
	}
	if !cfg.WhatsAppEnabled {
		return notifiers, func() {}, nil
	}

	wa, err := notify.NewWhatsApp(ctx, notify.WhatsAppConfig{
		DataDir:      cfg.WhatsAppDataDir,
		NotifyNumber: cfg.WhatsAppNotifyNumber,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	fmt.Println("Connecting to WhatsApp...")
	if err := wa.Connect(); err != nil {
		return nil, nil, err
	}
	fmt.Println("✅ Connected to WhatsApp!")
	return append(notifiers, wa), wa.Disconnect, nil
}
