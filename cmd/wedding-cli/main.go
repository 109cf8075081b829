package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/console"
	"wedding-rsvp/internal/directory"
	"wedding-rsvp/internal/rsvp"
	"wedding-rsvp/internal/session"
	"wedding-rsvp/internal/storeclient"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	// stdout belongs to the menus
	log := cfg.Logger(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := openSessionKV(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing sessions")
	}
	defer closeKV()

	sessions := session.NewManager(kv, map[session.Role]string{
		session.RoleGuest: cfg.GuestPassword,
		session.RoleAdmin: cfg.AdminPassword,
	},
		session.WithLogger(log),
		session.WithPolicy(session.RoleGuest, session.Policy{Duration: cfg.GuestSessionDuration, Poll: cfg.GuestSessionPoll}),
		session.WithPolicy(session.RoleAdmin, session.Policy{Duration: cfg.AdminSessionDuration, Poll: cfg.AdminSessionPoll}),
	)

	client := storeclient.New(cfg.APIURL,
		storeclient.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		storeclient.WithAdminToken(cfg.AdminAPIToken),
	)

	c := console.New(os.Stdin, os.Stdout, sessions,
		rsvp.NewSubmitter(client, log),
		directory.New(client, log),
		console.Config{
			CoupleNames: cfg.CoupleNames,
			WeddingDate: cfg.WeddingDate,
			ExportDir:   cfg.ExportDir,
		}, log)

	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Console stopped")
		os.Exit(1)
	}
	fmt.Println("\nGoodbye! 👋")
}

// openSessionKV prefers Redis and falls back to the session file when Redis
// is not configured or not reachable
func openSessionKV(ctx context.Context, cfg *config.Config, log zerolog.Logger) (session.KV, func(), error) {
	if cfg.RedisURL != "" {
		kv, err := session.DialRedis(ctx, cfg.RedisURL, "wedding-rsvp:session:")
		if err == nil {
			log.Info().Msg("Sessions stored in Redis")
			return kv, func() { kv.Close() }, nil
		}
		log.Warn().Err(err).Msg("Redis not available, using session file")
	}

	kv, err := session.NewFileKV(cfg.SessionFile)
	if err != nil {
		return nil, nil, err
	}
	return kv, func() {}, nil
}
