package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/venuemarket/moderation/internal/alert"
	"github.com/venuemarket/moderation/internal/config"
	"github.com/venuemarket/moderation/internal/httpapi"
	"github.com/venuemarket/moderation/internal/logger"
	"github.com/venuemarket/moderation/internal/messaging"
	"github.com/venuemarket/moderation/internal/ratelimit"
	"github.com/venuemarket/moderation/internal/review"
	"github.com/venuemarket/moderation/internal/store"
	"github.com/venuemarket/moderation/internal/strike"
)

func main() {
	logOpts := logger.FromEnv()
	if logOpts.Service == "" {
		logOpts.Service = "moderator"
	}
	logger.Init(logOpts)
	log := logger.Get()

	cfg := config.FromEnv()
	log.Info().Msg("starting venue moderation service")

	// Postgres setup.
	db, err := store.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Postgres")
	}
	if cfg.MigrateOnStart {
		if err := store.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}
	pg := store.New(db)

	// Redis setup.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(ctx).Err(); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	cancel()

	// NATS setup.
	natsConfig := messaging.DefaultNATSConfig()
	natsConfig.URL = cfg.NATSURL
	natsConfig.Name = cfg.NATSName

	natsClient, err := messaging.NewNATSClient(natsConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to NATS")
	}

	strikes := strike.NewStore(rdb, cfg.StrikeWindow)
	reviewer := review.NewService(
		alert.NewService(pg),
		strikes,
		natsClient,
		review.Policy{BlockAfter: cfg.BlockAfter},
	)

	if err := natsClient.ServeModerationCheck(reviewer.HandleCheckRequest); err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to moderation checks")
	}

	deps := httpapi.Deps{
		Reviewer: reviewer,
		Alerts:   pg,
		Strikes:  strikes,
		Ready:    pg.Ping,
	}
	// CHECK_RATE_LIMIT=0 turns the limiter off.
	if cfg.CheckRateLimit > 0 {
		deps.Limiter = ratelimit.NewLimiter(rdb)
		deps.Rule = ratelimit.CheckRule(cfg.CheckRateLimit, cfg.CheckRateWindow)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpapi.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	log.Info().
		Str("listen_addr", cfg.ListenAddr).
		Str("redis_addr", cfg.RedisAddr).
		Str("nats_url", natsConfig.URL).
		Int("block_after", cfg.BlockAfter).
		Dur("strike_window", cfg.StrikeWindow).
		Msg("venue moderation service running")

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	natsClient.Close()
	rdb.Close()
	db.Close()
}
