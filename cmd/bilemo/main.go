package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/bilemo/internal/auth"
	"github.com/gosuda/bilemo/internal/cache"
	"github.com/gosuda/bilemo/internal/config"
	"github.com/gosuda/bilemo/internal/server"
	"github.com/gosuda/bilemo/internal/store/postgres"
	redisstore "github.com/gosuda/bilemo/internal/store/redis"
	"github.com/gosuda/bilemo/internal/telemetry"
)

const usage = `usage: bilemo [command]

commands:
  serve              run the HTTP API (default)
  migrate [cmd ...]  run a goose migration command (default "up")
  seed               load the demo fixtures in one transaction`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bilemo failed")
	}
}

func run(args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration from environment.
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	setupLogging(cfg.Log)

	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		return serve(ctx, cfg)
	case "migrate":
		return migrate(ctx, cfg, args)
	case "seed":
		return seed(ctx, cfg)
	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func setupLogging(cfg config.LogConfig) {
	level, parseErr := zerolog.ParseLevel(cfg.Level)
	if parseErr != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

func openStore(ctx context.Context, cfg *config.Config) (*postgres.Store, error) {
	if cfg.Database.MaxConns > math.MaxInt32 {
		return nil, fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}
	return postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
}

func migrate(ctx context.Context, cfg *config.Config, args []string) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	command := "up"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}
	return store.Migrate(ctx, command, args...)
}

func seed(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	now := time.Now().UTC()
	rng := rand.New(rand.NewPCG(uint64(now.UnixNano()), 0)) //nolint:gosec // fixture data only
	set, err := postgres.BuildFixtures(rng, auth.HashPassword, now)
	if err != nil {
		return err
	}
	if err := store.Seed(ctx, set); err != nil {
		return err
	}

	log.Info().
		Int("clients", len(set.Clients)).
		Int("users", len(set.Users)).
		Int("products", len(set.Products)).
		Msg("fixtures loaded")
	return nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if flushErr := shutdownTracing(flushCtx); flushErr != nil {
			log.Warn().Err(flushErr).Msg("tracing shutdown")
		}
	}()

	// Connect to PostgreSQL.
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Redis is optional: without it each replica only invalidates its own cache.
	var bus cache.Bus
	if cfg.Redis.Addr != "" {
		pubsub, redisErr := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if redisErr != nil {
			return redisErr
		}
		defer pubsub.Close()
		bus = pubsub
	}

	responses := cache.New(cache.Config{
		Capacity:        cfg.Cache.Capacity,
		Shards:          cfg.Cache.Shards,
		TTL:             cfg.Cache.TTL,
		EvictionPercent: cfg.Cache.EvictionPercent,
	}, bus, log.Logger)

	if bus != nil {
		go func() {
			if listenErr := responses.Listen(ctx); listenErr != nil && !errors.Is(listenErr, context.Canceled) {
				log.Error().Err(listenErr).Msg("cache invalidation listener stopped")
			}
		}()
	}

	authSvc := auth.NewService(store.Clients(), cfg.JWT.Secret, cfg.JWT.AccessTTL)

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, responses, authSvc, log.Logger)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
			stop()
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
