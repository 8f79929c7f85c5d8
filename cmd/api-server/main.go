package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"starterkit-server/internal/config"
	"starterkit-server/internal/logging"
	"starterkit-server/internal/routes"
	"starterkit-server/internal/server"
	"starterkit-server/pkg/cache"
	"starterkit-server/pkg/db"
	"starterkit-server/pkg/health"
)

func main() {
	_ = godotenv.Load() // best-effort
	cfg := config.FromEnv()
	logging.Setup(cfg.LogLevel, cfg.Env)

	log.Info().
		Str("version", cfg.Version).
		Str("environment", cfg.Env).
		Msg("app.startup_started")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, db.Config{
		URL:      cfg.DatabaseURL,
		MinConns: cfg.DBMinConns,
		MaxConns: cfg.DBMaxConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database.connection_failed")
	}
	defer pool.Close()
	log.Info().
		Int32("min_conns", cfg.DBMinConns).
		Int32("max_conns", cfg.DBMaxConns).
		Msg("database.connection_initialized")

	var c cache.Cache
	if cfg.ValkeyAddr != "" {
		vc, err := cache.NewValkey(cfg.ValkeyAddr, cfg.ValkeyPassword)
		if err != nil {
			log.Error().Err(err).Msg("cache.connection_failed")
			c = cache.NewMemory()
		} else {
			defer vc.Close()
			c = vc
		}
	} else {
		c = cache.NewMemory()
	}

	checks := []health.Check{
		{Name: "database", Required: true, Probe: pool.Ping},
	}
	if cfg.ValkeyAddr != "" {
		checks = append(checks, health.Check{Name: "cache", Required: false, Probe: c.Ping})
	}

	api := server.New(routes.Deps{
		DB:            pool,
		Checks:        checks,
		Name:          cfg.AppName,
		Version:       cfg.Version,
		Env:           cfg.Env,
		StartedAt:     time.Now(),
		HealthTimeout: cfg.HealthTimeout,
	}, cfg.CORSAllowedOrigins)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("app.startup_completed")

	if err := server.StartHTTP(ctx, addr, api.Router()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("api.serve_failed")
	}
	log.Info().Msg("app.shutdown_completed")
}
