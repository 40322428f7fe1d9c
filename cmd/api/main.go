package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	server "hostel_finder/internal/adapters/http_server"
	"hostel_finder/internal/adapters/observability"
	redisad "hostel_finder/internal/adapters/redis"
	"hostel_finder/internal/app"
	"hostel_finder/internal/domain"
	"hostel_finder/internal/shared"
	mysqlrepo "hostel_finder/internal/storage/mysql"
)

func main() {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := mysqlrepo.Open(ctx, cfg.MySQL.DSN(), cfg.MySQL.MaxConns)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()
	log.Info().Str("host", cfg.MySQL.Host).Str("database", cfg.MySQL.Database).Msg("database connection ok")

	if cfg.MigrateOnStart {
		if err := mysqlrepo.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate failed")
		}
	}

	// deps
	repo := mysqlrepo.New(db)
	var cache domain.Cache = domain.NopCache{}
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed; cache errors will fall through to mysql")
		}
		cache = rc
	}
	q := app.NewQueryService(repo, cache, cfg.CacheTTLDuration())
	c := app.NewCommandService(repo, cache)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	if cfg.MetricsAddr != "" {
		observability.Serve(cfg.MetricsAddr, reg)
	} else {
		srv.Mount("/metrics", observability.MetricsHandler(reg))
	}
	srv.MountHandlers(&server.Handlers{Q: q, C: c, SearchRPS: cfg.RateLimitRPS})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}
