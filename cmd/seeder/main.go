package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"hostel_finder/internal/adapters/hostelapi"
	"hostel_finder/internal/adapters/observability"
	redisad "hostel_finder/internal/adapters/redis"
	"hostel_finder/internal/app"
	"hostel_finder/internal/domain"
	"hostel_finder/internal/shared"
	mysqlrepo "hostel_finder/internal/storage/mysql"
)

func main() {
	_ = godotenv.Load()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	f, err := os.Open(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("open seed file")
	}
	recs, err := app.DecodeSeed(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file")
	}

	db, err := mysqlrepo.Open(ctx, cfg.MySQL.DSN(), cfg.MySQL.MaxConns)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()
	if cfg.MigrateOnStart {
		if err := mysqlrepo.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate failed")
		}
	}

	// a running API keeps serving cached searches unless the generation moves
	var cache domain.Cache = domain.NopCache{}
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}

	seeder := app.NewSeedService(mysqlrepo.New(db), cache, cfg.SeedWorkers)
	res, err := seeder.Import(ctx, recs)
	if err != nil {
		log.Error().Err(err).Msg("seeding interrupted")
	}
	log.Info().Int("inserted", res.Inserted).Int("failed", res.Failed).Msg("seeding completed")

	// optional check against a running API
	if cfg.SeedAPIURL != "" {
		client, err := hostelapi.New(cfg.SeedAPIURL, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize API client")
		}
		if o, err := client.Options(ctx); err == nil {
			log.Info().Strs("districts", o.Districts).Int("amenities", len(o.Amenities)).Msg("api catalog")
		}
		s, err := client.Stats(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("post-seed stats check failed")
		} else {
			log.Info().
				Int64("total", s.TotalHostels).
				Int64("available", s.AvailableHostels).
				Float64("averageRating", s.AverageRating).
				Msg("api reports")
		}
	}

	if res.Failed > 0 || err != nil {
		os.Exit(1)
	}
}
