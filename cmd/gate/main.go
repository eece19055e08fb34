package main

import (
	"context"
	"database/sql"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"listing_gate/internal/adapters/artifact"
	"listing_gate/internal/adapters/csvfile"
	"listing_gate/internal/adapters/observability"
	redisad "listing_gate/internal/adapters/redis"
	"listing_gate/internal/app"
	"listing_gate/internal/check"
	"listing_gate/internal/domain"
	"listing_gate/internal/shared"
	mysqlrepo "listing_gate/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("dataset", cfg.Dataset).
		Str("reference", cfg.Reference).
		Float64("kl_threshold", cfg.KLThreshold).
		Int("workers", cfg.Workers).
		Msg("gate starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	var source domain.DatasetSource
	if cfg.ArtifactBase != "" {
		source, err = artifact.New(cfg.ArtifactBase, cfg.ArtifactKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize artifact client")
		}
	} else {
		source = csvfile.NewSource(cfg.DataDir)
	}

	gate := app.NewGateService(source, repo, cache, cfg.Workers)
	report, err := gate.Run(ctx, app.RunSpec{
		Dataset:    cfg.Dataset,
		DatasetVer: cfg.DatasetVer,
		Reference:  cfg.Reference,
		RefVer:     cfg.RefVer,
		Params: check.Params{
			KLThreshold: cfg.KLThreshold,
			MinRows:     cfg.MinRows,
			MaxRows:     cfg.MaxRows,
			MinPrice:    cfg.MinPrice,
			MaxPrice:    cfg.MaxPrice,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("gate run failed")
	}

	if !report.Passed {
		log.Error().Int64("report_id", report.ID).Msg("dataset rejected")
		os.Exit(1)
	}
	log.Info().Int64("report_id", report.ID).Msg("dataset accepted")
}
