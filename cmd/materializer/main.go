package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LioYoro/EnergyTestComfac/internal/config"
	"github.com/LioYoro/EnergyTestComfac/internal/database"
	"github.com/LioYoro/EnergyTestComfac/internal/service"
)

// Rebuilds daily_summary and hourly_summary from raw readings. Intended
// to run out-of-band (cron or a timer) so the API never writes summaries.
func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	svcs, err := service.New(db)
	if err != nil {
		log.Fatal().Err(err).Msg("service init failed")
	}

	start := time.Now()
	n, err := svcs.Materialize.Rebuild(context.Background())
	if err != nil {
		log.Fatal().Err(err).Int("rebuilt", n).Msg("materialization failed")
	}
	log.Info().Int("rebuilt", n).Dur("took", time.Since(start)).Msg("materialization done")
}
