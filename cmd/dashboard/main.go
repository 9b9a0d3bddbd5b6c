package main

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LioYoro/EnergyTestComfac/internal/config"
	"github.com/LioYoro/EnergyTestComfac/internal/dashboard"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	api := dashboard.NewClient(config.APIURL())
	s := dashboard.New(api, config.DashboardCacheSize())

	addr := config.DashboardAddr()
	log.Info().Str("addr", addr).Str("api", config.APIURL()).Msg("dashboard listening")
	log.Fatal().Err(http.ListenAndServe(addr, s)).Msg("server exit")
}
