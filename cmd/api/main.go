package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LioYoro/EnergyTestComfac/internal/config"
	"github.com/LioYoro/EnergyTestComfac/internal/database"
	httpHandlers "github.com/LioYoro/EnergyTestComfac/internal/http"
	"github.com/LioYoro/EnergyTestComfac/internal/service"
)

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

	app := fiber.New()
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	httpHandlers.Register(app, svcs)

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
