package service

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LioYoro/EnergyTestComfac/internal/config"
	"github.com/LioYoro/EnergyTestComfac/internal/repository"
)

type Services struct {
	Repos       *repository.Repos
	Aggregator  *Aggregator
	Ingest      *IngestService
	Materialize *MaterializeService
}

func New(db *sqlx.DB) (*Services, error) {
	loc, err := time.LoadLocation(config.Timezone())
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", config.Timezone(), err)
	}
	repos := repository.New(db)
	return &Services{
		Repos: repos,
		Aggregator: NewAggregator(repos.Readings, repos.Summaries, Options{
			Location:  loc,
			UnitPrice: config.UnitPrice(),
		}),
		Ingest:      &IngestService{readings: repos.Readings, loc: loc},
		Materialize: &MaterializeService{readings: repos.Readings, summaries: repos.Summaries},
	}, nil
}
