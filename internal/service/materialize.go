package service

import (
	"context"
	"time"

	"github.com/LioYoro/EnergyTestComfac/internal/domain"
)

// SummaryWriter is the write surface of the summary tables. Implemented
// by repository.SummaryRepo.
type SummaryWriter interface {
	ReplaceDaily(ctx context.Context, date time.Time, floor *int, agg domain.DayAggregate) error
	ReplaceHourly(ctx context.Context, date time.Time, floor *int, rows []domain.HourlyRow) error
}

// MaterializeService rebuilds the summary tables from raw readings. It is
// the only writer of summaries and runs out-of-band (cmd/materializer);
// the aggregation service never triggers it.
type MaterializeService struct {
	readings  ReadingStore
	summaries SummaryWriter
}

func NewMaterializeService(readings ReadingStore, summaries SummaryWriter) *MaterializeService {
	return &MaterializeService{readings: readings, summaries: summaries}
}

// Rebuild recomputes daily and hourly summaries for every date present,
// once per floor and once for the all-floors key. Returns the number of
// (date, floor) keys rebuilt.
func (m *MaterializeService) Rebuild(ctx context.Context) (int, error) {
	dates, err := m.readings.Dates(ctx)
	if err != nil {
		return 0, err
	}
	floors, err := m.readings.Floors(ctx)
	if err != nil {
		return 0, err
	}

	keys := make([]*int, 0, len(floors)+1)
	keys = append(keys, nil)
	for _, fl := range floors {
		fl := fl
		keys = append(keys, &fl)
	}

	n := 0
	for _, date := range dates {
		for _, floor := range keys {
			agg, err := m.readings.AggregateDay(ctx, date, floor)
			if err != nil {
				return n, err
			}
			if err := m.summaries.ReplaceDaily(ctx, date, floor, agg); err != nil {
				return n, err
			}
			rows, err := m.readings.HourlyByDate(ctx, date, floor)
			if err != nil {
				return n, err
			}
			if err := m.summaries.ReplaceHourly(ctx, date, floor, rows); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
