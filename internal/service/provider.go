package service

import (
	"context"
	"time"

	"github.com/LioYoro/EnergyTestComfac/internal/domain"
)

// ReadingStore is the raw-readings read surface the aggregation service
// depends on. Implemented by repository.ReadingRepo.
type ReadingStore interface {
	EarliestDate(ctx context.Context, weekday, floor *int) (time.Time, bool, error)
	AggregateDay(ctx context.Context, date time.Time, floor *int) (domain.DayAggregate, error)
	HourlyByDate(ctx context.Context, date time.Time, floor *int) ([]domain.HourlyRow, error)
	HourlyAcrossDates(ctx context.Context, weekday, floor *int) ([]domain.HourlyRow, error)
	MinuteByHour(ctx context.Context, date time.Time, hour int) ([]domain.MinuteRow, error)
	Dates(ctx context.Context) ([]time.Time, error)
	Floors(ctx context.Context) ([]int, error)
	FloorTotals(ctx context.Context, floor int, weekday *int) (domain.FloorTotals, error)
	DailyTrend(ctx context.Context, floor int, weekday *int) ([]domain.DailyEnergy, error)
}

// SummaryStore is the precomputed-summary read surface. Implemented by
// repository.SummaryRepo.
type SummaryStore interface {
	DailyByKey(ctx context.Context, date time.Time, floor *int) (*domain.DailySummary, error)
	HourlyByKey(ctx context.Context, date time.Time, floor *int) ([]domain.HourlyRow, error)
	EarliestDate(ctx context.Context) (time.Time, bool, error)
}

// SummaryProvider answers day statistics for a (date, floor) key. ok
// reports whether this provider had an answer; implementations must agree
// with each other on identical underlying readings.
type SummaryProvider interface {
	DayStats(ctx context.Context, date time.Time, floor *int) (agg domain.DayAggregate, ok bool, err error)
}

// PrecomputedSummaryProvider reads the daily_summary table. A missing row
// is a miss, not an error.
type PrecomputedSummaryProvider struct {
	Summaries SummaryStore
}

func (p PrecomputedSummaryProvider) DayStats(ctx context.Context, date time.Time, floor *int) (domain.DayAggregate, bool, error) {
	row, err := p.Summaries.DailyByKey(ctx, date, floor)
	if err != nil || row == nil {
		return domain.DayAggregate{}, false, err
	}
	return domain.DayAggregate{
		TotalRecords:     row.TotalRecords,
		AvgCurrent:       row.AvgCurrent,
		TotalEnergy:      row.TotalEnergy,
		MinuteCount:      row.MinuteCount,
		MinuteAvgCurrent: row.MinuteAvgCurrent,
		HourCount:        row.HourCount,
		HourAvgCurrent:   row.HourAvgCurrent,
	}, true, nil
}

// RawAggregationProvider computes the same statistics on the fly from raw
// readings. It always answers, possibly with a zero aggregate.
type RawAggregationProvider struct {
	Readings ReadingStore
}

func (r RawAggregationProvider) DayStats(ctx context.Context, date time.Time, floor *int) (domain.DayAggregate, bool, error) {
	agg, err := r.Readings.AggregateDay(ctx, date, floor)
	if err != nil {
		return domain.DayAggregate{}, false, err
	}
	return agg, true, nil
}

// ProviderChain tries each provider in order and stops at the first that
// answers.
type ProviderChain []SummaryProvider

func (c ProviderChain) DayStats(ctx context.Context, date time.Time, floor *int) (domain.DayAggregate, bool, error) {
	for _, p := range c {
		agg, ok, err := p.DayStats(ctx, date, floor)
		if err != nil {
			return domain.DayAggregate{}, false, err
		}
		if ok {
			return agg, true, nil
		}
	}
	return domain.DayAggregate{}, false, nil
}
