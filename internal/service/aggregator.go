package service

import (
	"context"
	"math"
	"time"

	"github.com/LioYoro/EnergyTestComfac/internal/domain"
)

const dateLayout = "2006-01-02"

// Aggregator answers the dashboard's statistics queries. Daily statistics
// go through a precomputed-first provider chain; empty data always yields
// zero-valued responses, never errors.
type Aggregator struct {
	readings  ReadingStore
	summaries SummaryStore
	daily     SummaryProvider
	loc       *time.Location
	unitPrice float64
}

type Options struct {
	Location  *time.Location
	UnitPrice float64
}

func NewAggregator(readings ReadingStore, summaries SummaryStore, opts Options) *Aggregator {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{
		readings:  readings,
		summaries: summaries,
		daily: ProviderChain{
			PrecomputedSummaryProvider{Summaries: summaries},
			RawAggregationProvider{Readings: readings},
		},
		loc:       loc,
		unitPrice: opts.UnitPrice,
	}
}

// DailySummary returns the four-bucket statistics for the filtered day.
// When no date can be resolved the response is zero-valued with a null
// date.
func (a *Aggregator) DailySummary(ctx context.Context, f Filter) (*domain.SummaryResponse, error) {
	date, ok, err := a.resolveDate(ctx, f)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &domain.SummaryResponse{}, nil
	}
	agg, _, err := a.daily.DayStats(ctx, date, f.Floor)
	if err != nil {
		return nil, err
	}
	return buildSummary(date, agg), nil
}

func (a *Aggregator) resolveDate(ctx context.Context, f Filter) (time.Time, bool, error) {
	if f.Date != nil {
		return *f.Date, true, nil
	}
	return a.readings.EarliestDate(ctx, f.weekdayRestriction(), nil)
}

func buildSummary(date time.Time, agg domain.DayAggregate) *domain.SummaryResponse {
	perSecond := 0.0
	if agg.TotalRecords > 0 {
		perSecond = agg.TotalEnergy / float64(agg.TotalRecords)
	}
	ds := date.Format(dateLayout)
	return &domain.SummaryResponse{
		Date:         &ds,
		TotalRecords: agg.TotalRecords,
		PerSecond:    domain.SecondBucket{AvgEnergy: round5(perSecond)},
		PerMinute: domain.MinuteBucket{
			AvgCurrent: round2(agg.MinuteAvgCurrent),
			AvgEnergy:  round2(agg.TotalEnergy / float64(atLeastOne(agg.MinuteCount))),
			Count:      agg.MinuteCount,
		},
		PerHour: domain.HourBucket{
			AvgCurrent: round2(agg.HourAvgCurrent),
			AvgEnergy:  round2(agg.TotalEnergy / float64(atLeastOne(agg.HourCount))),
			Count:      agg.HourCount,
		},
		PerDay: domain.DayBucket{
			AvgCurrent:  round2(agg.AvgCurrent),
			TotalEnergy: round2(agg.TotalEnergy),
		},
	}
}

// HourlyData returns per-hour rows for the resolved day, preferring
// hourly_summary rows, plus the peak hour with its formatted local times.
func (a *Aggregator) HourlyData(ctx context.Context, f Filter) (*domain.HourlyDataResponse, error) {
	date, ok, err := a.resolveDate(ctx, f)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Readings may be gone while summaries survived.
		date, ok, err = a.summaries.EarliestDate(ctx)
		if err != nil {
			return nil, err
		}
	}
	if !ok {
		return &domain.HourlyDataResponse{Hours: []domain.HourlyRow{}}, nil
	}

	rows, err := a.summaries.HourlyByKey(ctx, date, f.Floor)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		rows, err = a.readings.HourlyByDate(ctx, date, f.Floor)
		if err != nil {
			return nil, err
		}
	}
	// Peak selection runs on unrounded energies so display rounding can
	// never change which hour wins.
	var peak *domain.PeakHour
	if p := peakOf(rows); p != nil {
		at := a.hourOn(date, p.Hour)
		peak = &domain.PeakHour{
			Hour:        p.Hour,
			AvgCurrent:  round2(p.AvgCurrent),
			TotalEnergy: round2(p.TotalEnergy),
			Time:        at.Format("3 PM"),
			DateTime:    at.Format("Monday, January 2, 2006 3:04 PM"),
		}
	}
	for i := range rows {
		rows[i] = roundHourly(rows[i])
	}
	if rows == nil {
		rows = []domain.HourlyRow{}
	}

	ds := date.Format(dateLayout)
	return &domain.HourlyDataResponse{Date: &ds, Hours: rows, Peak: peak}, nil
}

// WeeklyPeakHours returns the peak hour for each weekday that has at
// least one matching reading; empty weekdays are omitted.
func (a *Aggregator) WeeklyPeakHours(ctx context.Context, floor *int) ([]domain.WeeklyPeakEntry, error) {
	out := make([]domain.WeeklyPeakEntry, 0, 7)
	for wd := 0; wd < 7; wd++ {
		wd := wd
		rows, err := a.readings.HourlyAcrossDates(ctx, &wd, floor)
		if err != nil {
			return nil, err
		}
		peak := peakOf(rows)
		if peak == nil {
			continue
		}
		sample, ok, err := a.readings.EarliestDate(ctx, &wd, floor)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		at := a.hourOn(sample, peak.Hour)
		out = append(out, domain.WeeklyPeakEntry{
			Weekday:     wd,
			WeekdayName: time.Weekday(wd).String(),
			Hour:        peak.Hour,
			AvgCurrent:  round2(peak.AvgCurrent),
			TotalEnergy: round2(peak.TotalEnergy),
			SampleDate:  sample.Format(dateLayout),
			Time:        at.Format("3 PM"),
		})
	}
	return out, nil
}

// FloorAnalytics returns the rollup for the requested floor, or for every
// floor present when none is requested.
func (a *Aggregator) FloorAnalytics(ctx context.Context, f Filter) ([]domain.FloorAnalytics, error) {
	var floors []int
	if f.Floor != nil {
		floors = []int{*f.Floor}
	} else {
		var err error
		floors, err = a.readings.Floors(ctx)
		if err != nil {
			return nil, err
		}
	}
	weekday := f.weekdayRestriction()

	out := make([]domain.FloorAnalytics, 0, len(floors))
	for _, fl := range floors {
		fl := fl
		totals, err := a.readings.FloorTotals(ctx, fl, weekday)
		if err != nil {
			return nil, err
		}
		rows, err := a.readings.HourlyAcrossDates(ctx, weekday, &fl)
		if err != nil {
			return nil, err
		}
		trend, err := a.readings.DailyTrend(ctx, fl, weekday)
		if err != nil {
			return nil, err
		}

		fa := domain.FloorAnalytics{
			Floor:        fl,
			TotalEnergy:  round2(totals.TotalEnergy),
			TotalRecords: totals.TotalRecords,
			Cost:         round2(totals.TotalEnergy / 1000 * a.unitPrice),
			DailyTrend:   make([]domain.TrendPoint, 0, len(trend)),
		}
		if totals.TotalRecords > 0 {
			fa.AvgEnergyPerRecord = round2(totals.TotalEnergy / float64(totals.TotalRecords))
		}
		if peak := peakOf(rows); peak != nil {
			fa.Peak = &domain.FloorPeak{Hour: peak.Hour, TotalEnergy: round2(peak.TotalEnergy)}
		}
		for _, p := range trend {
			fa.DailyTrend = append(fa.DailyTrend, domain.TrendPoint{
				Date:        p.Date.Format(dateLayout),
				TotalEnergy: round2(p.TotalEnergy),
			})
		}
		out = append(out, fa)
	}
	return out, nil
}

// MinuteData returns one hour's readings grouped by minute, ascending.
func (a *Aggregator) MinuteData(ctx context.Context, date time.Time, hour int) ([]domain.MinuteRow, error) {
	rows, err := a.readings.MinuteByHour(ctx, date, hour)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].AvgCurrent = round2(rows[i].AvgCurrent)
		rows[i].TotalEnergy = round2(rows[i].TotalEnergy)
	}
	if rows == nil {
		rows = []domain.MinuteRow{}
	}
	return rows, nil
}

// AvailableDates returns every distinct reading date, ascending.
func (a *Aggregator) AvailableDates(ctx context.Context) ([]string, error) {
	dates, err := a.readings.Dates(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(dateLayout))
	}
	return out, nil
}

// peakOf picks the hour with the highest total energy. Strict comparison
// keeps the first of tied maxima in ascending-hour order.
func peakOf(rows []domain.HourlyRow) *domain.HourlyRow {
	var peak *domain.HourlyRow
	for i := range rows {
		if peak == nil || rows[i].TotalEnergy > peak.TotalEnergy {
			peak = &rows[i]
		}
	}
	return peak
}

func (a *Aggregator) hourOn(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, a.loc)
}

func roundHourly(row domain.HourlyRow) domain.HourlyRow {
	row.AvgCurrent = round2(row.AvgCurrent)
	row.TotalEnergy = round2(row.TotalEnergy)
	row.MaxCurrent = round2(row.MaxCurrent)
	row.MaxEnergy = round2(row.MaxEnergy)
	return row
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round5(v float64) float64 { return math.Round(v*100000) / 100000 }
