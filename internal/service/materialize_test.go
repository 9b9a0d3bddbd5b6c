package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LioYoro/EnergyTestComfac/internal/domain"
	"github.com/LioYoro/EnergyTestComfac/internal/service"
)

type captureSummaries struct {
	daily  map[string]domain.DayAggregate
	hourly map[string][]domain.HourlyRow
}

func newCaptureSummaries() *captureSummaries {
	return &captureSummaries{
		daily:  map[string]domain.DayAggregate{},
		hourly: map[string][]domain.HourlyRow{},
	}
}

func (c *captureSummaries) ReplaceDaily(_ context.Context, date time.Time, floor *int, agg domain.DayAggregate) error {
	c.daily[summaryKey(date, floor)] = agg
	return nil
}

func (c *captureSummaries) ReplaceHourly(_ context.Context, date time.Time, floor *int, rows []domain.HourlyRow) error {
	c.hourly[summaryKey(date, floor)] = rows
	return nil
}

func TestMaterializeRebuildsEveryKey(t *testing.T) {
	jan1 := day(2024, time.January, 1)
	jan2 := day(2024, time.January, 2)
	readings := &memReadings{readings: []domain.Reading{
		rd(jan1, 9, 0, 1, 2, 100),
		rd(jan1, 10, 0, 2, 3, 200),
		rd(jan2, 9, 0, 1, 4, 300),
	}}
	sink := newCaptureSummaries()
	m := service.NewMaterializeService(readings, sink)

	n, err := m.Rebuild(context.Background())
	require.NoError(t, err)
	// 2 dates x (all-floors + floor 1 + floor 2)
	assert.Equal(t, 6, n)

	allJan1 := sink.daily[summaryKey(jan1, nil)]
	assert.Equal(t, 2, allJan1.TotalRecords)
	assert.Equal(t, 300.0, allJan1.TotalEnergy)

	floor2Jan2 := sink.daily[summaryKey(jan2, intp(2))]
	assert.Equal(t, 0, floor2Jan2.TotalRecords)

	require.Len(t, sink.hourly[summaryKey(jan1, nil)], 2)
}

func TestMaterializedRowsServePrecomputedPath(t *testing.T) {
	jan1 := day(2024, time.January, 1)
	readings := &memReadings{readings: []domain.Reading{
		rd(jan1, 9, 0, 1, 2, 100),
		rd(jan1, 9, 1, 1, 4, 200),
	}}
	sink := newCaptureSummaries()
	_, err := service.NewMaterializeService(readings, sink).Rebuild(context.Background())
	require.NoError(t, err)

	// Load the captured aggregates into a summary store and query with
	// readings gone: the precomputed path must reproduce the raw result.
	summaries := newMemSummaries()
	for k, agg := range sink.daily {
		summaries.daily[k] = domain.DailySummary{
			TotalRecords:     agg.TotalRecords,
			AvgCurrent:       agg.AvgCurrent,
			TotalEnergy:      agg.TotalEnergy,
			MinuteCount:      agg.MinuteCount,
			MinuteAvgCurrent: agg.MinuteAvgCurrent,
			HourCount:        agg.HourCount,
			HourAvgCurrent:   agg.HourAvgCurrent,
		}
	}

	want, err := newAgg(t, readings, newMemSummaries()).DailySummary(context.Background(), service.Filter{Date: &jan1, Floor: intp(1)})
	require.NoError(t, err)
	got, err := newAgg(t, &memReadings{}, summaries).DailySummary(context.Background(), service.Filter{Date: &jan1, Floor: intp(1)})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
