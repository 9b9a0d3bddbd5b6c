package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LioYoro/EnergyTestComfac/internal/domain"
	"github.com/LioYoro/EnergyTestComfac/internal/service"
)

// stubReadings returns canned data for every ReadingStore method.
type stubReadings struct {
	earliest *time.Time
	agg      domain.DayAggregate
	hourly   []domain.HourlyRow
	minutes  []domain.MinuteRow
	dates    []time.Time
	floors   []int
	err      error
}

func (s *stubReadings) EarliestDate(context.Context, *int, *int) (time.Time, bool, error) {
	if s.err != nil {
		return time.Time{}, false, s.err
	}
	if s.earliest == nil {
		return time.Time{}, false, nil
	}
	return *s.earliest, true, nil
}

func (s *stubReadings) AggregateDay(context.Context, time.Time, *int) (domain.DayAggregate, error) {
	return s.agg, s.err
}

func (s *stubReadings) HourlyByDate(context.Context, time.Time, *int) ([]domain.HourlyRow, error) {
	return s.hourly, s.err
}

func (s *stubReadings) HourlyAcrossDates(context.Context, *int, *int) ([]domain.HourlyRow, error) {
	return s.hourly, s.err
}

func (s *stubReadings) MinuteByHour(context.Context, time.Time, int) ([]domain.MinuteRow, error) {
	return s.minutes, s.err
}

func (s *stubReadings) Dates(context.Context) ([]time.Time, error) {
	return s.dates, s.err
}

func (s *stubReadings) Floors(context.Context) ([]int, error) {
	return s.floors, s.err
}

func (s *stubReadings) FloorTotals(context.Context, int, *int) (domain.FloorTotals, error) {
	return domain.FloorTotals{}, s.err
}

func (s *stubReadings) DailyTrend(context.Context, int, *int) ([]domain.DailyEnergy, error) {
	return nil, s.err
}

// stubSummaries always misses, pushing the chain to the raw path.
type stubSummaries struct{}

func (stubSummaries) DailyByKey(context.Context, time.Time, *int) (*domain.DailySummary, error) {
	return nil, nil
}

func (stubSummaries) HourlyByKey(context.Context, time.Time, *int) ([]domain.HourlyRow, error) {
	return nil, nil
}

func (stubSummaries) EarliestDate(context.Context) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

func newApp(t *testing.T, readings *stubReadings) *fiber.App {
	t.Helper()
	app := fiber.New()
	agg := service.NewAggregator(readings, stubSummaries{}, service.Options{UnitPrice: 10})
	Register(app, &service.Services{Aggregator: agg})
	return app
}

func decode(t *testing.T, body io.Reader, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(out))
}

func TestSummaryEndpoint(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	app := newApp(t, &stubReadings{
		earliest: &d,
		agg: domain.DayAggregate{
			TotalRecords: 2,
			AvgCurrent:   6,
			TotalEnergy:  300,
			MinuteCount:  2,
			HourCount:    1,
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/summary?date=2024-01-01&floor=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body domain.SummaryResponse
	decode(t, resp.Body, &body)
	assert.Equal(t, 2, body.TotalRecords)
	assert.Equal(t, 6.0, body.PerDay.AvgCurrent)
	assert.Equal(t, 300.0, body.PerDay.TotalEnergy)
}

func TestSummaryEndpointInvalidDate(t *testing.T) {
	app := newApp(t, &stubReadings{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/summary?date=01-01-2024", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decode(t, resp.Body, &body)
	assert.Contains(t, body["error"], "invalid date")
}

func TestSummaryEndpointEmptyStore(t *testing.T) {
	app := newApp(t, &stubReadings{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/summary", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body domain.SummaryResponse
	decode(t, resp.Body, &body)
	assert.Nil(t, body.Date)
	assert.Equal(t, 0, body.TotalRecords)
}

func TestSummaryEndpointStoreFailure(t *testing.T) {
	app := newApp(t, &stubReadings{err: errors.New("connection refused")})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/summary", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	decode(t, resp.Body, &body)
	assert.Contains(t, body["error"], "connection refused")
}

func TestHourlyDataEndpoint(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	app := newApp(t, &stubReadings{
		earliest: &d,
		hourly: []domain.HourlyRow{
			{Hour: 1, TotalEnergy: 10},
			{Hour: 2, TotalEnergy: 10},
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/hourly-data", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body domain.HourlyDataResponse
	decode(t, resp.Body, &body)
	require.Len(t, body.Hours, 2)
	require.NotNil(t, body.Peak)
	assert.Equal(t, 1, body.Peak.Hour)
}

func TestMinuteDataEndpoint(t *testing.T) {
	app := newApp(t, &stubReadings{
		minutes: []domain.MinuteRow{{Minute: 0, Count: 1}},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/minute-data?date=2024-01-01&hour=10", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var rows []domain.MinuteRow
	decode(t, resp.Body, &rows)
	require.Len(t, rows, 1)
}

func TestMinuteDataEndpointRejectsBadParams(t *testing.T) {
	app := newApp(t, &stubReadings{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/minute-data?hour=10", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/minute-data?date=2024-01-01&hour=24", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAvailableDatesEndpointEmpty(t *testing.T) {
	app := newApp(t, &stubReadings{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/available-dates", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var dates []string
	decode(t, resp.Body, &dates)
	assert.NotNil(t, dates)
	assert.Empty(t, dates)
}

func TestWeeklyPeakHoursEndpoint(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	app := newApp(t, &stubReadings{
		earliest: &d,
		hourly:   []domain.HourlyRow{{Hour: 9, TotalEnergy: 50}},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/weekly-peak-hours?floor=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entries []domain.WeeklyPeakEntry
	decode(t, resp.Body, &entries)
	assert.LessOrEqual(t, len(entries), 7)
}

func TestParseFloor(t *testing.T) {
	assert.Nil(t, parseFloor(""))
	assert.Nil(t, parseFloor("all"))
	assert.Nil(t, parseFloor("ALL"))
	assert.Nil(t, parseFloor("not-a-number"))

	got := parseFloor("3")
	require.NotNil(t, got)
	assert.Equal(t, 3, *got)
}
