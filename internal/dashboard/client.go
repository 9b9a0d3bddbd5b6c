package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/LioYoro/EnergyTestComfac/internal/domain"
)

// Query is one filter combination as selected on the dashboard. Zero
// values mean "all"/default; it doubles as the cache signature.
type Query struct {
	Date        string `json:"date"`
	Floor       string `json:"floor"`
	Granularity string `json:"granularity"`
	Weekday     string `json:"weekday"`
}

func (q Query) values() url.Values {
	params := url.Values{}
	if q.Date != "" {
		params.Set("date", q.Date)
	}
	if q.Floor != "" {
		params.Set("floor", q.Floor)
	}
	if q.Granularity != "" {
		params.Set("timeGranularity", q.Granularity)
	}
	if q.Weekday != "" {
		params.Set("weekday", q.Weekday)
	}
	return params
}

// Client fetches aggregation results from the API server.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Summary(ctx context.Context, q Query) (*domain.SummaryResponse, error) {
	var out domain.SummaryResponse
	if err := c.getJSON(ctx, "/api/summary", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) HourlyData(ctx context.Context, q Query) (*domain.HourlyDataResponse, error) {
	var out domain.HourlyDataResponse
	if err := c.getJSON(ctx, "/api/hourly-data", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MinuteData(ctx context.Context, date string, hour int) ([]domain.MinuteRow, error) {
	params := url.Values{}
	params.Set("date", date)
	params.Set("hour", strconv.Itoa(hour))
	var out []domain.MinuteRow
	if err := c.getJSON(ctx, "/api/minute-data", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AvailableDates(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, "/api/available-dates", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) WeeklyPeakHours(ctx context.Context, floor string) ([]domain.WeeklyPeakEntry, error) {
	params := url.Values{}
	if floor != "" {
		params.Set("floor", floor)
	}
	var out []domain.WeeklyPeakEntry
	if err := c.getJSON(ctx, "/api/weekly-peak-hours", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FloorAnalytics(ctx context.Context, q Query) ([]domain.FloorAnalytics, error) {
	var out []domain.FloorAnalytics
	if err := c.getJSON(ctx, "/api/floor-analytics", q.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("health check failed: %s", resp.Status)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("request %s failed: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
