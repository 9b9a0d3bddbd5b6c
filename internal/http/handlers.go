package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/LioYoro/EnergyTestComfac/internal/service"
)

func Register(app *fiber.App, svcs *service.Services) {
	api := app.Group("/api")

	api.Get("summary", func(c *fiber.Ctx) error {
		f, err := parseFilter(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		resp, err := svcs.Aggregator.DailySummary(c.Context(), f)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(resp)
	})

	api.Get("hourly-data", func(c *fiber.Ctx) error {
		f, err := parseFilter(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		resp, err := svcs.Aggregator.HourlyData(c.Context(), f)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(resp)
	})

	api.Get("minute-data", func(c *fiber.Ctx) error {
		date, err := time.Parse("2006-01-02", c.Query("date"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid or missing date"})
		}
		hour, err := strconv.Atoi(c.Query("hour", "0"))
		if err != nil || hour < 0 || hour > 23 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid hour"})
		}
		rows, err := svcs.Aggregator.MinuteData(c.Context(), date, hour)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(rows)
	})

	api.Get("available-dates", func(c *fiber.Ctx) error {
		dates, err := svcs.Aggregator.AvailableDates(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if dates == nil {
			dates = []string{}
		}
		return c.JSON(dates)
	})

	api.Get("weekly-peak-hours", func(c *fiber.Ctx) error {
		entries, err := svcs.Aggregator.WeeklyPeakHours(c.Context(), parseFloor(c.Query("floor")))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(entries)
	})

	api.Get("floor-analytics", func(c *fiber.Ctx) error {
		f, err := parseFilter(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		out, err := svcs.Aggregator.FloorAnalytics(c.Context(), f)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(out)
	})
}

func parseFilter(c *fiber.Ctx) (service.Filter, error) {
	f := service.Filter{Granularity: c.Query("timeGranularity", service.GranularityDay)}
	if v := c.Query("date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("invalid date %q", v)
		}
		f.Date = &d
	}
	f.Floor = parseFloor(c.Query("floor"))
	// Unknown weekday names fall through to no filter.
	f.Weekday = service.ParseWeekday(c.Query("weekday"))
	return f, nil
}

func parseFloor(v string) *int {
	if v == "" || strings.EqualFold(v, "all") {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
