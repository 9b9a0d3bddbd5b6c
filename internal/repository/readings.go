package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LioYoro/EnergyTestComfac/internal/domain"
)

type ReadingRepo struct {
	db *sqlx.DB
}

func (r *ReadingRepo) Insert(ctx context.Context, rd *domain.Reading) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO readings(date, hour, minute, second, timestamp, voltage, current, power, energy, floor)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		rd.Date, rd.Hour, rd.Minute, rd.Second, rd.Timestamp,
		rd.Voltage, rd.Current, rd.Power, rd.Energy, rd.Floor)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// EarliestDate returns the earliest date present in readings, optionally
// restricted to a weekday (Sunday=0) and/or a floor. ok is false when no
// row matches.
func (r *ReadingRepo) EarliestDate(ctx context.Context, weekday, floor *int) (time.Time, bool, error) {
	c := new(cond)
	c.addWeekday(weekday).addFloor(floor)
	var d sql.NullTime
	q := `SELECT MIN(date) FROM readings` + c.where()
	if err := r.db.GetContext(ctx, &d, r.db.Rebind(q), c.args...); err != nil {
		return time.Time{}, false, fmt.Errorf("earliest date: %w", err)
	}
	if !d.Valid {
		return time.Time{}, false, nil
	}
	return d.Time, true, nil
}

// AggregateDay computes the full day statistics for (date, floor) from raw
// readings: the flat count/average/sum plus minute and hour group counts
// with their average-of-group-averages.
func (r *ReadingRepo) AggregateDay(ctx context.Context, date time.Time, floor *int) (domain.DayAggregate, error) {
	c := new(cond)
	c.add("date = ?", date).addFloor(floor)

	var agg domain.DayAggregate
	q := `SELECT COUNT(*) AS total_records,
	             COALESCE(AVG(current), 0) AS avg_current,
	             COALESCE(SUM(energy), 0) AS total_energy
	      FROM readings` + c.where()
	if err := r.db.GetContext(ctx, &agg, r.db.Rebind(q), c.args...); err != nil {
		return domain.DayAggregate{}, fmt.Errorf("aggregate day: %w", err)
	}

	var grp struct {
		Count      int     `db:"cnt"`
		AvgCurrent float64 `db:"avg_current"`
	}
	q = `SELECT COUNT(*) AS cnt, COALESCE(AVG(g.avg_current), 0) AS avg_current
	     FROM (SELECT AVG(current) AS avg_current FROM readings` + c.where() + ` GROUP BY minute) g`
	if err := r.db.GetContext(ctx, &grp, r.db.Rebind(q), c.args...); err != nil {
		return domain.DayAggregate{}, fmt.Errorf("aggregate day minutes: %w", err)
	}
	agg.MinuteCount, agg.MinuteAvgCurrent = grp.Count, grp.AvgCurrent

	q = `SELECT COUNT(*) AS cnt, COALESCE(AVG(g.avg_current), 0) AS avg_current
	     FROM (SELECT AVG(current) AS avg_current FROM readings` + c.where() + ` GROUP BY hour) g`
	if err := r.db.GetContext(ctx, &grp, r.db.Rebind(q), c.args...); err != nil {
		return domain.DayAggregate{}, fmt.Errorf("aggregate day hours: %w", err)
	}
	agg.HourCount, agg.HourAvgCurrent = grp.Count, grp.AvgCurrent

	return agg, nil
}

// HourlyByDate groups one day's readings by hour, ascending.
func (r *ReadingRepo) HourlyByDate(ctx context.Context, date time.Time, floor *int) ([]domain.HourlyRow, error) {
	c := new(cond)
	c.add("date = ?", date).addFloor(floor)
	return r.hourlyGroups(ctx, c)
}

// HourlyAcrossDates groups readings by hour over every date, optionally
// restricted to a weekday and/or floor. Used by weekly peak hours and
// floor analytics.
func (r *ReadingRepo) HourlyAcrossDates(ctx context.Context, weekday, floor *int) ([]domain.HourlyRow, error) {
	c := new(cond)
	c.addWeekday(weekday).addFloor(floor)
	return r.hourlyGroups(ctx, c)
}

func (r *ReadingRepo) hourlyGroups(ctx context.Context, c *cond) ([]domain.HourlyRow, error) {
	var out []domain.HourlyRow
	q := `SELECT hour,
	             COALESCE(AVG(current), 0) AS avg_current,
	             COALESCE(SUM(energy), 0) AS total_energy,
	             COALESCE(MAX(current), 0) AS max_current,
	             COALESCE(MAX(energy), 0) AS max_energy
	      FROM readings` + c.where() + `
	      GROUP BY hour ORDER BY hour`
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), c.args...); err != nil {
		return nil, fmt.Errorf("hourly groups: %w", err)
	}
	return out, nil
}

// MinuteByHour groups one hour's readings by minute, ascending.
func (r *ReadingRepo) MinuteByHour(ctx context.Context, date time.Time, hour int) ([]domain.MinuteRow, error) {
	var out []domain.MinuteRow
	err := r.db.SelectContext(ctx, &out,
		`SELECT minute,
		        COALESCE(AVG(current), 0) AS avg_current,
		        COALESCE(SUM(energy), 0) AS total_energy,
		        COUNT(*) AS count
		 FROM readings WHERE date = $1 AND hour = $2
		 GROUP BY minute ORDER BY minute`, date, hour)
	if err != nil {
		return nil, fmt.Errorf("minute groups: %w", err)
	}
	return out, nil
}

// Dates returns the distinct dates present in readings, ascending.
func (r *ReadingRepo) Dates(ctx context.Context) ([]time.Time, error) {
	var out []time.Time
	err := r.db.SelectContext(ctx, &out,
		`SELECT DISTINCT date FROM readings ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("dates: %w", err)
	}
	return out, nil
}

// Floors returns the distinct non-null floors present in readings.
func (r *ReadingRepo) Floors(ctx context.Context) ([]int, error) {
	var out []int
	err := r.db.SelectContext(ctx, &out,
		`SELECT DISTINCT floor FROM readings WHERE floor IS NOT NULL ORDER BY floor`)
	if err != nil {
		return nil, fmt.Errorf("floors: %w", err)
	}
	return out, nil
}

func (r *ReadingRepo) FloorTotals(ctx context.Context, floor int, weekday *int) (domain.FloorTotals, error) {
	c := new(cond)
	c.add("floor = ?", floor).addWeekday(weekday)
	var out domain.FloorTotals
	q := `SELECT COUNT(*) AS total_records, COALESCE(SUM(energy), 0) AS total_energy
	      FROM readings` + c.where()
	if err := r.db.GetContext(ctx, &out, r.db.Rebind(q), c.args...); err != nil {
		return domain.FloorTotals{}, fmt.Errorf("floor totals: %w", err)
	}
	return out, nil
}

// DailyTrend returns one floor's total energy per date, ascending by date.
func (r *ReadingRepo) DailyTrend(ctx context.Context, floor int, weekday *int) ([]domain.DailyEnergy, error) {
	c := new(cond)
	c.add("floor = ?", floor).addWeekday(weekday)
	var out []domain.DailyEnergy
	q := `SELECT date, COALESCE(SUM(energy), 0) AS total_energy
	      FROM readings` + c.where() + `
	      GROUP BY date ORDER BY date`
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), c.args...); err != nil {
		return nil, fmt.Errorf("daily trend: %w", err)
	}
	return out, nil
}
