package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LioYoro/EnergyTestComfac/internal/domain"
)

// SummaryRepo reads the precomputed daily_summary and hourly_summary
// tables. The aggregation service only reads them; rewrites happen in the
// materializer via ReplaceDaily/ReplaceHourly.
type SummaryRepo struct {
	db *sqlx.DB
}

// DailyByKey returns the daily_summary row for (date, floor), where a nil
// floor selects the all-floors row. Returns (nil, nil) when absent.
func (s *SummaryRepo) DailyByKey(ctx context.Context, date time.Time, floor *int) (*domain.DailySummary, error) {
	c := new(cond)
	c.add("date = ?", date).addFloorKey(floor)
	var out domain.DailySummary
	q := `SELECT date, floor, total_records, avg_current, total_energy,
	             minute_count, minute_avg_current, hour_count, hour_avg_current
	      FROM daily_summary` + c.where()
	err := s.db.GetContext(ctx, &out, s.db.Rebind(q), c.args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("daily summary lookup: %w", err)
	}
	return &out, nil
}

// HourlyByKey returns the hourly_summary rows for (date, floor) ascending
// by hour. An empty slice means no summary exists for that date at all.
func (s *SummaryRepo) HourlyByKey(ctx context.Context, date time.Time, floor *int) ([]domain.HourlyRow, error) {
	c := new(cond)
	c.add("date = ?", date).addFloorKey(floor)
	var out []domain.HourlyRow
	q := `SELECT hour, avg_current, total_energy, max_current, max_energy
	      FROM hourly_summary` + c.where() + ` ORDER BY hour`
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(q), c.args...); err != nil {
		return nil, fmt.Errorf("hourly summary lookup: %w", err)
	}
	return out, nil
}

// EarliestDate is the last-resort date resolution source when readings
// are empty but summaries survived.
func (s *SummaryRepo) EarliestDate(ctx context.Context) (time.Time, bool, error) {
	var d sql.NullTime
	err := s.db.GetContext(ctx, &d, `SELECT MIN(date) FROM hourly_summary`)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("summary earliest date: %w", err)
	}
	if !d.Valid {
		return time.Time{}, false, nil
	}
	return d.Time, true, nil
}

// ReplaceDaily swaps in a freshly computed daily_summary row for the key.
func (s *SummaryRepo) ReplaceDaily(ctx context.Context, date time.Time, floor *int, agg domain.DayAggregate) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		c := new(cond)
		c.add("date = ?", date).addFloorKey(floor)
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM daily_summary`+c.where()), c.args...); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO daily_summary(date, floor, total_records, avg_current, total_energy,
			                           minute_count, minute_avg_current, hour_count, hour_avg_current)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			date, floor, agg.TotalRecords, agg.AvgCurrent, agg.TotalEnergy,
			agg.MinuteCount, agg.MinuteAvgCurrent, agg.HourCount, agg.HourAvgCurrent)
		return err
	})
}

// ReplaceHourly swaps in freshly computed hourly_summary rows for the key.
func (s *SummaryRepo) ReplaceHourly(ctx context.Context, date time.Time, floor *int, rows []domain.HourlyRow) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		c := new(cond)
		c.add("date = ?", date).addFloorKey(floor)
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM hourly_summary`+c.where()), c.args...); err != nil {
			return err
		}
		for _, row := range rows {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO hourly_summary(date, hour, floor, avg_current, total_energy, max_energy, max_current)
				 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
				date, row.Hour, floor, row.AvgCurrent, row.TotalEnergy, row.MaxEnergy, row.MaxCurrent)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SummaryRepo) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("replace summary: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit summary: %w", err)
	}
	return nil
}
