package domain

import "time"

// Reading is one raw meter sample. Rows are append-only; the calendar
// fields (date/hour/minute/second) are derived from the timestamp in the
// configured civil timezone at ingest time.
type Reading struct {
	ID        int64     `db:"id" json:"id"`
	Date      time.Time `db:"date" json:"date"`
	Hour      int       `db:"hour" json:"hour"`
	Minute    int       `db:"minute" json:"minute"`
	Second    int       `db:"second" json:"second"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	Voltage   float64   `db:"voltage" json:"voltage"`
	Current   float64   `db:"current" json:"current"`
	Power     float64   `db:"power" json:"power"`
	Energy    float64   `db:"energy" json:"energy"`
	Floor     *int      `db:"floor" json:"floor"`
}

// DailySummary is one precomputed aggregate row per (date, floor).
// A NULL floor means the row covers all floors. Rebuilt out-of-band by
// the materializer; must always equal direct aggregation over readings.
type DailySummary struct {
	Date             time.Time `db:"date"`
	Floor            *int      `db:"floor"`
	TotalRecords     int       `db:"total_records"`
	AvgCurrent       float64   `db:"avg_current"`
	TotalEnergy      float64   `db:"total_energy"`
	MinuteCount      int       `db:"minute_count"`
	MinuteAvgCurrent float64   `db:"minute_avg_current"`
	HourCount        int       `db:"hour_count"`
	HourAvgCurrent   float64   `db:"hour_avg_current"`
}

// HourlySummary is one precomputed aggregate row per (date, hour, floor).
type HourlySummary struct {
	Date        time.Time `db:"date"`
	Hour        int       `db:"hour"`
	Floor       *int      `db:"floor"`
	AvgCurrent  float64   `db:"avg_current"`
	TotalEnergy float64   `db:"total_energy"`
	MaxEnergy   float64   `db:"max_energy"`
	MaxCurrent  float64   `db:"max_current"`
}

// DayAggregate holds the statistics for one day as produced either by a
// DailySummary row or by aggregating raw readings. The two sources must
// agree for the same (date, floor) key.
type DayAggregate struct {
	TotalRecords     int     `db:"total_records"`
	AvgCurrent       float64 `db:"avg_current"`
	TotalEnergy      float64 `db:"total_energy"`
	MinuteCount      int     `db:"minute_count"`
	MinuteAvgCurrent float64 `db:"minute_avg_current"`
	HourCount        int     `db:"hour_count"`
	HourAvgCurrent   float64 `db:"hour_avg_current"`
}

// HourlyRow is one hour bucket of a day (or of a weekday set).
type HourlyRow struct {
	Hour        int     `db:"hour" json:"hour"`
	AvgCurrent  float64 `db:"avg_current" json:"avg_current"`
	TotalEnergy float64 `db:"total_energy" json:"total_energy"`
	MaxCurrent  float64 `db:"max_current" json:"max_current"`
	MaxEnergy   float64 `db:"max_energy" json:"max_energy"`
}

// MinuteRow is one minute bucket within a single hour.
type MinuteRow struct {
	Minute      int     `db:"minute" json:"minute"`
	AvgCurrent  float64 `db:"avg_current" json:"avg_current"`
	TotalEnergy float64 `db:"total_energy" json:"total_energy"`
	Count       int     `db:"count" json:"count"`
}

// DailyEnergy is one point of a per-floor daily trend.
type DailyEnergy struct {
	Date        time.Time `db:"date"`
	TotalEnergy float64   `db:"total_energy"`
}

// FloorTotals is the flat rollup for one floor.
type FloorTotals struct {
	TotalRecords int     `db:"total_records"`
	TotalEnergy  float64 `db:"total_energy"`
}

// SummaryResponse is the four-bucket daily statistics payload. Date is
// null and every figure zero when no reading matches the filters.
type SummaryResponse struct {
	Date         *string      `json:"date"`
	TotalRecords int          `json:"total_records"`
	PerSecond    SecondBucket `json:"per_second"`
	PerMinute    MinuteBucket `json:"per_minute"`
	PerHour      HourBucket   `json:"per_hour"`
	PerDay       DayBucket    `json:"per_day"`
}

type SecondBucket struct {
	AvgEnergy float64 `json:"avg_energy"`
}

type MinuteBucket struct {
	AvgCurrent float64 `json:"avg_current"`
	AvgEnergy  float64 `json:"avg_energy"`
	Count      int     `json:"count"`
}

type HourBucket struct {
	AvgCurrent float64 `json:"avg_current"`
	AvgEnergy  float64 `json:"avg_energy"`
	Count      int     `json:"count"`
}

type DayBucket struct {
	AvgCurrent  float64 `json:"avg_current"`
	TotalEnergy float64 `json:"total_energy"`
}

// PeakHour describes the hour bucket with the highest total energy.
type PeakHour struct {
	Hour        int     `json:"hour"`
	AvgCurrent  float64 `json:"avg_current"`
	TotalEnergy float64 `json:"total_energy"`
	Time        string  `json:"time"`
	DateTime    string  `json:"datetime"`
}

type HourlyDataResponse struct {
	Date  *string     `json:"date"`
	Hours []HourlyRow `json:"hours"`
	Peak  *PeakHour   `json:"peak_hour"`
}

// WeeklyPeakEntry is the peak hour for one weekday across all dates.
// Weekdays with no matching readings are omitted from the result.
type WeeklyPeakEntry struct {
	Weekday     int     `json:"weekday"`
	WeekdayName string  `json:"weekday_name"`
	Hour        int     `json:"hour"`
	AvgCurrent  float64 `json:"avg_current"`
	TotalEnergy float64 `json:"total_energy"`
	SampleDate  string  `json:"sample_date"`
	Time        string  `json:"time"`
}

// TrendPoint is one day of a floor's energy trend.
type TrendPoint struct {
	Date        string  `json:"date"`
	TotalEnergy float64 `json:"total_energy"`
}

// FloorPeak is the peak hour within one floor's filtered readings.
type FloorPeak struct {
	Hour        int     `json:"hour"`
	TotalEnergy float64 `json:"total_energy"`
}

// FloorAnalytics is the rollup for one floor, including the billing cost
// derived from the configured unit price.
type FloorAnalytics struct {
	Floor              int          `json:"floor"`
	TotalEnergy        float64      `json:"total_energy"`
	TotalRecords       int          `json:"total_records"`
	AvgEnergyPerRecord float64      `json:"avg_energy_per_record"`
	Peak               *FloorPeak   `json:"peak_hour"`
	Cost               float64      `json:"cost"`
	DailyTrend         []TrendPoint `json:"daily_trend"`
}
