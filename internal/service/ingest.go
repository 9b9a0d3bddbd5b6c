package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LioYoro/EnergyTestComfac/internal/domain"
)

// ReadingWriter is the write surface needed by ingestion. Implemented by
// repository.ReadingRepo.
type ReadingWriter interface {
	Insert(ctx context.Context, rd *domain.Reading) error
}

// IngestService turns MQTT reading payloads into readings rows. The
// calendar fields are derived from the timestamp in the configured
// timezone so that all downstream date math agrees with ingestion.
type IngestService struct {
	readings ReadingWriter
	loc      *time.Location
}

func NewIngestService(readings ReadingWriter, loc *time.Location) *IngestService {
	if loc == nil {
		loc = time.UTC
	}
	return &IngestService{readings: readings, loc: loc}
}

func (s *IngestService) FromMQTT(ctx context.Context, topic string, payload []byte) error {
	var r struct {
		Timestamp time.Time `json:"timestamp"`
		Voltage   float64   `json:"voltage"`
		Current   float64   `json:"current"`
		Power     float64   `json:"power"`
		Energy    float64   `json:"energy"`
		Floor     *int      `json:"floor"`
	}
	if err := json.Unmarshal(payload, &r); err != nil {
		return err
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	local := r.Timestamp.In(s.loc)
	rd := &domain.Reading{
		Date:      time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
		Hour:      local.Hour(),
		Minute:    local.Minute(),
		Second:    local.Second(),
		Timestamp: r.Timestamp,
		Voltage:   r.Voltage,
		Current:   r.Current,
		Power:     r.Power,
		Energy:    r.Energy,
		Floor:     r.Floor,
	}
	return s.readings.Insert(ctx, rd)
}
