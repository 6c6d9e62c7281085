package service

import (
	"context"
	"errors"
	"time"

	"roof_vent/internal/hazard"
	"roof_vent/internal/models"
	"roof_vent/internal/repository"
)

var ErrEmptyReading = errors.New("reading needs temp or hum")

type autoCloser interface {
	AutoClose(ctx context.Context, hum *float64) (hazard.Cause, error)
}

type SensorService struct {
	readings   repository.ReadingRepo
	hazardLog  repository.HazardLogRepo
	controlLog repository.ControlLogRepo
	vent       autoCloser
	now        func() time.Time
}

func NewSensorService(readings repository.ReadingRepo, hazardLog repository.HazardLogRepo,
	controlLog repository.ControlLogRepo, vent autoCloser, now func() time.Time) *SensorService {
	return &SensorService{readings: readings, hazardLog: hazardLog, controlLog: controlLog, vent: vent, now: now}
}

// Record stores a reading, then re-checks the hazard rules with its humidity.
func (s *SensorService) Record(ctx context.Context, temp, hum *float64) error {
	if temp == nil && hum == nil {
		return ErrEmptyReading
	}
	if err := s.readings.Append(ctx, s.now(), temp, hum); err != nil {
		return err
	}
	_, err := s.vent.AutoClose(ctx, hum)
	return err
}

func (s *SensorService) History(ctx context.Context, limit int) ([]models.Reading, error) {
	return s.readings.List(ctx, ClampLimit(limit))
}

func (s *SensorService) HazardHistory(ctx context.Context, kind models.HazardKind, limit int) ([]models.HazardSample, error) {
	return s.hazardLog.List(ctx, kind, ClampLimit(limit))
}

func (s *SensorService) ControlLog(ctx context.Context, limit int) ([]models.ControlRecord, error) {
	return s.controlLog.List(ctx, ClampLimit(limit))
}
