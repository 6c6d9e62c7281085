package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"roof_vent/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// ReadingRepo stores temperature/humidity samples.
type ReadingRepo interface {
	Append(ctx context.Context, at time.Time, temp, hum *float64) error
	Latest(ctx context.Context) (*models.Reading, error)
	List(ctx context.Context, limit int) ([]models.Reading, error)
}

// StateRepo owns the single device state row. Every vent change is written
// together with its control_log row, every flag change with its series row.
type StateRepo interface {
	Load(ctx context.Context) (models.DeviceState, error)
	SetVent(ctx context.Context, vent models.VentState, actor, command string, at time.Time) error
	SetFlag(ctx context.Context, kind models.HazardKind, on bool, at time.Time) error
}

// ControlLogRepo reads the control log, newest first.
type ControlLogRepo interface {
	List(ctx context.Context, limit int) ([]models.ControlRecord, error)
}

// HazardLogRepo reads rain/smoke series, oldest first.
type HazardLogRepo interface {
	List(ctx context.Context, kind models.HazardKind, limit int) ([]models.HazardSample, error)
}

type Repository struct {
	Auth       Authorization
	Readings   ReadingRepo
	State      StateRepo
	ControlLog ControlLogRepo
	HazardLog  HazardLogRepo
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Auth:       NewUserRepository(db),
		Readings:   NewReadingSQLite(db),
		State:      NewStateSQLite(db),
		ControlLog: NewControlLogSQLite(db),
		HazardLog:  NewHazardLogSQLite(db),
	}
}
