package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"

	"roof_vent/internal/models"
)

type ControlLogSQLite struct {
	db *sqlx.DB
}

func NewControlLogSQLite(db *sqlx.DB) *ControlLogSQLite { return &ControlLogSQLite{db: db} }

const selectControlLogSQL = `SELECT id, ts, by_user, command FROM control_log ORDER BY id DESC LIMIT ?`

// List returns the newest limit entries, newest first.
func (r *ControlLogSQLite) List(ctx context.Context, limit int) ([]models.ControlRecord, error) {
	out := make([]models.ControlRecord, 0, limit)
	if err := r.db.SelectContext(ctx, &out, selectControlLogSQL, limit); err != nil {
		return nil, fmt.Errorf("select control log: %w", err)
	}
	return out, nil
}

type HazardLogSQLite struct {
	db *sqlx.DB
}

func NewHazardLogSQLite(db *sqlx.DB) *HazardLogSQLite { return &HazardLogSQLite{db: db} }

const (
	selectRainLogSQL  = `SELECT id, ts, val FROM rain_log ORDER BY id DESC LIMIT ?`
	selectSmokeLogSQL = `SELECT id, ts, val FROM smoke_log ORDER BY id DESC LIMIT ?`
)

// List returns the newest limit samples of one series, oldest first.
func (r *HazardLogSQLite) List(ctx context.Context, kind models.HazardKind, limit int) ([]models.HazardSample, error) {
	var q string
	switch kind {
	case models.HazardRain:
		q = selectRainLogSQL
	case models.HazardSmoke:
		q = selectSmokeLogSQL
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownHazard, kind)
	}

	out := make([]models.HazardSample, 0, limit)
	if err := r.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, fmt.Errorf("select %s log: %w", kind, err)
	}
	slices.Reverse(out)
	return out, nil
}
