package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"

	"roof_vent/internal/models"
)

type ReadingSQLite struct {
	db *sqlx.DB
}

func NewReadingSQLite(db *sqlx.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

const (
	insertReadingSQL  = `INSERT INTO readings (ts, temp, hum) VALUES (?, ?, ?)`
	selectLatestSQL   = `SELECT id, ts, temp, hum FROM readings ORDER BY id DESC LIMIT 1`
	selectReadingsSQL = `SELECT id, ts, temp, hum FROM readings ORDER BY id DESC LIMIT ?`
)

// Append stores one sample; nil values are stored as NULL.
func (r *ReadingSQLite) Append(ctx context.Context, at time.Time, temp, hum *float64) error {
	if _, err := r.db.ExecContext(ctx, insertReadingSQL, models.FormatDBTime(at), temp, hum); err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// Latest returns the newest sample, or nil when there is none.
func (r *ReadingSQLite) Latest(ctx context.Context) (*models.Reading, error) {
	var rd models.Reading
	if err := r.db.GetContext(ctx, &rd, selectLatestSQL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select latest reading: %w", err)
	}
	return &rd, nil
}

// List returns the newest limit samples, oldest first.
func (r *ReadingSQLite) List(ctx context.Context, limit int) ([]models.Reading, error) {
	out := make([]models.Reading, 0, limit)
	if err := r.db.SelectContext(ctx, &out, selectReadingsSQL, limit); err != nil {
		return nil, fmt.Errorf("select readings: %w", err)
	}
	slices.Reverse(out)
	return out, nil
}
