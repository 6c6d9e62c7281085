package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"roof_vent/internal/models"
)

type StateSQLite struct {
	db *sqlx.DB
}

func NewStateSQLite(db *sqlx.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	stateRowID = 1

	selectStateSQL = `SELECT vent_state, rain, smoke, updated_at FROM state WHERE id = ?`

	updateVentSQL       = `UPDATE state SET vent_state = ?, updated_at = ? WHERE id = ?`
	insertControlLogSQL = `INSERT INTO control_log (ts, by_user, command) VALUES (?, ?, ?)`

	updateRainSQL     = `UPDATE state SET rain = ?, updated_at = ? WHERE id = ?`
	updateSmokeSQL    = `UPDATE state SET smoke = ?, updated_at = ? WHERE id = ?`
	insertRainLogSQL  = `INSERT INTO rain_log (ts, val) VALUES (?, ?)`
	insertSmokeLogSQL = `INSERT INTO smoke_log (ts, val) VALUES (?, ?)`
)

var errUnknownHazard = errors.New("unknown hazard kind")

// Load fetches the state row. A missing row reads as a closed vent with no hazards.
func (r *StateSQLite) Load(ctx context.Context) (models.DeviceState, error) {
	var s models.DeviceState
	if err := r.db.GetContext(ctx, &s, selectStateSQL, stateRowID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DeviceState{Vent: models.VentClose}, nil
		}
		return models.DeviceState{}, fmt.Errorf("select state: %w", err)
	}
	return s, nil
}

// SetVent moves the vent and appends the matching control_log row atomically.
func (r *StateSQLite) SetVent(ctx context.Context, vent models.VentState, actor, command string, at time.Time) error {
	ts := models.FormatDBTime(at)
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, updateVentSQL, string(vent), ts, stateRowID); err != nil {
			return fmt.Errorf("update vent: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertControlLogSQL, ts, actor, command); err != nil {
			return fmt.Errorf("insert control log: %w", err)
		}
		return nil
	})
}

// SetFlag updates a hazard flag and appends a sample to its series atomically.
func (r *StateSQLite) SetFlag(ctx context.Context, kind models.HazardKind, on bool, at time.Time) error {
	var updateSQL, logSQL string
	switch kind {
	case models.HazardRain:
		updateSQL, logSQL = updateRainSQL, insertRainLogSQL
	case models.HazardSmoke:
		updateSQL, logSQL = updateSmokeSQL, insertSmokeLogSQL
	default:
		return fmt.Errorf("%w: %q", errUnknownHazard, kind)
	}

	val := 0
	if on {
		val = 1
	}
	ts := models.FormatDBTime(at)
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, updateSQL, val, ts, stateRowID); err != nil {
			return fmt.Errorf("update %s flag: %w", kind, err)
		}
		if _, err := tx.ExecContext(ctx, logSQL, ts, val); err != nil {
			return fmt.Errorf("insert %s log: %w", kind, err)
		}
		return nil
	})
}

func (r *StateSQLite) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
