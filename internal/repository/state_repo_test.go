package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"roof_vent/internal/models"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 5, 0, time.UTC)

const fixedTS = "2025-03-01 10:00:05"

func TestStateSQLite_Load(t *testing.T) {
	t.Run("row present", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectStateSQL)).
			WithArgs(stateRowID).
			WillReturnRows(sqlmock.NewRows([]string{"vent_state", "rain", "smoke", "updated_at"}).
				AddRow("OPEN", int64(1), int64(0), fixedTS))

		st, err := NewStateSQLite(db).Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := models.DeviceState{Vent: models.VentOpen, Rain: true, Smoke: false, UpdatedAt: fixedTS}
		if st != want {
			t.Fatalf("got %+v, want %+v", st, want)
		}
	})

	t.Run("missing row reads as closed", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectStateSQL)).
			WithArgs(stateRowID).
			WillReturnError(sql.ErrNoRows)

		st, err := NewStateSQLite(db).Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if st.Vent != models.VentClose || st.Rain || st.Smoke {
			t.Fatalf("unexpected default state %+v", st)
		}
	})
}

func TestStateSQLite_SetVent(t *testing.T) {
	t.Run("commits state and log together", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(updateVentSQL)).
			WithArgs("CLOSE", fixedTS, stateRowID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(insertControlLogSQL)).
			WithArgs(fixedTS, "SYSTEM", "CLOSE cause=rain").
			WillReturnResult(sqlmock.NewResult(9, 1))
		mock.ExpectCommit()

		err := NewStateSQLite(db).SetVent(context.Background(), models.VentClose, "SYSTEM", "CLOSE cause=rain", fixedNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("log failure rolls back", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(updateVentSQL)).
			WithArgs("OPEN", fixedTS, stateRowID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(insertControlLogSQL)).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := NewStateSQLite(db).SetVent(context.Background(), models.VentOpen, "admin", "OPEN", fixedNow)
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestStateSQLite_SetFlag(t *testing.T) {
	tests := []struct {
		name      string
		kind      models.HazardKind
		on        bool
		updateSQL string
		logSQL    string
		val       int
	}{
		{"rain on", models.HazardRain, true, updateRainSQL, insertRainLogSQL, 1},
		{"smoke off", models.HazardSmoke, false, updateSmokeSQL, insertSmokeLogSQL, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(tt.updateSQL)).
				WithArgs(tt.val, fixedTS, stateRowID).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(regexp.QuoteMeta(tt.logSQL)).
				WithArgs(fixedTS, tt.val).
				WillReturnResult(sqlmock.NewResult(2, 1))
			mock.ExpectCommit()

			if err := NewStateSQLite(db).SetFlag(context.Background(), tt.kind, tt.on, fixedNow); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		db, _ := newMockDB(t)
		err := NewStateSQLite(db).SetFlag(context.Background(), "fog", true, fixedNow)
		if !errors.Is(err, errUnknownHazard) {
			t.Fatalf("expected errUnknownHazard, got %v", err)
		}
	})
}
