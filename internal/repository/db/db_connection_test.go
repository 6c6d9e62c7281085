package db

import (
	"path/filepath"
	"testing"
)

func TestInitDB_SeedsStateAndSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vent.db")

	conn, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	var vent string
	if err := conn.Get(&vent, `SELECT vent_state FROM state WHERE id = 1`); err != nil {
		t.Fatalf("select state: %v", err)
	}
	if vent != "CLOSE" {
		t.Fatalf("expected seeded CLOSE, got %q", vent)
	}
	_ = conn.Close()

	// Reopening must not duplicate the baseline samples.
	conn, err = InitDB(path)
	if err != nil {
		t.Fatalf("InitDB again: %v", err)
	}
	defer conn.Close()

	for _, table := range []string{"rain_log", "smoke_log"} {
		var n int
		if err := conn.Get(&n, `SELECT COUNT(*) FROM `+table); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 1 {
			t.Fatalf("%s: expected 1 baseline sample, got %d", table, n)
		}
	}
}
