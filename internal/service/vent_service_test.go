package service

import (
	"context"
	"errors"
	"testing"

	"roof_vent/internal/models"
)

func TestVentService_Command(t *testing.T) {
	tests := []struct {
		name    string
		state   models.VentState
		wantErr error
		writes  int
	}{
		{"open", models.VentOpen, nil, 1},
		{"close", models.VentClose, nil, 1},
		{"unknown rejected", models.VentUnknown, ErrInvalidVentCommand, 0},
		{"garbage rejected", "HALF", ErrInvalidVentCommand, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memState{st: models.DeviceState{Vent: models.VentClose}}
			svc := NewVentService(repo, fixedClock)

			err := svc.Command(context.Background(), "admin", tt.state)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(repo.vents) != tt.writes {
				t.Fatalf("expected %d writes, got %d", tt.writes, len(repo.vents))
			}
			if tt.writes == 1 && (repo.vents[0].actor != "admin" || repo.vents[0].command != string(tt.state)) {
				t.Fatalf("unexpected write %+v", repo.vents[0])
			}
		})
	}
}

func TestVentService_SetHazardClosesOpenVent(t *testing.T) {
	repo := &memState{st: models.DeviceState{Vent: models.VentOpen}}
	svc := NewVentService(repo, fixedClock)

	if err := svc.SetHazard(context.Background(), models.HazardRain, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.vents) != 1 {
		t.Fatalf("expected one automatic closure, got %d", len(repo.vents))
	}
	w := repo.vents[0]
	if w.vent != models.VentClose || w.actor != SystemActor || w.command != "CLOSE cause=rain" {
		t.Fatalf("unexpected closure %+v", w)
	}

	// Already closed: a second hazard logs nothing more.
	if err := svc.SetHazard(context.Background(), models.HazardSmoke, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.vents) != 1 {
		t.Fatalf("closed vent must not be closed again, got %d writes", len(repo.vents))
	}
}

func TestVentService_SetHazardOffNeverCloses(t *testing.T) {
	repo := &memState{st: models.DeviceState{Vent: models.VentOpen, Smoke: true}}
	svc := NewVentService(repo, fixedClock)

	if err := svc.SetHazard(context.Background(), models.HazardRain, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.vents) != 0 {
		t.Fatalf("turning a flag off must not close the vent, got %+v", repo.vents)
	}
}

func TestVentService_AutoClosePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		st    models.DeviceState
		hum   *float64
		want  string
		close bool
	}{
		{"smoke beats rain", models.DeviceState{Vent: models.VentOpen, Rain: true, Smoke: true}, nil, "CLOSE cause=smoke", true},
		{"rain beats humidity", models.DeviceState{Vent: models.VentOpen, Rain: true}, models.Float(90), "CLOSE cause=rain", true},
		{"humidity at threshold", models.DeviceState{Vent: models.VentOpen}, models.Float(85), "CLOSE cause=humidity", true},
		{"humidity below threshold", models.DeviceState{Vent: models.VentOpen}, models.Float(84.9), "", false},
		{"no humidity", models.DeviceState{Vent: models.VentOpen}, nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memState{st: tt.st}
			svc := NewVentService(repo, fixedClock)

			if _, err := svc.AutoClose(context.Background(), tt.hum); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.close {
				if len(repo.vents) != 0 {
					t.Fatalf("expected no closure, got %+v", repo.vents)
				}
				return
			}
			if len(repo.vents) != 1 || repo.vents[0].command != tt.want {
				t.Fatalf("expected %q, got %+v", tt.want, repo.vents)
			}
		})
	}
}

func TestVentService_AutoCloseLoadError(t *testing.T) {
	repo := &memState{loadErr: errors.New("db locked")}
	if _, err := NewVentService(repo, fixedClock).AutoClose(context.Background(), models.Float(99)); err == nil {
		t.Fatal("expected load error")
	}
}
