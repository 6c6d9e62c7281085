package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"roof_vent/internal/hazard"
	"roof_vent/internal/models"
	"roof_vent/internal/repository"
)

var ErrInvalidVentCommand = errors.New("command must be OPEN or CLOSE")

// VentService moves the vent and closes it automatically when a hazard appears.
type VentService struct {
	state repository.StateRepo
	now   func() time.Time

	// serializes load-check-close so two hazards cannot log two closures
	mu sync.Mutex
}

func NewVentService(state repository.StateRepo, now func() time.Time) *VentService {
	return &VentService{state: state, now: now}
}

// Command applies a user's OPEN/CLOSE and logs it under actor.
func (s *VentService) Command(ctx context.Context, actor string, state models.VentState) error {
	if !state.Valid() {
		return ErrInvalidVentCommand
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SetVent(ctx, state, actor, string(state), s.now())
}

// SetHazard flips a simulated flag. Turning one on may close the vent.
func (s *VentService) SetHazard(ctx context.Context, kind models.HazardKind, on bool) error {
	if err := s.state.SetFlag(ctx, kind, on, s.now()); err != nil {
		return err
	}
	if !on {
		return nil
	}
	_, err := s.AutoClose(ctx, nil)
	return err
}

// AutoClose closes an open vent as SYSTEM when rain, smoke or hum calls for it.
// It reports the cause it acted on.
func (s *VentService) AutoClose(ctx context.Context, hum *float64) (hazard.Cause, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state.Load(ctx)
	if err != nil {
		return "", err
	}
	if st.Vent == models.VentClose {
		return "", nil
	}
	cause, ok := hazard.CauseOf(models.StatusSnapshot{
		Humidity:    hum,
		RainActive:  st.Rain,
		SmokeActive: st.Smoke,
	})
	if !ok {
		return "", nil
	}
	if err := s.state.SetVent(ctx, models.VentClose, SystemActor, hazard.CloseCommand(cause), s.now()); err != nil {
		return "", fmt.Errorf("auto close (%s): %w", cause, err)
	}
	return cause, nil
}
