package service

import (
	"context"

	"roof_vent/internal/models"
	"roof_vent/internal/repository"
)

// StatusView is the /status body: latest reading plus the device state row.
type StatusView struct {
	Temp        *float64         `json:"temp"`
	Hum         *float64         `json:"hum"`
	TS          string           `json:"ts"`
	Vent        models.VentState `json:"vent"`
	VentUpdated string           `json:"vent_updated"`
	Rain        bool             `json:"rain"`
	Smoke       bool             `json:"smoke"`
	User        string           `json:"user,omitempty"`
}

type StatusService struct {
	state    repository.StateRepo
	readings repository.ReadingRepo
}

func NewStatusService(state repository.StateRepo, readings repository.ReadingRepo) *StatusService {
	return &StatusService{state: state, readings: readings}
}

// GetStatus composes the state row with the newest reading, if any.
func (s *StatusService) GetStatus(ctx context.Context) (StatusView, error) {
	st, err := s.state.Load(ctx)
	if err != nil {
		return StatusView{}, err
	}
	v := StatusView{
		Vent:        st.Vent,
		VentUpdated: st.UpdatedAt,
		Rain:        st.Rain,
		Smoke:       st.Smoke,
	}

	rd, err := s.readings.Latest(ctx)
	if err != nil {
		return StatusView{}, err
	}
	if rd != nil {
		v.Temp, v.Hum, v.TS = rd.Temperature, rd.Humidity, rd.TS
	}
	return v, nil
}
