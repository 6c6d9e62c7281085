package handlers

import (
	"context"
	"net/http"

	"roof_vent/internal/models"
	"roof_vent/internal/service"
	"roof_vent/internal/weather"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       service.Identity
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (service.Identity, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockStatus struct {
	view service.StatusView
	err  error
}

func (m *mockStatus) GetStatus(ctx context.Context) (service.StatusView, error) {
	return m.view, m.err
}

type hazardCall struct {
	kind models.HazardKind
	on   bool
}

type mockVent struct {
	commandErr  error
	hazardErr   error
	lastActor   string
	lastState   models.VentState
	hazardCalls []hazardCall
}

func (m *mockVent) Command(ctx context.Context, actor string, state models.VentState) error {
	m.lastActor, m.lastState = actor, state
	if m.commandErr != nil {
		return m.commandErr
	}
	if !state.Valid() {
		return service.ErrInvalidVentCommand
	}
	return nil
}

func (m *mockVent) SetHazard(ctx context.Context, kind models.HazardKind, on bool) error {
	m.hazardCalls = append(m.hazardCalls, hazardCall{kind, on})
	return m.hazardErr
}

type mockSensors struct {
	readings  []models.Reading
	samples   []models.HazardSample
	records   []models.ControlRecord
	err       error
	recordErr error

	lastLimit int
	lastKind  models.HazardKind
	lastTemp  *float64
	lastHum   *float64
}

func (m *mockSensors) Record(ctx context.Context, temp, hum *float64) error {
	m.lastTemp, m.lastHum = temp, hum
	return m.recordErr
}
func (m *mockSensors) History(ctx context.Context, limit int) ([]models.Reading, error) {
	m.lastLimit = limit
	return m.readings, m.err
}
func (m *mockSensors) HazardHistory(ctx context.Context, kind models.HazardKind, limit int) ([]models.HazardSample, error) {
	m.lastKind, m.lastLimit = kind, limit
	return m.samples, m.err
}
func (m *mockSensors) ControlLog(ctx context.Context, limit int) ([]models.ControlRecord, error) {
	m.lastLimit = limit
	return m.records, m.err
}

type mockWeather struct {
	obs      weather.Observation
	err      error
	lastKey  string
	lastCity string
}

func (m *mockWeather) Pull(ctx context.Context, key, city string) (weather.Observation, error) {
	m.lastKey, m.lastCity = key, city
	return m.obs, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// authedService returns a service whose tokens all resolve to "admin".
func authedService() *service.Service {
	return &service.Service{Authorization: &mockAuth{parseID: service.Identity{UserID: 1, Username: "admin"}}}
}
