package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"roof_vent/internal/models"
	"roof_vent/internal/service"
	"roof_vent/internal/weather"

	"github.com/gin-gonic/gin"
)

const (
	errLimitInvalid  = "invalid 'limit'; use a positive integer"
	errListHistory   = "failed to load history"
	errListLog       = "failed to load control log"
	errRecordReading = "failed to record reading"
	errWeatherPull   = "weather provider unavailable"
)

// SensorRequest is a synthetic reading.
type SensorRequest struct {
	Temp *float64 `json:"temp" example:"22.4"`
	Hum  *float64 `json:"hum" example:"51"`
}

// PullWeatherRequest asks the server to fetch current conditions for City.
type PullWeatherRequest struct {
	Key  string `json:"key,omitempty"`
	City string `json:"city" example:"Sydney,AU"`
}

// queryLimit reads ?limit=N; absent means the service default.
func queryLimit(c *gin.Context) (int, bool) {
	qs := c.Query("limit")
	if qs == "" {
		return 0, true
	}
	n, err := strconv.Atoi(qs)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
		return 0, false
	}
	return n, true
}

// @Summary      Temperature/humidity history
// @Tags         history
// @Produce      json
// @Param        limit  query  int  false  "max rows (default 50, max 500)"
// @Success      200  {array}   models.Reading
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/history [get]
// @Security     BearerAuth
func (h *Handler) getHistory(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	rows, err := h.services.History(c.Request.Context(), limit)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListHistory, "list_history_failed", err)
		return
	}
	if rows == nil {
		rows = []models.Reading{}
	}
	c.JSON(http.StatusOK, rows)
}

// @Summary      Rain flag history
// @Tags         history
// @Produce      json
// @Param        limit  query  int  false  "max rows (default 50, max 500)"
// @Success      200  {array}   models.HazardSample
// @Router       /api/v1/rain-history [get]
// @Security     BearerAuth
func (h *Handler) getRainHistory(c *gin.Context) { h.getHazardHistory(c, models.HazardRain) }

// @Summary      Smoke flag history
// @Tags         history
// @Produce      json
// @Param        limit  query  int  false  "max rows (default 50, max 500)"
// @Success      200  {array}   models.HazardSample
// @Router       /api/v1/smoke-history [get]
// @Security     BearerAuth
func (h *Handler) getSmokeHistory(c *gin.Context) { h.getHazardHistory(c, models.HazardSmoke) }

func (h *Handler) getHazardHistory(c *gin.Context, kind models.HazardKind) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	rows, err := h.services.HazardHistory(c.Request.Context(), kind, limit)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListHistory, "list_hazard_history_failed", err, "kind", kind)
		return
	}
	if rows == nil {
		rows = []models.HazardSample{}
	}
	c.JSON(http.StatusOK, rows)
}

// @Summary      Control log, newest first
// @Tags         history
// @Produce      json
// @Param        limit  query  int  false  "max rows (default 50, max 500)"
// @Success      200  {array}   models.ControlRecord
// @Router       /api/v1/control-log [get]
// @Security     BearerAuth
func (h *Handler) getControlLog(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	rows, err := h.services.ControlLog(c.Request.Context(), limit)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListLog, "list_control_log_failed", err)
		return
	}
	if rows == nil {
		rows = []models.ControlRecord{}
	}
	c.JSON(http.StatusOK, rows)
}

// @Summary      Submit a sensor reading
// @Tags         sensors
// @Accept       json
// @Produce      json
// @Param        body  body      SensorRequest  true  "reading"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/sensor [post]
// @Security     BearerAuth
func (h *Handler) postSensor(c *gin.Context) {
	var req SensorRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	err := h.services.Record(c.Request.Context(), req.Temp, req.Hum)
	switch {
	case errors.Is(err, service.ErrEmptyReading):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errRecordReading, "record_reading_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Pull current weather as a reading
// @Description  An explicit key beats the server's configured key.
// @Tags         sensors
// @Accept       json
// @Produce      json
// @Param        body  body      PullWeatherRequest  true  "city and optional key"
// @Success      200   {object}  map[string]interface{}  "ok, city, temp, hum"
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/pull-weather [post]
// @Security     BearerAuth
func (h *Handler) pullWeather(c *gin.Context) {
	var req PullWeatherRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	obs, err := h.services.Pull(c.Request.Context(), req.Key, req.City)
	switch {
	case errors.Is(err, weather.ErrNoKey), errors.Is(err, weather.ErrNoCity):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	case err != nil:
		if h.log != nil {
			h.log.Warnw("pull_weather_failed", "city", req.City, "err", err)
		}
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": errWeatherPull})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"city": obs.City,
		"temp": obs.Temperature,
		"hum":  obs.Humidity,
	})
}
