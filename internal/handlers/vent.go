package handlers

import (
	"errors"
	"net/http"

	"roof_vent/internal/models"
	"roof_vent/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errGetStatus   = "failed to load status"
	errControlVent = "failed to move vent"
	errSetHazard   = "failed to set hazard flag"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// VentCommandRequest is the control-vent payload.
type VentCommandRequest struct {
	// Allowed: OPEN, CLOSE
	Command string `json:"command" binding:"required" example:"OPEN"`
}

// HazardFlagRequest is the set-rain / set-smoke payload.
type HazardFlagRequest struct {
	On *bool `json:"on" binding:"required" example:"true"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Current status
// @Description  Latest reading, vent position and hazard flags.
// @Tags         vent
// @Produce      json
// @Success      200  {object}  service.StatusView
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.GetStatus(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatus, "get_status_failed", err)
		return
	}
	st.User = c.GetString(ctxUsername)
	c.JSON(http.StatusOK, st)
}

// @Summary      Move the vent
// @Tags         vent
// @Accept       json
// @Produce      json
// @Param        body  body      VentCommandRequest  true  "command"
// @Success      200   {object}  map[string]interface{}  "ok, vent"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/control-vent [post]
// @Security     BearerAuth
func (h *Handler) controlVent(c *gin.Context) {
	var req VentCommandRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	state := models.ParseVentState(req.Command)
	actor := c.GetString(ctxUsername)

	err := h.services.Command(c.Request.Context(), actor, state)
	switch {
	case errors.Is(err, service.ErrInvalidVentCommand):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errControlVent, "control_vent_failed", err, "command", req.Command)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "vent": state})
}

// @Summary      Toggle simulated rain
// @Tags         vent
// @Accept       json
// @Produce      json
// @Param        body  body      HazardFlagRequest  true  "flag"
// @Success      200   {object}  map[string]interface{}  "ok, rain"
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/set-rain [post]
// @Security     BearerAuth
func (h *Handler) setRain(c *gin.Context) { h.setHazard(c, models.HazardRain) }

// @Summary      Toggle simulated smoke
// @Tags         vent
// @Accept       json
// @Produce      json
// @Param        body  body      HazardFlagRequest  true  "flag"
// @Success      200   {object}  map[string]interface{}  "ok, smoke"
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/set-smoke [post]
// @Security     BearerAuth
func (h *Handler) setSmoke(c *gin.Context) { h.setHazard(c, models.HazardSmoke) }

func (h *Handler) setHazard(c *gin.Context, kind models.HazardKind) {
	var req HazardFlagRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if err := h.services.SetHazard(c.Request.Context(), kind, *req.On); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSetHazard, "set_hazard_failed", err, "kind", kind)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, string(kind): *req.On})
}
