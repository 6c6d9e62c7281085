package handlers

import (
	"roof_vent/internal/logger"
	"roof_vent/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		api.GET("/status", h.getStatus)
		api.POST("/logout", h.logout)

		h.registerControlRoutes(api)
		h.registerHistoryRoutes(api)
	}
}

func (h *Handler) registerControlRoutes(api *gin.RouterGroup) {
	// Body example: {"command":"OPEN"}
	api.POST("/control-vent", h.controlVent)
	// Body example: {"on":true}
	api.POST("/set-rain", h.setRain)
	api.POST("/set-smoke", h.setSmoke)
	// Body example: {"temp":22.4,"hum":51.0}
	api.POST("/sensor", h.postSensor)
	// Body example: {"city":"Sydney,AU","key":"..."}
	api.POST("/pull-weather", h.pullWeather)
}

func (h *Handler) registerHistoryRoutes(api *gin.RouterGroup) {
	api.GET("/history", h.getHistory)
	api.GET("/rain-history", h.getRainHistory)
	api.GET("/smoke-history", h.getSmokeHistory)
	api.GET("/control-log", h.getControlLog)
}
