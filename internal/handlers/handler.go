package handlers

import (
	"device_control/internal/clock"
	"device_control/internal/logger"
	"device_control/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	clk      clock.Clock
	log      *logger.Logger
}

func NewHandler(services *service.Service, clk clock.Clock, log *logger.Logger) *Handler {
	return &Handler{services: services, clk: clk, log: log}
}

// InitRoutes builds the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	// The device API distinguishes 405 from 404 (e.g. GET /api/upload).
	router.HandleMethodNotAllowed = true

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	// Admin surface: login page, session cookie, admin page
	router.GET("/", h.root)
	router.POST("/login", h.login)

	h.registerAPIRoutes(router)

	// Live snapshot stream (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/auth/token", h.issueToken)
		api.GET("/uptime", h.uptime)

		api.GET("/events", h.listEvents)
		api.POST("/events", h.insertEvent)
		api.DELETE("/events/:id", h.deleteEvent)

		api.POST("/upload", h.uploadFile)

		api.GET("/history", h.listHistory)
		api.POST("/history", h.appendHistory)
	}

	// File management requires an authenticated caller: either the admin
	// session cookie or a bearer token.
	fs := r.Group("/api/fs", h.authMiddleware)
	{
		fs.GET("/list", h.listFiles)
		fs.GET("/usage", h.fsUsage)
		fs.DELETE("/file/:name", h.deleteFile)
	}
}
