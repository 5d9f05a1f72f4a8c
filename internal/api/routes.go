package api

import (
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/youruser/reframe/internal/config"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg *config.Config, logger *log.Logger) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = cfg.Server.MaxUploadMB << 20
	r.Use(requestID(), limitBody(cfg.Server.MaxUploadMB<<20))
	RegisterRoutes(r, NewHandler(cfg, logger))
	return r
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/plan", h.plan)
		api.POST("/convert", h.convert)
	}
}
