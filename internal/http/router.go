package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kindle-digest/internal/importers"
	"github.com/mrlokans/kindle-digest/internal/service"
	"github.com/mrlokans/kindle-digest/internal/store"
)

// RouterConfig carries the collaborators the HTTP surface needs.
type RouterConfig struct {
	Store    *store.Store
	Pipeline *importers.Pipeline
	Service  *service.Service
	Version  string
}

// NewRouter creates the HTTP router for serve mode.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Store, cfg.Version)
	router.GET("/healthz", health.Status)

	importCtl := NewImportController(cfg.Pipeline)
	router.POST("/api/import", importCtl.Import)

	preview := NewPreviewController(cfg.Service)
	router.GET("/api/digest/preview", preview.Preview)

	return router
}
