// Package routes wires the v1 endpoints onto a gin route group.
package routes

import (
	"github.com/gin-gonic/gin"

	"podscribe/internal/api/v1/handlers"
	"podscribe/internal/api/v1/services"
)

// ServiceContainer bundles the services the v1 routes depend on.
type ServiceContainer struct {
	TranscriptionService *services.TranscriptionService
	SearchService        *services.SearchService
}

// RegisterRoutes mounts the v1 endpoints on rg.
func RegisterRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	transcriptions := handlers.NewTranscriptionHandler(container.TranscriptionService)
	search := handlers.NewSearchHandler(container.SearchService)

	rg.POST("/transcriptions", transcriptions.Create)
	rg.GET("/episodes/search", search.Search)
}
