package pipeline

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers sync routes on the API group.
func RegisterRoutes(g *echo.Group, svc *Service, apiKey string) {
	h := &handler{
		syncService: svc,
		apiKey:      apiKey,
	}

	g.POST("/sync", h.triggerSync)
}
