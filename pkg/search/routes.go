package search

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers search routes on the API group.
func RegisterRoutes(g *echo.Group, db *bun.DB) {
	searchService := NewService(db)

	h := &handler{
		searchService: searchService,
	}

	g.GET("/search", h.globalSearch)
	g.GET("/search/courses", h.searchCourses)
	g.GET("/search/resources", h.searchResources)
}
