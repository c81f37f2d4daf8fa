package search

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	searchService *Service
}

func (h *handler) globalSearch(c echo.Context) error {
	ctx := c.Request().Context()

	params := GlobalSearchQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.searchService.GlobalSearch(ctx, params.Query, params.Language)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, result))
}

func (h *handler) searchCourses(c echo.Context) error {
	ctx := c.Request().Context()

	params := CoursesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	results, total, err := h.searchService.SearchCourses(ctx, params.Query, params.Language, params.Limit, params.Offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, PagedResponse[CourseSearchResult]{Results: results, Total: total}))
}

func (h *handler) searchResources(c echo.Context) error {
	ctx := c.Request().Context()

	params := ResourcesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	results, total, err := h.searchService.SearchResources(ctx, params.Query, params.Language, params.Category, params.Limit, params.Offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, PagedResponse[ResourceSearchResult]{Results: results, Total: total}))
}
