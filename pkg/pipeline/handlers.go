package pipeline

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/errcodes"
)

type handler struct {
	syncService *Service
	apiKey      string
}

// triggerSync kicks off a full sync run and blocks until it completes,
// returning the run report. A concurrent trigger gets a 409 from the
// single-flight guard in the service.
func (h *handler) triggerSync(c echo.Context) error {
	ctx := c.Request().Context()

	if h.apiKey != "" {
		key := c.Request().Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) != 1 {
			return errcodes.Unauthorized()
		}
	}

	report, err := h.syncService.Sync(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, report))
}
