package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"librarydesk/model"
)

// Source is whatever can produce dashboard counters; the storage backends do.
type Source interface {
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

type Controller struct {
	Src Source
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

// GET /v1/stats  (admin)
func (h *Controller) Get(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	st, err := h.Src.Stats(c.Request().Context())
	if err != nil {
		h.Log.Error("stats", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, st)
}
