package cover

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"librarydesk/apperr"
	coverrepo "librarydesk/repository/cover"
	"librarydesk/service/catalog"
)

type Controller struct {
	Svc   catalog.Service
	Cover coverrepo.Repo
	Log   *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

// GET /v1/items/:id/cover — redirects to the first cover object that exists.
func (h *Controller) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	it, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		if apperr.Code(err) == apperr.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
		}
		h.Log.Error("cover item lookup", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	url, err := h.Cover.Resolve(c.Request().Context(), it.ID, it.ISBN)
	if err != nil {
		if errors.Is(err, coverrepo.ErrNoCover) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no cover image"})
		}
		h.Log.Error("cover resolve", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"message": "cover store unavailable"})
	}
	return c.Redirect(http.StatusFound, url)
}

// POST /v1/items/:id/cover  (admin) — raw image body, extension via ?ext=.
func (h *Controller) Upload(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if _, err := h.Svc.Get(c.Request().Context(), id); err != nil {
		if apperr.Code(err) == apperr.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
		}
		h.Log.Error("cover item lookup", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	ext := c.QueryParam("ext")
	if ext == "" {
		ext = "jpg"
	}
	url, err := h.Cover.Upload(c.Request().Context(), id, ext,
		c.Request().Header.Get(echo.HeaderContentType), c.Request().Body)
	if err != nil {
		h.Log.Error("cover upload", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"message": "cover upload failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
