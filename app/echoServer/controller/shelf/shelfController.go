package shelf

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"librarydesk/apperr"
	shelfsvc "librarydesk/service/shelf"
)

type Controller struct {
	Svc shelfsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// placementError maps the shared placement failure kinds.
func (h *Controller) placementError(c echo.Context, op string, err error) error {
	switch apperr.Code(err) {
	case apperr.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case apperr.ErrCapacity:
		return c.JSON(http.StatusConflict, echo.Map{"message": "shelf is full"})
	case apperr.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	case apperr.ErrValidation:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// POST /v1/shelves  (admin)
func (h *Controller) Create(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req CreateShelfReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	sh, err := h.Svc.Create(c.Request().Context(), shelfsvc.CreateShelfReq{
		Category:    req.Category,
		Capacity:    req.Capacity,
		ShelfNumber: req.ShelfNumber,
		PosX:        req.PosX,
		PosY:        req.PosY,
	})
	if err != nil {
		if apperr.Code(err) == apperr.ErrValidation {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		h.Log.Error("shelf create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, sh)
}

// GET /v1/shelves
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("shelf list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/shelves/:id/occupancy
func (h *Controller) Occupancy(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	n, err := h.Svc.Occupancy(c.Request().Context(), id)
	if err != nil {
		if apperr.Code(err) == apperr.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "shelf not found"})
		}
		h.Log.Error("shelf occupancy", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"shelf_id": id, "occupancy": n})
}

// POST /v1/shelves/:id/items  (admin: place an item on this shelf)
func (h *Controller) Place(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	shelfID, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req PlaceItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	if err := h.Svc.Place(c.Request().Context(), req.ItemID, shelfID, req.Position); err != nil {
		return h.placementError(c, "shelf place", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "placed"})
}

// DELETE /v1/items/:id/placement  (admin)
func (h *Controller) Remove(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	itemID, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Remove(c.Request().Context(), itemID); err != nil {
		return h.placementError(c, "shelf remove", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "removed"})
}

// PUT /v1/items/:id/placement  (admin)
func (h *Controller) Relocate(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	itemID, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req RelocateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	if err := h.Svc.Relocate(c.Request().Context(), itemID, req.ShelfID, req.Position); err != nil {
		return h.placementError(c, "shelf relocate", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "relocated"})
}
