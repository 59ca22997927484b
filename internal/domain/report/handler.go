package report

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/reports/appointments", h.Appointments)
}

func (h *Handler) Appointments(c echo.Context) error {
	f := Filter{
		Status:   c.QueryParam("status"),
		Minister: c.QueryParam("minister"),
		Sector:   c.QueryParam("sector"),
		From:     c.QueryParam("from"),
		To:       c.QueryParam("to"),
	}
	rows, err := h.svc.Appointments(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  rows,
		"total": len(rows),
	})
}
