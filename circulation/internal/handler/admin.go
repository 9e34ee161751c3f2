package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

// ProcessBatch
// @Summary Deliver one batch of due notifications now
// @Tags admin
// @Produce json
// @Success 200 {object} model.BatchResult
// @Router /api/v1/admin/notifications/process [post]
func (h *Handler) ProcessBatch(c echo.Context) error {
	res, err := h.worker.ProcessBatch(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// Cleanup
// @Summary Delete sent notifications past retention
// @Tags admin
// @Produce json
// @Success 200 {object} model.CountResponse
// @Router /api/v1/admin/notifications/cleanup [post]
func (h *Handler) Cleanup(c echo.Context) error {
	n, err := h.worker.Cleanup(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.CountResponse{Count: n})
}

// ScanOverdue
// @Summary Queue overdue reminders now
// @Tags admin
// @Produce json
// @Success 200 {object} model.CountResponse
// @Router /api/v1/admin/scan/overdue [post]
func (h *Handler) ScanOverdue(c echo.Context) error {
	n, err := h.scanner.ScanOverdue(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.CountResponse{Count: int64(n)})
}

// ScanDueSoon
// @Summary Queue due-date reminders now
// @Tags admin
// @Produce json
// @Success 200 {object} model.CountResponse
// @Router /api/v1/admin/scan/due-soon [post]
func (h *Handler) ScanDueSoon(c echo.Context) error {
	n, err := h.scanner.ScanDueSoon(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.CountResponse{Count: int64(n)})
}

// ExpireSweep
// @Summary Expire lapsed holds and hand the copies on
// @Tags admin
// @Produce json
// @Success 200 {object} model.CountResponse
// @Router /api/v1/admin/reservations/expire [post]
func (h *Handler) ExpireSweep(c echo.Context) error {
	n, err := h.reservationSvc.ExpireSweep(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.CountResponse{Count: int64(n)})
}
