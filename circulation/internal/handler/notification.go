package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

// Enqueue
// @Summary Queue a notification
// @Tags notifications
// @Accept json
// @Produce json
// @Param input body model.EnqueueRequest true "notification"
// @Success 201 {object} model.Notification
// @Failure 400 {object} errs.ErrorResponse
// @Router /api/v1/notifications [post]
func (h *Handler) Enqueue(c echo.Context) error {
	var req model.EnqueueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	n, err := h.notificationSvc.Enqueue(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, n)
}

// RetryNotification
// @Summary Requeue a failed notification
// @Tags notifications
// @Produce json
// @Param id path string true "notification id"
// @Success 200 {object} model.Notification
// @Failure 409 {object} errs.ErrorResponse
// @Router /api/v1/notifications/{id}/retry [post]
func (h *Handler) RetryNotification(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a uuid")
	}
	n, err := h.notificationSvc.Retry(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, n)
}

// CancelNotifications
// @Summary Cancel pending notifications matching all given filters
// @Tags notifications
// @Accept json
// @Produce json
// @Param input body model.CancelFilter true "filters"
// @Success 200 {object} model.CancelResponse
// @Router /api/v1/notifications/cancel [post]
func (h *Handler) CancelNotifications(c echo.Context) error {
	var f model.CancelFilter
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	n, err := h.notificationSvc.CancelPending(c.Request().Context(), f)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.CancelResponse{Cancelled: n})
}

// NotificationStats
// @Summary Notification queue statistics
// @Tags notifications
// @Produce json
// @Success 200 {object} model.NotificationStats
// @Router /api/v1/notifications/stats [get]
func (h *Handler) NotificationStats(c echo.Context) error {
	st, err := h.notificationSvc.Stats(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, st)
}
