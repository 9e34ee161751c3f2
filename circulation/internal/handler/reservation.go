package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

// CreateReservation
// @Summary Place a hold on an item copy
// @Tags reservations
// @Accept json
// @Produce json
// @Param input body model.CreateReservationRequest true "reservation"
// @Success 201 {object} model.Reservation
// @Failure 400 {object} errs.ErrorResponse
// @Router /api/v1/reservations [post]
func (h *Handler) CreateReservation(c echo.Context) error {
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r, err := h.reservationSvc.CreateReservation(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

// ListReservations
// @Summary Reservations of a patron
// @Tags reservations
// @Produce json
// @Param patronId query int true "patron id"
// @Success 200 {array} model.Reservation
// @Router /api/v1/reservations [get]
func (h *Handler) ListReservations(c echo.Context) error {
	var patronID int64
	if err := echo.QueryParamsBinder(c).MustInt64("patronId", &patronID).BindError(); err != nil || patronID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "patronId must be a positive integer")
	}
	list, err := h.reservationSvc.ListPatronReservations(c.Request().Context(), patronID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// FulfillReservation
// @Summary Check the copy out to the patron at the head of the queue
// @Tags reservations
// @Produce json
// @Param id path int true "reservation id"
// @Success 200 {object} model.Reservation
// @Failure 409 {object} errs.ErrorResponse
// @Router /api/v1/reservations/{id}/fulfill [post]
func (h *Handler) FulfillReservation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.reservationSvc.Fulfill(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}

// CancelReservation
// @Summary Cancel a waiting or ready reservation
// @Tags reservations
// @Produce json
// @Param id path int true "reservation id"
// @Success 200 {object} model.Reservation
// @Failure 409 {object} errs.ErrorResponse
// @Router /api/v1/reservations/{id}/cancel [post]
func (h *Handler) CancelReservation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.reservationSvc.Cancel(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}

// GetQueue
// @Summary Active reservations of a copy in queue order
// @Tags copies
// @Produce json
// @Param copyId path int true "item copy id"
// @Success 200 {object} model.QueueView
// @Router /api/v1/copies/{copyId}/queue [get]
func (h *Handler) GetQueue(c echo.Context) error {
	id, err := pathID(c, "copyId")
	if err != nil {
		return err
	}
	q, err := h.reservationSvc.GetQueue(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, q)
}

// Checkin
// @Summary Copy returned to the shelf; promote the next waiting patron
// @Tags copies
// @Accept json
// @Produce json
// @Param copyId path int true "item copy id"
// @Success 200 {object} model.Reservation
// @Success 204
// @Router /api/v1/copies/{copyId}/checkin [post]
func (h *Handler) Checkin(c echo.Context) error {
	id, err := pathID(c, "copyId")
	if err != nil {
		return err
	}
	var req model.CheckinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r, err := h.reservationSvc.PromoteNext(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	if r == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, r)
}

// QueueStats
// @Summary Reservation queue statistics
// @Tags reservations
// @Produce json
// @Success 200 {object} model.QueueStats
// @Router /api/v1/reservations/stats [get]
func (h *Handler) QueueStats(c echo.Context) error {
	st, err := h.reservationSvc.QueueStats(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, st)
}
