package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "github.com/Astemirdum/library-circulation/circulation/swagger"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	md "github.com/Astemirdum/library-circulation/pkg/middleware"
	"github.com/Astemirdum/library-circulation/pkg/validate"
)

type Handler struct {
	reservationSvc  ReservationService
	notificationSvc NotificationService
	worker          DeliveryWorker
	scanner         LoanScanner
	log             *zap.Logger
}

func New(
	reservationSvc ReservationService,
	notificationSvc NotificationService,
	worker DeliveryWorker,
	scanner LoanScanner,
	log *zap.Logger,
) *Handler {
	return &Handler{
		reservationSvc:  reservationSvc,
		notificationSvc: notificationSvc,
		worker:          worker,
		scanner:         scanner,
		log:             log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPost},
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	h.Register(api)

	return e
}

// Register mounts the API routes on g.
func (h *Handler) Register(g *echo.Group) {
	g.POST("/reservations", h.CreateReservation)
	g.GET("/reservations", h.ListReservations)
	g.GET("/reservations/stats", h.QueueStats)
	g.POST("/reservations/:id/fulfill", h.FulfillReservation)
	g.POST("/reservations/:id/cancel", h.CancelReservation)
	g.GET("/copies/:copyId/queue", h.GetQueue)
	g.POST("/copies/:copyId/checkin", h.Checkin)

	g.POST("/notifications", h.Enqueue)
	g.POST("/notifications/cancel", h.CancelNotifications)
	g.GET("/notifications/stats", h.NotificationStats)
	g.POST("/notifications/:id/retry", h.RetryNotification)

	admin := g.Group("/admin")
	admin.POST("/notifications/process", h.ProcessBatch)
	admin.POST("/notifications/cleanup", h.Cleanup)
	admin.POST("/scan/overdue", h.ScanOverdue)
	admin.POST("/scan/due-soon", h.ScanDueSoon)
	admin.POST("/reservations/expire", h.ExpireSweep)
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) httpError(err error) error {
	switch {
	case errs.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errs.IsConflict(err):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	h.log.Error("internal", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func pathID(c echo.Context, name string) (int64, error) {
	var id int64
	if err := echo.PathParamsBinder(c).MustInt64(name, &id).BindError(); err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return id, nil
}
