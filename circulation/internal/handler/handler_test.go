package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/handler"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/pkg/validate"

	service_mocks "github.com/Astemirdum/library-circulation/circulation/internal/handler/mocks"
)

var (
	ts          = time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	rsvUid      = uuid.MustParse("f7cdc58f-2caf-4b15-9727-f89dcc629b27")
	ntfID       = uuid.MustParse("83575e12-7ce0-48ee-9931-51919ff3c9ee")
	reservation = model.Reservation{
		ID:              7,
		ReservationUid:  rsvUid,
		ItemCopyID:      100,
		PatronID:        1,
		Status:          model.ReservationWaiting,
		QueuePosition:   2,
		ReservationDate: ts,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
	reservationJSON = `{"id":7,"reservationUid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","itemCopyId":100,"patronId":1,"status":"waiting","queuePosition":2,"reservationDate":"2024-05-06T10:00:00Z","createdAt":"2024-05-06T10:00:00Z","updatedAt":"2024-05-06T10:00:00Z"}`
)

type services struct {
	reservation  *service_mocks.MockReservationService
	notification *service_mocks.MockNotificationService
	worker       *service_mocks.MockDeliveryWorker
	scanner      *service_mocks.MockLoanScanner
}

type request struct {
	method, target, body string
}

type response struct {
	expectedCode int
	expectedBody string
}

func serve(t *testing.T, mockBehavior func(s services), req request) *httptest.ResponseRecorder {
	t.Helper()
	c := gomock.NewController(t)
	defer c.Finish()
	s := services{
		reservation:  service_mocks.NewMockReservationService(c),
		notification: service_mocks.NewMockNotificationService(c),
		worker:       service_mocks.NewMockDeliveryWorker(c),
		scanner:      service_mocks.NewMockLoanScanner(c),
	}
	h := handler.New(s.reservation, s.notification, s.worker, s.scanner, zap.NewExample().Named("test"))

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	h.Register(e.Group("/api/v1"))

	r := httptest.NewRequest(req.method, req.target, strings.NewReader(req.body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()

	mockBehavior(s)
	e.ServeHTTP(w, r)
	return w
}

func TestHandler_CreateReservation(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name         string
		body         string
		mockBehavior func(s services)
		response     response
	}{
		{
			name: "ok",
			body: `{"itemCopyId":100,"patronId":1}`,
			mockBehavior: func(s services) {
				s.reservation.EXPECT().
					CreateReservation(context.Background(), model.CreateReservationRequest{ItemCopyID: 100, PatronID: 1}).
					Return(reservation, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: reservationJSON,
			},
		},
		{
			name:         "err. patron required",
			body:         `{"itemCopyId":100}`,
			mockBehavior: func(s services) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'CreateReservationRequest.PatronID' Error:Field validation for 'PatronID' failed on the 'required' tag"}`,
			},
		},
		{
			name: "err. inactive patron",
			body: `{"itemCopyId":100,"patronId":7}`,
			mockBehavior: func(s services) {
				s.reservation.EXPECT().
					CreateReservation(context.Background(), model.CreateReservationRequest{ItemCopyID: 100, PatronID: 7}).
					Return(model.Reservation{}, errs.ErrPatronInactive)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"patron is inactive"}`,
			},
		},
		{
			name: "err. already reserved",
			body: `{"itemCopyId":100,"patronId":1}`,
			mockBehavior: func(s services) {
				s.reservation.EXPECT().
					CreateReservation(context.Background(), gomock.Any()).
					Return(model.Reservation{}, errs.ErrAlreadyReserved)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"patron already holds an active reservation for this copy"}`,
			},
		},
		{
			name: "err. internal",
			body: `{"itemCopyId":100,"patronId":1}`,
			mockBehavior: func(s services) {
				s.reservation.EXPECT().
					CreateReservation(context.Background(), gomock.Any()).
					Return(model.Reservation{}, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, tt.mockBehavior, request{http.MethodPost, "/api/v1/reservations", tt.body})
			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ReservationTransitions(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name         string
		target       string
		mockBehavior func(s services)
		response     response
	}{
		{
			name:   "fulfill ok",
			target: "/api/v1/reservations/7/fulfill",
			mockBehavior: func(s services) {
				s.reservation.EXPECT().Fulfill(context.Background(), int64(7)).Return(reservation, nil)
			},
			response: response{expectedCode: http.StatusOK, expectedBody: reservationJSON},
		},
		{
			name:   "fulfill not at head",
			target: "/api/v1/reservations/7/fulfill",
			mockBehavior: func(s services) {
				s.reservation.EXPECT().Fulfill(context.Background(), int64(7)).
					Return(model.Reservation{}, errs.ErrNotQueueHead)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"reservation is not at the head of the queue"}`,
			},
		},
		{
			name:   "cancel unknown",
			target: "/api/v1/reservations/99/cancel",
			mockBehavior: func(s services) {
				s.reservation.EXPECT().Cancel(context.Background(), int64(99)).
					Return(model.Reservation{}, errors.Wrap(errs.ErrNotFound, "reservation 99"))
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"reservation 99: not found"}`,
			},
		},
		{
			name:   "cancel inactive",
			target: "/api/v1/reservations/7/cancel",
			mockBehavior: func(s services) {
				s.reservation.EXPECT().Cancel(context.Background(), int64(7)).
					Return(model.Reservation{}, errs.ErrConflict)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"reservation is not active"}`,
			},
		},
		{
			name:         "bad id",
			target:       "/api/v1/reservations/abc/cancel",
			mockBehavior: func(s services) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"id must be a positive integer"}`,
			},
		},
		{
			name:   "checkin promotes",
			target: "/api/v1/copies/100/checkin",
			mockBehavior: func(s services) {
				s.reservation.EXPECT().PromoteNext(context.Background(), int64(100)).Return(&reservation, nil)
			},
			response: response{expectedCode: http.StatusOK, expectedBody: reservationJSON},
		},
		{
			name:   "checkin with empty queue",
			target: "/api/v1/copies/100/checkin",
			mockBehavior: func(s services) {
				s.reservation.EXPECT().PromoteNext(context.Background(), int64(100)).Return(nil, nil)
			},
			response: response{expectedCode: http.StatusNoContent},
		},
		{
			name:   "checkin unknown copy",
			target: "/api/v1/copies/5/checkin",
			mockBehavior: func(s services) {
				s.reservation.EXPECT().PromoteNext(context.Background(), int64(5)).Return(nil, errs.ErrCopyNotFound)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"item copy not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, tt.mockBehavior, request{method: http.MethodPost, target: tt.target})
			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Queries(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name         string
		target       string
		mockBehavior func(s services)
		response     response
	}{
		{
			name:   "list by patron",
			target: "/api/v1/reservations?patronId=1",
			mockBehavior: func(s services) {
				s.reservation.EXPECT().ListPatronReservations(context.Background(), int64(1)).
					Return([]model.Reservation{reservation}, nil)
			},
			response: response{expectedCode: http.StatusOK, expectedBody: "[" + reservationJSON + "]"},
		},
		{
			name:         "list without patron",
			target:       "/api/v1/reservations",
			mockBehavior: func(s services) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"patronId must be a positive integer"}`,
			},
		},
		{
			name:   "queue view",
			target: "/api/v1/copies/100/queue",
			mockBehavior: func(s services) {
				s.reservation.EXPECT().GetQueue(context.Background(), int64(100)).
					Return(model.QueueView{ItemCopyID: 100, CopyStatus: model.CopyCheckedOut, Reservations: []model.Reservation{reservation}}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"itemCopyId":100,"copyStatus":"CheckedOut","reservations":[` + reservationJSON + `]}`,
			},
		},
		{
			name:   "queue stats",
			target: "/api/v1/reservations/stats",
			mockBehavior: func(s services) {
				s.reservation.EXPECT().QueueStats(context.Background()).Return(model.QueueStats{}, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, tt.mockBehavior, request{method: http.MethodGet, target: tt.target})
			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Notifications(t *testing.T) {
	t.Parallel()
	patronID := int64(1)
	notification := model.Notification{
		ID:               ntfID,
		PatronID:         1,
		EmailType:        model.EmailFineNotice,
		RecipientAddress: "ada@example.com",
		Subject:          "Fine notice",
		Status:           model.NotificationPending,
		Priority:         5,
		ScheduledFor:     ts,
		MaxRetries:       3,
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}
	notificationJSON := `{"id":"83575e12-7ce0-48ee-9931-51919ff3c9ee","patronId":1,"emailType":"fine_notice","recipientAddress":"ada@example.com","subject":"Fine notice","bodyText":"","bodyHtml":"","status":"pending","priority":5,"scheduledFor":"2024-05-06T10:00:00Z","retryCount":0,"maxRetries":3,"createdAt":"2024-05-06T10:00:00Z","updatedAt":"2024-05-06T10:00:00Z"}`

	var tests = []struct {
		name         string
		req          request
		mockBehavior func(s services)
		response     response
	}{
		{
			name: "enqueue ok",
			req:  request{http.MethodPost, "/api/v1/notifications", `{"patronId":1,"emailType":"fine_notice","recipientAddress":"ada@example.com","subject":"Fine notice"}`},
			mockBehavior: func(s services) {
				s.notification.EXPECT().Enqueue(context.Background(), model.EnqueueRequest{
					PatronID:         1,
					EmailType:        model.EmailFineNotice,
					RecipientAddress: "ada@example.com",
					Subject:          "Fine notice",
				}).Return(notification, nil)
			},
			response: response{expectedCode: http.StatusCreated, expectedBody: notificationJSON},
		},
		{
			name:         "enqueue bad address",
			req:          request{http.MethodPost, "/api/v1/notifications", `{"patronId":1,"emailType":"fine_notice","recipientAddress":"nobody"}`},
			mockBehavior: func(s services) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'EnqueueRequest.RecipientAddress' Error:Field validation for 'RecipientAddress' failed on the 'email' tag"}`,
			},
		},
		{
			name: "enqueue unknown type",
			req:  request{http.MethodPost, "/api/v1/notifications", `{"patronId":1,"emailType":"postcard","recipientAddress":"ada@example.com"}`},
			mockBehavior: func(s services) {
				s.notification.EXPECT().Enqueue(context.Background(), gomock.Any()).
					Return(model.Notification{}, errs.ErrInvalidEmailType)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"unknown email type"}`,
			},
		},
		{
			name: "retry ok",
			req:  request{method: http.MethodPost, target: "/api/v1/notifications/" + ntfID.String() + "/retry"},
			mockBehavior: func(s services) {
				s.notification.EXPECT().Retry(context.Background(), ntfID).Return(notification, nil)
			},
			response: response{expectedCode: http.StatusOK, expectedBody: notificationJSON},
		},
		{
			name: "retry not failed",
			req:  request{method: http.MethodPost, target: "/api/v1/notifications/" + ntfID.String() + "/retry"},
			mockBehavior: func(s services) {
				s.notification.EXPECT().Retry(context.Background(), ntfID).
					Return(model.Notification{}, errs.ErrNotRetryable)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"only failed notifications can be retried"}`,
			},
		},
		{
			name:         "retry bad id",
			req:          request{method: http.MethodPost, target: "/api/v1/notifications/42/retry"},
			mockBehavior: func(s services) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"id must be a uuid"}`,
			},
		},
		{
			name: "cancel by patron",
			req:  request{http.MethodPost, "/api/v1/notifications/cancel", `{"patronId":1}`},
			mockBehavior: func(s services) {
				s.notification.EXPECT().CancelPending(context.Background(), model.CancelFilter{PatronID: &patronID}).
					Return(int64(2), nil)
			},
			response: response{expectedCode: http.StatusOK, expectedBody: `{"cancelled":2}`},
		},
		{
			name: "cancel without filters",
			req:  request{http.MethodPost, "/api/v1/notifications/cancel", `{}`},
			mockBehavior: func(s services) {
				s.notification.EXPECT().CancelPending(context.Background(), model.CancelFilter{}).
					Return(int64(0), errors.Wrap(errs.ErrInvalidRequest, "at least one filter is required"))
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"at least one filter is required: invalid request"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, tt.mockBehavior, tt.req)
			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Admin(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name         string
		target       string
		mockBehavior func(s services)
		response     response
	}{
		{
			name:   "process batch",
			target: "/api/v1/admin/notifications/process",
			mockBehavior: func(s services) {
				s.worker.EXPECT().ProcessBatch(context.Background()).
					Return(model.BatchResult{Selected: 3, Sent: 2, Retried: 1}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"selected":3,"sent":2,"retried":1,"failed":0,"skipped":false}`,
			},
		},
		{
			name:   "cleanup",
			target: "/api/v1/admin/notifications/cleanup",
			mockBehavior: func(s services) {
				s.worker.EXPECT().Cleanup(context.Background()).Return(int64(12), nil)
			},
			response: response{expectedCode: http.StatusOK, expectedBody: `{"count":12}`},
		},
		{
			name:   "scan overdue",
			target: "/api/v1/admin/scan/overdue",
			mockBehavior: func(s services) {
				s.scanner.EXPECT().ScanOverdue(context.Background()).Return(4, nil)
			},
			response: response{expectedCode: http.StatusOK, expectedBody: `{"count":4}`},
		},
		{
			name:   "scan due soon",
			target: "/api/v1/admin/scan/due-soon",
			mockBehavior: func(s services) {
				s.scanner.EXPECT().ScanDueSoon(context.Background()).Return(0, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
		{
			name:   "expire sweep",
			target: "/api/v1/admin/reservations/expire",
			mockBehavior: func(s services) {
				s.reservation.EXPECT().ExpireSweep(context.Background()).Return(2, nil)
			},
			response: response{expectedCode: http.StatusOK, expectedBody: `{"count":2}`},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, tt.mockBehavior, request{method: http.MethodPost, target: tt.target})
			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Health(t *testing.T) {
	c := gomock.NewController(t)
	h := handler.New(
		service_mocks.NewMockReservationService(c),
		service_mocks.NewMockNotificationService(c),
		service_mocks.NewMockDeliveryWorker(c),
		service_mocks.NewMockLoanScanner(c),
		zap.NewNop(),
	)
	e := h.NewRouter()

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/manage/health", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}
