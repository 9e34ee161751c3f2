package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/scanner"
	"github.com/Astemirdum/library-circulation/circulation/internal/service/notification"
	"github.com/Astemirdum/library-circulation/circulation/internal/service/reservation"
	"github.com/Astemirdum/library-circulation/circulation/internal/worker"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type ReservationService interface {
	CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error)
	Fulfill(ctx context.Context, id int64) (model.Reservation, error)
	Cancel(ctx context.Context, id int64) (model.Reservation, error)
	PromoteNext(ctx context.Context, copyID int64) (*model.Reservation, error)
	ExpireSweep(ctx context.Context) (int, error)
	GetQueue(ctx context.Context, copyID int64) (model.QueueView, error)
	ListPatronReservations(ctx context.Context, patronID int64) ([]model.Reservation, error)
	QueueStats(ctx context.Context) (model.QueueStats, error)
}

type NotificationService interface {
	Enqueue(ctx context.Context, req model.EnqueueRequest) (model.Notification, error)
	Retry(ctx context.Context, id uuid.UUID) (model.Notification, error)
	CancelPending(ctx context.Context, f model.CancelFilter) (int64, error)
	Stats(ctx context.Context) (model.NotificationStats, error)
}

type DeliveryWorker interface {
	ProcessBatch(ctx context.Context) (model.BatchResult, error)
	Cleanup(ctx context.Context) (int64, error)
}

type LoanScanner interface {
	ScanOverdue(ctx context.Context) (int, error)
	ScanDueSoon(ctx context.Context) (int, error)
}

var (
	_ ReservationService  = (*reservation.Service)(nil)
	_ NotificationService = (*notification.Service)(nil)
	_ DeliveryWorker      = (*worker.Worker)(nil)
	_ LoanScanner         = (*scanner.Scanner)(nil)
)
