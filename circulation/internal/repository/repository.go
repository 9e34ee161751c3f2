package repository

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

// ReservationRepository is the storage of the hold queues. Atomic runs fn inside one
// transaction; every method of the tx value takes part in it.
type ReservationRepository interface {
	Atomic(ctx context.Context, fn func(tx ReservationRepository) error) error

	LockCopy(ctx context.Context, copyID int64) (model.ItemCopy, error)
	GetCopy(ctx context.Context, copyID int64) (model.ItemCopy, error)
	SetCopyStatus(ctx context.Context, copyID int64, status model.CopyStatus) error
	GetCopyDetails(ctx context.Context, copyID int64) (model.CopyDetails, error)
	GetPatron(ctx context.Context, patronID int64) (model.Patron, error)

	GetReservation(ctx context.Context, id int64) (model.Reservation, error)
	ActiveReservations(ctx context.Context, copyID int64) ([]model.Reservation, error)
	InsertReservation(ctx context.Context, r model.Reservation) (model.Reservation, error)
	UpdateReservation(ctx context.Context, r model.Reservation) error
	ListPatronReservations(ctx context.Context, patronID int64) ([]model.Reservation, error)
	ExpiredCopyIDs(ctx context.Context, now time.Time) ([]int64, error)
	QueueStats(ctx context.Context, now time.Time) (model.QueueStats, error)

	InsertNotification(ctx context.Context, n model.Notification) error
}

// NotificationRepository is the outbound message store.
type NotificationRepository interface {
	InsertNotification(ctx context.Context, n model.Notification) error
	GetNotification(ctx context.Context, id uuid.UUID) (model.Notification, error)
	DueNotifications(ctx context.Context, now time.Time, limit uint64) ([]model.Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	ScheduleRetry(ctx context.Context, id uuid.UUID, retryCount int, next time.Time, errMsg string, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, retryCount int, errMsg string, at time.Time) error
	ResetForRetry(ctx context.Context, id uuid.UUID, now time.Time) (model.Notification, error)
	CancelPending(ctx context.Context, filter model.CancelFilter, now time.Time) (int64, error)
	DeleteSentBefore(ctx context.Context, before time.Time) (int64, error)
	ExistsRecent(ctx context.Context, patronID int64, emailType model.EmailType, itemCopyID int64, since time.Time) (bool, error)
	Stats(ctx context.Context, now time.Time) (model.NotificationStats, error)
}

// LoanRepository reads the active loans the scanner works on.
type LoanRepository interface {
	OverdueLoans(ctx context.Context, now time.Time) ([]model.LoanDue, error)
	DueSoonLoans(ctx context.Context, now, until time.Time) ([]model.LoanDue, error)
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	pool *pgxpool.Pool
	db   querier
	log  *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		pool: db,
		db:   db,
		log:  log.Named("repo"),
	}, nil
}

const (
	copiesTableName        = `item_copies`
	patronsTableName       = `patrons`
	itemsTableName         = `items`
	branchesTableName      = `branches`
	loansTableName         = `transactions`
	reservationsTableName  = `reservations`
	notificationsTableName = `notifications`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) Atomic(ctx context.Context, fn func(tx ReservationRepository) error) error {
	if r.pool == nil {
		return fn(r)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&repository{db: tx, log: r.log})
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
