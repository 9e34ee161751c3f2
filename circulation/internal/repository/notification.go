package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

var notificationColumns = []string{
	"id", "patron_id", "email_type", "recipient_address", "subject", "body_text", "body_html",
	"status", "priority", "scheduled_for", "retry_count", "max_retries", "error_message", "sent_at",
	"item_copy_id", "transaction_id", "reservation_id", "fine_id", "metadata", "created_at", "updated_at",
}

func (r *repository) InsertNotification(ctx context.Context, n model.Notification) error {
	metadata := n.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	query, args, err := qb.Insert(notificationsTableName).
		Columns(notificationColumns...).
		Values(n.ID, n.PatronID, n.EmailType, n.RecipientAddress, n.Subject, n.BodyText, n.BodyHTML,
			n.Status, n.Priority, n.ScheduledFor, n.RetryCount, n.MaxRetries, n.ErrorMessage, n.SentAt,
			n.ItemCopyID, n.TransactionID, n.ReservationID, n.FineID, metadata, n.CreatedAt, n.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		r.log.Error("InsertNotification", zap.String("q", query), zap.Error(err))
		return errors.Wrap(err, "InsertNotification")
	}
	return nil
}

func (r *repository) GetNotification(ctx context.Context, id uuid.UUID) (model.Notification, error) {
	query, args, err := qb.Select(notificationColumns...).
		From(notificationsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Notification{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Notification{}, errors.Wrap(err, "GetNotification")
	}
	n, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Notification])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Notification{}, errs.ErrNotFound
		}
		return model.Notification{}, errors.Wrap(err, "GetNotification")
	}
	return n, nil
}

// DueNotifications returns pending rows whose time has come, most urgent first.
func (r *repository) DueNotifications(ctx context.Context, now time.Time, limit uint64) ([]model.Notification, error) {
	query, args, err := qb.Select(notificationColumns...).
		From(notificationsTableName).
		Where(sq.Eq{"status": model.NotificationPending}).
		Where(sq.LtOrEq{"scheduled_for": now}).
		OrderBy("priority ASC", "scheduled_for ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "DueNotifications")
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Notification])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return items, nil
}

func (r *repository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.updatePending(ctx, id, map[string]any{
		"status":     model.NotificationSent,
		"sent_at":    at,
		"updated_at": at,
	})
}

func (r *repository) ScheduleRetry(ctx context.Context, id uuid.UUID, retryCount int, next time.Time, errMsg string, at time.Time) error {
	return r.updatePending(ctx, id, map[string]any{
		"retry_count":   retryCount,
		"scheduled_for": next,
		"error_message": errMsg,
		"updated_at":    at,
	})
}

func (r *repository) MarkFailed(ctx context.Context, id uuid.UUID, retryCount int, errMsg string, at time.Time) error {
	return r.updatePending(ctx, id, map[string]any{
		"status":        model.NotificationFailed,
		"retry_count":   retryCount,
		"error_message": errMsg,
		"updated_at":    at,
	})
}

func (r *repository) updatePending(ctx context.Context, id uuid.UUID, set map[string]any) error {
	query, args, err := qb.Update(notificationsTableName).
		SetMap(set).
		Where(sq.Eq{"id": id, "status": model.NotificationPending}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "updatePending")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ResetForRetry moves a failed notification back to pending with a fresh retry budget.
func (r *repository) ResetForRetry(ctx context.Context, id uuid.UUID, now time.Time) (model.Notification, error) {
	query, args, err := qb.Update(notificationsTableName).
		SetMap(map[string]any{
			"status":        model.NotificationPending,
			"retry_count":   0,
			"scheduled_for": now,
			"error_message": nil,
			"updated_at":    now,
		}).
		Where(sq.Eq{"id": id, "status": model.NotificationFailed}).
		Suffix("RETURNING " + joinColumns(notificationColumns)).
		ToSql()
	if err != nil {
		return model.Notification{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Notification{}, errors.Wrap(err, "ResetForRetry")
	}
	n, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Notification])
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Notification{}, errors.Wrap(err, "ResetForRetry")
	}
	if _, err := r.GetNotification(ctx, id); err != nil {
		return model.Notification{}, err
	}
	return model.Notification{}, errs.ErrNotRetryable
}

func (r *repository) CancelPending(ctx context.Context, f model.CancelFilter, now time.Time) (int64, error) {
	pred := sq.Eq{"status": model.NotificationPending}
	if f.PatronID != nil {
		pred["patron_id"] = *f.PatronID
	}
	if f.EmailType != nil {
		pred["email_type"] = *f.EmailType
	}
	if f.ItemCopyID != nil {
		pred["item_copy_id"] = *f.ItemCopyID
	}
	if f.ReservationID != nil {
		pred["reservation_id"] = *f.ReservationID
	}
	if f.TransactionID != nil {
		pred["transaction_id"] = *f.TransactionID
	}
	query, args, err := qb.Update(notificationsTableName).
		Set("status", model.NotificationCancelled).
		Set("updated_at", now).
		Where(pred).
		ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "CancelPending")
	}
	return tag.RowsAffected(), nil
}

func (r *repository) DeleteSentBefore(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := qb.Delete(notificationsTableName).
		Where(sq.Eq{"status": model.NotificationSent}).
		Where(sq.Lt{"sent_at": before}).
		ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "DeleteSentBefore")
	}
	return tag.RowsAffected(), nil
}

// ExistsRecent reports whether a notification of emailType about the copy was created for
// the patron at or after since.
func (r *repository) ExistsRecent(ctx context.Context, patronID int64, emailType model.EmailType, itemCopyID int64, since time.Time) (bool, error) {
	sub, args, err := qb.Select("1").
		From(notificationsTableName).
		Where(sq.Eq{"patron_id": patronID, "email_type": emailType, "item_copy_id": itemCopyID}).
		Where(sq.GtOrEq{"created_at": since}).
		ToSql()
	if err != nil {
		return false, err
	}
	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "ExistsRecent")
	}
	return exists, nil
}

func (r *repository) Stats(ctx context.Context, now time.Time) (model.NotificationStats, error) {
	stats := model.NotificationStats{
		ByStatus: make(map[model.NotificationStatus]int),
		ByType:   make(map[model.EmailType]int),
	}

	query, args, err := qb.Select("status", "email_type", "count(*)").
		From(notificationsTableName).
		GroupBy("status", "email_type").
		ToSql()
	if err != nil {
		return stats, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return stats, errors.Wrap(err, "Stats")
	}
	var (
		status    model.NotificationStatus
		emailType model.EmailType
		count     int
	)
	if _, err := pgx.ForEachRow(rows, []any{&status, &emailType, &count}, func() error {
		stats.ByStatus[status] += count
		stats.ByType[emailType] += count
		return nil
	}); err != nil {
		return stats, errors.Wrap(err, "Stats")
	}

	query, args, err = qb.Select("coalesce(avg(retry_count), 0)::float8").
		Column(sq.Expr("count(*) filter (where status = 'pending' and scheduled_for <= ?)", now)).
		Column("min(scheduled_for) filter (where status = 'pending')").
		From(notificationsTableName).
		ToSql()
	if err != nil {
		return stats, err
	}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&stats.AvgRetries, &stats.DuePending, &stats.OldestPending); err != nil {
		return stats, errors.Wrap(err, "Stats")
	}
	return stats, nil
}
