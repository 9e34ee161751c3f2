package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

var (
	copyColumns        = []string{"id", "item_id", "branch_id", "barcode", "status"}
	reservationColumns = []string{
		"id", "reservation_uid", "item_copy_id", "patron_id", "status",
		"queue_position", "reservation_date", "expiry_date", "created_at", "updated_at",
	}
	activeStatuses = []model.ReservationStatus{model.ReservationWaiting, model.ReservationReady}
)

// LockCopy reads the copy row with FOR UPDATE, serializing queue transitions per copy.
func (r *repository) LockCopy(ctx context.Context, copyID int64) (model.ItemCopy, error) {
	return r.getCopy(ctx, copyID, true)
}

func (r *repository) GetCopy(ctx context.Context, copyID int64) (model.ItemCopy, error) {
	return r.getCopy(ctx, copyID, false)
}

func (r *repository) getCopy(ctx context.Context, copyID int64, lock bool) (model.ItemCopy, error) {
	q := qb.Select(copyColumns...).
		From(copiesTableName).
		Where(sq.Eq{"id": copyID})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}
	query, args, err := q.ToSql()
	if err != nil {
		return model.ItemCopy{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ItemCopy{}, errors.Wrap(err, "getCopy")
	}
	c, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ItemCopy])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ItemCopy{}, errs.ErrCopyNotFound
		}
		return model.ItemCopy{}, errors.Wrap(err, "getCopy")
	}
	return c, nil
}

func (r *repository) SetCopyStatus(ctx context.Context, copyID int64, status model.CopyStatus) error {
	query, args, err := qb.Update(copiesTableName).
		Set("status", status).
		Where(sq.Eq{"id": copyID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "SetCopyStatus")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrCopyNotFound
	}
	return nil
}

func (r *repository) GetCopyDetails(ctx context.Context, copyID int64) (model.CopyDetails, error) {
	query, args, err := qb.Select("c.id as item_copy_id", "i.title", "i.item_type", "i.author", "coalesce(b.name, '') as branch_name").
		From(copiesTableName + " c").
		Join(fmt.Sprintf("%s i on i.id = c.item_id", itemsTableName)).
		LeftJoin(fmt.Sprintf("%s b on b.id = c.branch_id", branchesTableName)).
		Where(sq.Eq{"c.id": copyID}).
		ToSql()
	if err != nil {
		return model.CopyDetails{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.CopyDetails{}, errors.Wrap(err, "GetCopyDetails")
	}
	d, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.CopyDetails])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CopyDetails{}, errs.ErrCopyNotFound
		}
		return model.CopyDetails{}, errors.Wrap(err, "GetCopyDetails")
	}
	return d, nil
}

func (r *repository) GetPatron(ctx context.Context, patronID int64) (model.Patron, error) {
	query, args, err := qb.Select("id", "first_name", "last_name", "email", "is_active").
		From(patronsTableName).
		Where(sq.Eq{"id": patronID}).
		ToSql()
	if err != nil {
		return model.Patron{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Patron{}, errors.Wrap(err, "GetPatron")
	}
	p, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Patron])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Patron{}, errs.ErrPatronNotFound
		}
		return model.Patron{}, errors.Wrap(err, "GetPatron")
	}
	return p, nil
}

func (r *repository) GetReservation(ctx context.Context, id int64) (model.Reservation, error) {
	query, args, err := qb.Select(reservationColumns...).
		From(reservationsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Reservation{}, errors.Wrap(err, "GetReservation")
	}
	res, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reservation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, errors.Wrap(err, "GetReservation")
	}
	return res, nil
}

func (r *repository) ActiveReservations(ctx context.Context, copyID int64) ([]model.Reservation, error) {
	return r.listReservations(ctx, sq.And{
		sq.Eq{"item_copy_id": copyID},
		sq.Eq{"status": activeStatuses},
	}, "queue_position", "reservation_date")
}

func (r *repository) ListPatronReservations(ctx context.Context, patronID int64) ([]model.Reservation, error) {
	return r.listReservations(ctx, sq.Eq{"patron_id": patronID}, "reservation_date desc")
}

func (r *repository) listReservations(ctx context.Context, pred sq.Sqlizer, orderBy ...string) ([]model.Reservation, error) {
	query, args, err := qb.Select(reservationColumns...).
		From(reservationsTableName).
		Where(pred).
		OrderBy(orderBy...).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "listReservations")
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Reservation])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return items, nil
}

func (r *repository) InsertReservation(ctx context.Context, res model.Reservation) (model.Reservation, error) {
	query, args, err := qb.Insert(reservationsTableName).
		Columns("reservation_uid", "item_copy_id", "patron_id", "status", "queue_position",
			"reservation_date", "expiry_date", "created_at", "updated_at").
		Values(res.ReservationUid, res.ItemCopyID, res.PatronID, res.Status, res.QueuePosition,
			res.ReservationDate, res.ExpiryDate, res.CreatedAt, res.UpdatedAt).
		Suffix("RETURNING " + joinColumns(reservationColumns)).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Reservation{}, errs.ErrAlreadyReserved
		}
		return model.Reservation{}, errors.Wrap(err, "InsertReservation")
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reservation])
	if err != nil {
		if isUniqueViolation(err) {
			return model.Reservation{}, errs.ErrAlreadyReserved
		}
		r.log.Error("InsertReservation", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.Reservation{}, errors.Wrap(err, "InsertReservation")
	}
	return created, nil
}

func (r *repository) UpdateReservation(ctx context.Context, res model.Reservation) error {
	query, args, err := qb.Update(reservationsTableName).
		SetMap(map[string]any{
			"status":         res.Status,
			"queue_position": res.QueuePosition,
			"expiry_date":    res.ExpiryDate,
			"updated_at":     res.UpdatedAt,
		}).
		Where(sq.Eq{"id": res.ID}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "UpdateReservation")
	}
	return nil
}

func (r *repository) ExpiredCopyIDs(ctx context.Context, now time.Time) ([]int64, error) {
	query, args, err := qb.Select("item_copy_id").
		Distinct().
		From(reservationsTableName).
		Where(sq.Eq{"status": model.ReservationReady}).
		Where(sq.Lt{"expiry_date": now}).
		OrderBy("item_copy_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "ExpiredCopyIDs")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return ids, nil
}

func (r *repository) QueueStats(ctx context.Context, now time.Time) (model.QueueStats, error) {
	stats := model.QueueStats{ByStatus: make(map[model.ReservationStatus]int)}

	query, args, err := qb.Select("status", "count(*)").
		From(reservationsTableName).
		GroupBy("status").
		ToSql()
	if err != nil {
		return stats, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return stats, errors.Wrap(err, "QueueStats")
	}
	var (
		status model.ReservationStatus
		count  int
	)
	if _, err := pgx.ForEachRow(rows, []any{&status, &count}, func() error {
		stats.ByStatus[status] = count
		return nil
	}); err != nil {
		return stats, errors.Wrap(err, "QueueStats")
	}

	perCopy := qb.Select("item_copy_id", "count(*) as n").
		From(reservationsTableName).
		Where(sq.Eq{"status": activeStatuses}).
		GroupBy("item_copy_id")
	query, args, err = qb.Select("count(*)", "coalesce(avg(q.n), 0)::float8").
		FromSelect(perCopy, "q").
		ToSql()
	if err != nil {
		return stats, err
	}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&stats.ActiveQueues, &stats.AvgQueueLength); err != nil {
		return stats, errors.Wrap(err, "QueueStats")
	}

	query, args, err = qb.Select("count(*)").
		From(reservationsTableName).
		Where(sq.Eq{"status": model.ReservationReady}).
		Where(sq.GtOrEq{"expiry_date": now}).
		Where(sq.Lt{"expiry_date": now.Add(24 * time.Hour)}).
		ToSql()
	if err != nil {
		return stats, err
	}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&stats.ExpiringSoon); err != nil {
		return stats, errors.Wrap(err, "QueueStats")
	}
	return stats, nil
}
