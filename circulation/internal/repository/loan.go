package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

func (r *repository) OverdueLoans(ctx context.Context, now time.Time) ([]model.LoanDue, error) {
	return r.activeLoans(ctx, sq.Lt{"t.due_date": now})
}

func (r *repository) DueSoonLoans(ctx context.Context, now, until time.Time) ([]model.LoanDue, error) {
	return r.activeLoans(ctx, sq.And{
		sq.GtOrEq{"t.due_date": now},
		sq.LtOrEq{"t.due_date": until},
	})
}

// activeLoans lists unreturned loans matching pred whose patron can be reached by email.
func (r *repository) activeLoans(ctx context.Context, pred sq.Sqlizer) ([]model.LoanDue, error) {
	query, args, err := qb.Select(
		"t.id as transaction_id", "t.item_copy_id", "t.patron_id",
		"p.first_name", "p.last_name", "p.email",
		"i.title", "i.item_type", "coalesce(b.name, '') as branch_name",
		"t.checkout_date", "t.due_date",
	).
		From(loansTableName + " t").
		Join(fmt.Sprintf("%s p on p.id = t.patron_id", patronsTableName)).
		Join(fmt.Sprintf("%s c on c.id = t.item_copy_id", copiesTableName)).
		Join(fmt.Sprintf("%s i on i.id = c.item_id", itemsTableName)).
		LeftJoin(fmt.Sprintf("%s b on b.id = c.branch_id", branchesTableName)).
		Where(sq.Eq{"t.return_date": nil}).
		Where(sq.NotEq{"p.email": ""}).
		Where(pred).
		OrderBy("t.due_date").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "activeLoans")
	}
	loans, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.LoanDue])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return loans, nil
}
