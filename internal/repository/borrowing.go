package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/libraflow/borrowing-service/internal/errs"
	"github.com/libraflow/borrowing-service/internal/model"
)

func (r *repository) GetBorrowing(ctx context.Context, borrowingUID string) (model.Borrowing, error) {
	var br model.Borrowing
	err := r.db.GetContext(ctx, &br,
		`select * from borrowings where borrowing_uid = $1`, borrowingUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Borrowing{}, errs.ErrNotFound
		}
		return model.Borrowing{}, err
	}
	return br, nil
}

func (r *repository) GetBorrowings(ctx context.Context, username string) ([]model.Borrowing, error) {
	q, args, err := qb.Select("*").
		From(borrowingsTableName).
		Where(sq.Eq{"username": username}).
		OrderBy("borrow_date desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Borrowing
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkOverdue persists ACTIVE -> OVERDUE for every open loan past its
// due date and returns the affected loans. OVERDUE is a stored status
// here, not a read-time projection.
func (r *repository) MarkOverdue(ctx context.Context, now time.Time) ([]model.Borrowing, error) {
	var swept []model.Borrowing
	err := r.db.SelectContext(ctx, &swept, `
	update borrowings
	set status = $1
	where status = $2 and due_date < $3 and return_date is null
	returning *`, model.BorrowingOverdue, model.BorrowingActive, now)
	if err != nil {
		return nil, classify(err)
	}
	return swept, nil
}

func getBorrowingByCheckoutForUpdate(ctx context.Context, tx *sqlx.Tx, checkoutUID string) (model.Borrowing, error) {
	var br model.Borrowing
	err := tx.GetContext(ctx, &br,
		`select * from borrowings where checkout_uid = $1 for update`, checkoutUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Borrowing{}, errs.ErrNotFound
		}
		return model.Borrowing{}, err
	}
	return br, nil
}

// returnLoanTx closes a loan: the fine is computed against the stored due
// date and frozen at return time.
func returnLoanTx(ctx context.Context, tx *sqlx.Tx, loan model.Borrowing, now time.Time, finePerDay decimal.Decimal) (model.Borrowing, error) {
	if loan.Status == model.BorrowingReturned {
		return model.Borrowing{}, fmt.Errorf("%w: loan already returned", errs.ErrInvalidStateTransition)
	}
	fine := model.ComputeFine(loan.DueDate, now, finePerDay)
	var br model.Borrowing
	err := tx.GetContext(ctx, &br, `
	update borrowings
	set status = $2, return_date = $3, fine_amount = $4
	where borrowing_uid = $1
	returning *`, loan.BorrowingUid, model.BorrowingReturned, now, fine)
	if err != nil {
		return model.Borrowing{}, err
	}
	return br, nil
}
