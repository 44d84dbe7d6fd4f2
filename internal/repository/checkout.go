package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/libraflow/borrowing-service/internal/errs"
	"github.com/libraflow/borrowing-service/internal/model"
)

func (r *repository) CreateCheckout(ctx context.Context, co model.Checkout) (model.Checkout, error) {
	var created model.Checkout
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.reserveItem(ctx, tx, co.ItemUid); err != nil {
			return err
		}
		q, args, err := qb.Insert(checkoutsTableName).
			Columns("checkout_uid", "code", "username", "item_uid", "borrowing_days", "due_date", "status", "notes", "created_at").
			Values(uuid.New(), co.Code, co.Username, co.ItemUid, co.BorrowingDays, co.DueDate, model.CheckoutPending, co.Notes, co.CreatedAt).
			Suffix("returning *").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &created, q, args...); err != nil {
			r.log.Error("CreateCheckout", zap.String("q", q), zap.Any("args", args))
			return err
		}
		return nil
	})
	if err != nil {
		return model.Checkout{}, err
	}
	return created, nil
}

func (r *repository) GetCheckout(ctx context.Context, checkoutUID string) (model.Checkout, error) {
	var co model.Checkout
	err := r.db.GetContext(ctx, &co,
		`select * from checkouts where checkout_uid = $1`, checkoutUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Checkout{}, errs.ErrNotFound
		}
		return model.Checkout{}, err
	}
	return co, nil
}

func (r *repository) GetCheckouts(ctx context.Context, username string) ([]model.Checkout, error) {
	q, args, err := qb.Select("*").
		From(checkoutsTableName).
		Where(sq.Eq{"username": username}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Checkout
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`select exists(select 1 from checkouts where code = $1)`, code)
	return exists, err
}

func getCheckoutForUpdate(ctx context.Context, tx *sqlx.Tx, checkoutUID string) (model.Checkout, error) {
	var co model.Checkout
	err := tx.GetContext(ctx, &co,
		`select * from checkouts where checkout_uid = $1 for update`, checkoutUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Checkout{}, errs.ErrNotFound
		}
		return model.Checkout{}, err
	}
	return co, nil
}

func (r *repository) CompleteCheckout(ctx context.Context, checkoutUID string, now time.Time) (model.Checkout, model.Borrowing, error) {
	var (
		co model.Checkout
		br model.Borrowing
	)
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		cur, err := getCheckoutForUpdate(ctx, tx, checkoutUID)
		if err != nil {
			return err
		}
		if cur.Status != model.CheckoutPending {
			return fmt.Errorf("%w: complete from %s", errs.ErrInvalidStateTransition, cur.Status)
		}
		if err := tx.GetContext(ctx, &co, `
		update checkouts set status = $2, completed_at = $3
		where checkout_uid = $1
		returning *`, checkoutUID, model.CheckoutCompleted, now); err != nil {
			return err
		}
		q, args, err := qb.Insert(borrowingsTableName).
			Columns("borrowing_uid", "checkout_uid", "username", "item_uid", "borrow_date", "due_date", "status", "fine_amount").
			Values(uuid.New(), co.CheckoutUid, co.Username, co.ItemUid, now, co.DueDate, model.BorrowingActive, decimal.Zero).
			Suffix("returning *").
			ToSql()
		if err != nil {
			return err
		}
		return tx.GetContext(ctx, &br, q, args...)
	})
	if err != nil {
		return model.Checkout{}, model.Borrowing{}, err
	}
	return co, br, nil
}

func (r *repository) CancelCheckout(ctx context.Context, checkoutUID string, now time.Time) (model.Checkout, error) {
	var co model.Checkout
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		cur, err := getCheckoutForUpdate(ctx, tx, checkoutUID)
		if err != nil {
			return err
		}
		if cur.Status != model.CheckoutPending {
			return fmt.Errorf("%w: cancel from %s", errs.ErrInvalidStateTransition, cur.Status)
		}
		if err := tx.GetContext(ctx, &co, `
		update checkouts set status = $2, cancelled_at = $3
		where checkout_uid = $1
		returning *`, checkoutUID, model.CheckoutCancelled, now); err != nil {
			return err
		}
		return r.releaseItem(ctx, tx, co.ItemUid)
	})
	if err != nil {
		return model.Checkout{}, err
	}
	return co, nil
}

func (r *repository) ReturnCheckout(ctx context.Context, checkoutUID string, now time.Time, finePerDay decimal.Decimal) (model.Checkout, model.Borrowing, error) {
	var (
		co model.Checkout
		br model.Borrowing
	)
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		cur, err := getCheckoutForUpdate(ctx, tx, checkoutUID)
		if err != nil {
			return err
		}
		if cur.Status != model.CheckoutCompleted {
			return fmt.Errorf("%w: return from %s", errs.ErrInvalidStateTransition, cur.Status)
		}
		loan, err := getBorrowingByCheckoutForUpdate(ctx, tx, checkoutUID)
		if err != nil {
			return err
		}
		br, err = returnLoanTx(ctx, tx, loan, now, finePerDay)
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &co, `
		update checkouts set status = $2, returned_at = $3
		where checkout_uid = $1
		returning *`, checkoutUID, model.CheckoutReturned, now); err != nil {
			return err
		}
		return r.releaseItem(ctx, tx, co.ItemUid)
	})
	if err != nil {
		return model.Checkout{}, model.Borrowing{}, err
	}
	return co, br, nil
}
