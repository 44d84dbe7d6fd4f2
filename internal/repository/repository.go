package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/libraflow/borrowing-service/internal/audit"
	"github.com/libraflow/borrowing-service/internal/errs"
	"github.com/libraflow/borrowing-service/internal/model"
)

type Repository interface {
	CreateItem(ctx context.Context, item model.InventoryItem) (model.InventoryItem, error)
	GetItem(ctx context.Context, itemUID string) (model.InventoryItem, error)

	CreateCheckout(ctx context.Context, co model.Checkout) (model.Checkout, error)
	GetCheckout(ctx context.Context, checkoutUID string) (model.Checkout, error)
	GetCheckouts(ctx context.Context, username string) ([]model.Checkout, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	CompleteCheckout(ctx context.Context, checkoutUID string, now time.Time) (model.Checkout, model.Borrowing, error)
	CancelCheckout(ctx context.Context, checkoutUID string, now time.Time) (model.Checkout, error)
	ReturnCheckout(ctx context.Context, checkoutUID string, now time.Time, finePerDay decimal.Decimal) (model.Checkout, model.Borrowing, error)

	GetBorrowing(ctx context.Context, borrowingUID string) (model.Borrowing, error)
	GetBorrowings(ctx context.Context, username string) ([]model.Borrowing, error)
	MarkOverdue(ctx context.Context, now time.Time) ([]model.Borrowing, error)

	InsertAuditEntry(ctx context.Context, event audit.Event) error
	GetAuditLog(ctx context.Context, page, size int) (model.AuditLog, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	itemsTableName      = `inventory_items`
	checkoutsTableName  = `checkouts`
	borrowingsTableName = `borrowings`
	auditTableName      = `audit_log`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// inTx runs fn inside a transaction; any pg failure is classified into
// the local error taxonomy before being surfaced.
func (r *repository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback() //nolint:errcheck
	if err := fn(tx); err != nil {
		return classify(err)
	}
	return classify(tx.Commit())
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
			return fmt.Errorf("%w: %s", errs.ErrConflict, pgErr.Message)
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", errs.ErrConflict, pgErr.ConstraintName)
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%w: %s", errs.ErrInvariantViolation, pgErr.ConstraintName)
		}
	}
	return err
}

func (r *repository) CreateItem(ctx context.Context, item model.InventoryItem) (model.InventoryItem, error) {
	q, args, err := qb.Insert(itemsTableName).
		Columns("item_uid", "kind", "name", "total_copies", "available_copies").
		Values(uuid.New(), item.Kind, item.Name, item.TotalCopies, item.TotalCopies).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.InventoryItem{}, err
	}
	var res model.InventoryItem
	if err := r.db.GetContext(ctx, &res, q, args...); err != nil {
		r.log.Error("CreateItem", zap.String("q", q), zap.Any("args", args))
		return model.InventoryItem{}, classify(err)
	}
	return res, nil
}

func (r *repository) GetItem(ctx context.Context, itemUID string) (model.InventoryItem, error) {
	q, args, err := qb.Select("id", "item_uid", "kind", "name", "total_copies", "available_copies").
		From(itemsTableName).
		Where(sq.Eq{"item_uid": itemUID}).
		ToSql()
	if err != nil {
		return model.InventoryItem{}, err
	}
	var item model.InventoryItem
	if err := r.db.GetContext(ctx, &item, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.InventoryItem{}, errs.ErrNotFound
		}
		return model.InventoryItem{}, err
	}
	return item, nil
}

// reserveItem takes one available copy of the item. The decrement and the
// availability check are a single statement, so concurrent reservations
// on the last copy serialize on the row and only one succeeds.
func (r *repository) reserveItem(ctx context.Context, ec sqlx.ExtContext, itemUID string) error {
	res, err := ec.ExecContext(ctx, `
	update inventory_items
	set available_copies = available_copies - 1
	where item_uid = $1 and available_copies > 0`, itemUID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		exists, err := itemExists(ctx, ec, itemUID)
		if err != nil {
			return err
		}
		if !exists {
			return errs.ErrNotFound
		}
		return errs.ErrOutOfStock
	}
	return nil
}

// releaseItem puts one copy back. Exceeding total_copies means a caller
// released twice; that is a bug, not a user error.
func (r *repository) releaseItem(ctx context.Context, ec sqlx.ExtContext, itemUID string) error {
	res, err := ec.ExecContext(ctx, `
	update inventory_items
	set available_copies = available_copies + 1
	where item_uid = $1 and available_copies < total_copies`, itemUID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		exists, err := itemExists(ctx, ec, itemUID)
		if err != nil {
			return err
		}
		if !exists {
			return errs.ErrNotFound
		}
		r.log.Error("release would exceed total copies", zap.String("item_uid", itemUID))
		return errs.ErrInvariantViolation
	}
	return nil
}

func itemExists(ctx context.Context, ec sqlx.ExtContext, itemUID string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, ec, &exists,
		`select exists(select 1 from inventory_items where item_uid = $1)`, itemUID)
	return exists, err
}
