package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libraflow/borrowing-service/internal/audit"
	"github.com/libraflow/borrowing-service/internal/errs"
	"github.com/libraflow/borrowing-service/internal/model"
	"github.com/libraflow/borrowing-service/internal/service"
)

// fakeRepo is an in-memory stand-in for the Postgres repository. Every
// transition mutates under one mutex, which gives the same all-or-nothing
// behaviour per call as the real single-transaction implementation.
type fakeRepo struct {
	mu         sync.Mutex
	items      map[string]*model.InventoryItem
	checkouts  map[string]*model.Checkout
	borrowings map[string]*model.Borrowing
	byCheckout map[string]string
	codes      map[string]bool
	auditLog   []audit.Event
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items:      map[string]*model.InventoryItem{},
		checkouts:  map[string]*model.Checkout{},
		borrowings: map[string]*model.Borrowing{},
		byCheckout: map[string]string{},
		codes:      map[string]bool{},
	}
}

func (f *fakeRepo) CreateItem(_ context.Context, item model.InventoryItem) (model.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ItemUid = uuid.NewString()
	item.AvailableCopies = item.TotalCopies
	f.items[item.ItemUid] = &item
	return item, nil
}

func (f *fakeRepo) GetItem(_ context.Context, itemUID string) (model.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemUID]
	if !ok {
		return model.InventoryItem{}, errs.ErrNotFound
	}
	return *item, nil
}

func (f *fakeRepo) reserve(itemUID string) error {
	item, ok := f.items[itemUID]
	if !ok {
		return errs.ErrNotFound
	}
	if item.AvailableCopies <= 0 {
		return errs.ErrOutOfStock
	}
	item.AvailableCopies--
	return nil
}

func (f *fakeRepo) release(itemUID string) error {
	item, ok := f.items[itemUID]
	if !ok {
		return errs.ErrNotFound
	}
	if item.AvailableCopies >= item.TotalCopies {
		return errs.ErrInvariantViolation
	}
	item.AvailableCopies++
	return nil
}

func (f *fakeRepo) CreateCheckout(_ context.Context, co model.Checkout) (model.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.reserve(co.ItemUid); err != nil {
		return model.Checkout{}, err
	}
	co.CheckoutUid = uuid.NewString()
	co.Status = model.CheckoutPending
	f.checkouts[co.CheckoutUid] = &co
	f.codes[co.Code] = true
	return co, nil
}

func (f *fakeRepo) GetCheckout(_ context.Context, checkoutUID string) (model.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	co, ok := f.checkouts[checkoutUID]
	if !ok {
		return model.Checkout{}, errs.ErrNotFound
	}
	return *co, nil
}

func (f *fakeRepo) GetCheckouts(_ context.Context, username string) ([]model.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Checkout
	for _, co := range f.checkouts {
		if co.Username == username {
			out = append(out, *co)
		}
	}
	return out, nil
}

func (f *fakeRepo) CodeExists(_ context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codes[code], nil
}

func (f *fakeRepo) CompleteCheckout(_ context.Context, checkoutUID string, now time.Time) (model.Checkout, model.Borrowing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	co, ok := f.checkouts[checkoutUID]
	if !ok {
		return model.Checkout{}, model.Borrowing{}, errs.ErrNotFound
	}
	if co.Status != model.CheckoutPending {
		return model.Checkout{}, model.Borrowing{}, fmt.Errorf("%w: complete from %s", errs.ErrInvalidStateTransition, co.Status)
	}
	co.Status = model.CheckoutCompleted
	co.CompletedAt = &now
	br := model.Borrowing{
		BorrowingUid: uuid.NewString(),
		CheckoutUid:  co.CheckoutUid,
		Username:     co.Username,
		ItemUid:      co.ItemUid,
		BorrowDate:   now,
		DueDate:      co.DueDate,
		Status:       model.BorrowingActive,
		FineAmount:   decimal.Zero,
	}
	f.borrowings[br.BorrowingUid] = &br
	f.byCheckout[co.CheckoutUid] = br.BorrowingUid
	return *co, br, nil
}

func (f *fakeRepo) CancelCheckout(_ context.Context, checkoutUID string, now time.Time) (model.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	co, ok := f.checkouts[checkoutUID]
	if !ok {
		return model.Checkout{}, errs.ErrNotFound
	}
	if co.Status != model.CheckoutPending {
		return model.Checkout{}, fmt.Errorf("%w: cancel from %s", errs.ErrInvalidStateTransition, co.Status)
	}
	if err := f.release(co.ItemUid); err != nil {
		return model.Checkout{}, err
	}
	co.Status = model.CheckoutCancelled
	co.CancelledAt = &now
	return *co, nil
}

func (f *fakeRepo) ReturnCheckout(_ context.Context, checkoutUID string, now time.Time, finePerDay decimal.Decimal) (model.Checkout, model.Borrowing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	co, ok := f.checkouts[checkoutUID]
	if !ok {
		return model.Checkout{}, model.Borrowing{}, errs.ErrNotFound
	}
	if co.Status != model.CheckoutCompleted {
		return model.Checkout{}, model.Borrowing{}, fmt.Errorf("%w: return from %s", errs.ErrInvalidStateTransition, co.Status)
	}
	br, ok := f.borrowings[f.byCheckout[checkoutUID]]
	if !ok {
		return model.Checkout{}, model.Borrowing{}, errs.ErrNotFound
	}
	if br.Status == model.BorrowingReturned {
		return model.Checkout{}, model.Borrowing{}, errors.Wrap(errs.ErrInvalidStateTransition, "loan already returned")
	}
	br.Status = model.BorrowingReturned
	br.ReturnDate = &now
	br.FineAmount = model.ComputeFine(br.DueDate, now, finePerDay)
	co.Status = model.CheckoutReturned
	co.ReturnedAt = &now
	if err := f.release(co.ItemUid); err != nil {
		return model.Checkout{}, model.Borrowing{}, err
	}
	return *co, *br, nil
}

func (f *fakeRepo) GetBorrowing(_ context.Context, borrowingUID string) (model.Borrowing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	br, ok := f.borrowings[borrowingUID]
	if !ok {
		return model.Borrowing{}, errs.ErrNotFound
	}
	return *br, nil
}

func (f *fakeRepo) GetBorrowings(_ context.Context, username string) ([]model.Borrowing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Borrowing
	for _, br := range f.borrowings {
		if br.Username == username {
			out = append(out, *br)
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkOverdue(_ context.Context, now time.Time) ([]model.Borrowing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var swept []model.Borrowing
	for _, br := range f.borrowings {
		if br.Status == model.BorrowingActive && br.ReturnDate == nil && br.DueDate.Before(now) {
			br.Status = model.BorrowingOverdue
			swept = append(swept, *br)
		}
	}
	return swept, nil
}

func (f *fakeRepo) InsertAuditEntry(_ context.Context, event audit.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auditLog = append(f.auditLog, event)
	return nil
}

func (f *fakeRepo) GetAuditLog(_ context.Context, page, size int) (model.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.AuditLog{
		Paging: model.Paging{Page: page, PageSize: size, TotalElements: len(f.auditLog)},
	}, nil
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []audit.Event
	fail   error
}

func (e *recordingEmitter) Emit(_ context.Context, event audit.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fail != nil {
		return e.fail
	}
	e.events = append(e.events, event)
	return nil
}

func (e *recordingEmitter) actions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Action)
	}
	return out
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestService(t *testing.T, cfg service.Config) (*service.Service, *fakeRepo, *recordingEmitter, *clock) {
	t.Helper()
	repo := newFakeRepo()
	emitter := &recordingEmitter{}
	clk := &clock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	svc := service.NewService(repo, emitter, cfg, zap.NewNop(), service.WithClock(clk.Now))
	return svc, repo, emitter, clk
}

func defaultCfg() service.Config {
	return service.Config{
		FinePerDay:       decimal.RequireFromString("1.00"),
		MaxBorrowingDays: 60,
	}
}

func mustCreateItem(t *testing.T, svc *service.Service, copies int) model.InventoryItem {
	t.Helper()
	item, err := svc.CreateItem(context.Background(), model.CreateItemRequest{
		Kind:        model.KindBook,
		Name:        "The Go Programming Language",
		TotalCopies: copies,
	})
	require.NoError(t, err)
	return item
}

func TestService_CreateCheckout_Validation(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t, defaultCfg())
	ctx := context.Background()
	item := mustCreateItem(t, svc, 1)

	tests := []struct {
		name string
		req  model.CreateCheckoutRequest
	}{
		{
			name: "zero borrowing days",
			req:  model.CreateCheckoutRequest{ItemUid: item.ItemUid, BorrowingDays: 0, Username: "alice"},
		},
		{
			name: "negative borrowing days",
			req:  model.CreateCheckoutRequest{ItemUid: item.ItemUid, BorrowingDays: -3, Username: "alice"},
		},
		{
			name: "days over maximum",
			req:  model.CreateCheckoutRequest{ItemUid: item.ItemUid, BorrowingDays: 61, Username: "alice"},
		},
		{
			name: "oversized notes",
			req: model.CreateCheckoutRequest{
				ItemUid: item.ItemUid, BorrowingDays: 7, Username: "alice",
				Notes: string(make([]byte, 501)),
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCheckout(ctx, tt.req)
			require.ErrorIs(t, err, errs.ErrValidation)
		})
	}

	// the rejected requests must not have touched the ledger
	got, err := svc.GetItem(ctx, item.ItemUid)
	require.NoError(t, err)
	require.Equal(t, 1, got.AvailableCopies)
}

func TestService_CreateCheckout_OutOfStock(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t, defaultCfg())
	ctx := context.Background()
	item := mustCreateItem(t, svc, 1)

	_, err := svc.CreateCheckout(ctx, model.CreateCheckoutRequest{
		ItemUid: item.ItemUid, BorrowingDays: 7, Username: "alice",
	})
	require.NoError(t, err)

	_, err = svc.CreateCheckout(ctx, model.CreateCheckoutRequest{
		ItemUid: item.ItemUid, BorrowingDays: 7, Username: "bob",
	})
	require.ErrorIs(t, err, errs.ErrOutOfStock)

	// the failed attempt left no record behind
	checkouts, err := svc.GetCheckouts(ctx, "bob")
	require.NoError(t, err)
	require.Empty(t, checkouts)
}

func TestService_ConcurrentCreateCheckout(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t, defaultCfg())
	ctx := context.Background()

	const (
		copies  = 5
		callers = 20
	)
	item := mustCreateItem(t, svc, copies)

	var wg sync.WaitGroup
	errCh := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.CreateCheckout(ctx, model.CreateCheckoutRequest{
				ItemUid:       item.ItemUid,
				BorrowingDays: 7,
				Username:      fmt.Sprintf("user-%d", i),
			})
			errCh <- err
		}(i)
	}
	wg.Wait()
	close(errCh)

	success, outOfStock := 0, 0
	for err := range errCh {
		switch {
		case err == nil:
			success++
		case errors.Is(err, errs.ErrOutOfStock):
			outOfStock++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, copies, success)
	require.Equal(t, callers-copies, outOfStock)

	got, err := svc.GetItem(ctx, item.ItemUid)
	require.NoError(t, err)
	require.Equal(t, 0, got.AvailableCopies)
}

func TestService_CancelRestoresAvailability(t *testing.T) {
	t.Parallel()
	svc, _, emitter, _ := newTestService(t, defaultCfg())
	ctx := context.Background()
	item := mustCreateItem(t, svc, 3)

	co, err := svc.CreateCheckout(ctx, model.CreateCheckoutRequest{
		ItemUid: item.ItemUid, BorrowingDays: 7, Username: "alice",
	})
	require.NoError(t, err)

	got, err := svc.GetItem(ctx, item.ItemUid)
	require.NoError(t, err)
	require.Equal(t, 2, got.AvailableCopies)

	cancelled, err := svc.CancelCheckout(ctx, "alice", co.CheckoutUid, "changed my mind")
	require.NoError(t, err)
	require.Equal(t, model.CheckoutCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	got, err = svc.GetItem(ctx, item.ItemUid)
	require.NoError(t, err)
	require.Equal(t, 3, got.AvailableCopies)

	// CANCELLED is terminal
	_, err = svc.CancelCheckout(ctx, "alice", co.CheckoutUid, "again")
	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	_, err = svc.CompleteCheckout(ctx, "alice", co.CheckoutUid)
	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)

	require.Equal(t,
		[]string{audit.ActionCheckoutCreated, audit.ActionCheckoutCancelled},
		emitter.actions())
}

func TestService_ReturnRequiresCompleted(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t, defaultCfg())
	ctx := context.Background()
	item := mustCreateItem(t, svc, 1)

	co, err := svc.CreateCheckout(ctx, model.CreateCheckoutRequest{
		ItemUid: item.ItemUid, BorrowingDays: 7, Username: "alice",
	})
	require.NoError(t, err)

	_, err = svc.ReturnCheckout(ctx, "alice", co.CheckoutUid)
	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
}

func TestService_CheckoutLifecycle(t *testing.T) {
	t.Parallel()
	cfg := defaultCfg()
	cfg.FinePerDay = decimal.RequireFromString("1.50")
	svc, _, emitter, clk := newTestService(t, cfg)
	ctx := context.Background()

	item := mustCreateItem(t, svc, 1)
	start := clk.Now()

	co, err := svc.CreateCheckout(ctx, model.CreateCheckoutRequest{
		ItemUid:       item.ItemUid,
		BorrowingDays: 7,
		Username:      "alice",
		Notes:         "pickup at front desk",
	})
	require.NoError(t, err)
	require.Equal(t, model.CheckoutPending, co.Status)
	require.Equal(t, start.AddDate(0, 0, 7), co.DueDate)
	require.NotEmpty(t, co.Code)

	got, err := svc.GetItem(ctx, item.ItemUid)
	require.NoError(t, err)
	require.Equal(t, 0, got.AvailableCopies)

	completed, err := svc.CompleteCheckout(ctx, "alice", co.CheckoutUid)
	require.NoError(t, err)
	require.Equal(t, model.CheckoutCompleted, completed.Checkout.Status)
	require.Equal(t, model.BorrowingActive, completed.Borrowing.Status)
	require.Equal(t, co.DueDate, completed.Borrowing.DueDate)

	// return two days past the due date
	clk.Set(co.DueDate.AddDate(0, 0, 2))

	returned, err := svc.ReturnCheckout(ctx, "alice", co.CheckoutUid)
	require.NoError(t, err)
	require.Equal(t, model.CheckoutReturned, returned.Checkout.Status)
	require.Equal(t, model.BorrowingReturned, returned.Borrowing.Status)
	require.NotNil(t, returned.Borrowing.ReturnDate)
	require.True(t, returned.Borrowing.FineAmount.Equal(decimal.RequireFromString("3.00")),
		"want fine 3.00, got %s", returned.Borrowing.FineAmount)

	got, err = svc.GetItem(ctx, item.ItemUid)
	require.NoError(t, err)
	require.Equal(t, 1, got.AvailableCopies)

	// RETURNED is terminal
	_, err = svc.ReturnCheckout(ctx, "alice", co.CheckoutUid)
	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)

	require.Equal(t,
		[]string{audit.ActionCheckoutCreated, audit.ActionCheckoutCompleted, audit.ActionCheckoutReturned},
		emitter.actions())
}

func TestService_OverdueSweepAndFineProjection(t *testing.T) {
	t.Parallel()
	cfg := defaultCfg()
	cfg.FinePerDay = decimal.RequireFromString("2.00")
	svc, _, emitter, clk := newTestService(t, cfg)
	ctx := context.Background()

	item := mustCreateItem(t, svc, 1)
	co, err := svc.CreateCheckout(ctx, model.CreateCheckoutRequest{
		ItemUid: item.ItemUid, BorrowingDays: 7, Username: "alice",
	})
	require.NoError(t, err)
	completed, err := svc.CompleteCheckout(ctx, "alice", co.CheckoutUid)
	require.NoError(t, err)
	borrowingUID := completed.Borrowing.BorrowingUid

	// nothing to sweep before the due date
	n, err := svc.SweepOverdue(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	clk.Set(co.DueDate.AddDate(0, 0, 5))

	n, err = svc.SweepOverdue(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// the sweep persisted the status
	loans, err := svc.GetBorrowings(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, loans, 1)
	require.Equal(t, model.BorrowingOverdue, loans[0].Status)

	// a second sweep is a no-op
	n, err = svc.SweepOverdue(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	// read-only projection five days late at 2.00/day
	fine, err := svc.CurrentFine(ctx, borrowingUID)
	require.NoError(t, err)
	require.Equal(t, model.BorrowingOverdue, fine.Status)
	require.True(t, fine.Fine.Equal(decimal.RequireFromString("10.00")),
		"want fine 10.00, got %s", fine.Fine)

	// projection did not mutate anything
	loans, err = svc.GetBorrowings(ctx, "alice")
	require.NoError(t, err)
	require.Nil(t, loans[0].ReturnDate)
	require.True(t, loans[0].FineAmount.IsZero())

	// returning an OVERDUE loan freezes the fine
	returned, err := svc.ReturnCheckout(ctx, "alice", co.CheckoutUid)
	require.NoError(t, err)
	require.True(t, returned.Borrowing.FineAmount.Equal(decimal.RequireFromString("10.00")))

	frozen, err := svc.CurrentFine(ctx, borrowingUID)
	require.NoError(t, err)
	require.Equal(t, model.BorrowingReturned, frozen.Status)
	require.True(t, frozen.Fine.Equal(decimal.RequireFromString("10.00")))

	require.Contains(t, emitter.actions(), audit.ActionBorrowingOverdue)
}

func TestService_ReturnOnDueDateHasNoFine(t *testing.T) {
	t.Parallel()
	cfg := defaultCfg()
	cfg.FinePerDay = decimal.RequireFromString("2.00")
	svc, _, _, clk := newTestService(t, cfg)
	ctx := context.Background()

	item := mustCreateItem(t, svc, 1)
	co, err := svc.CreateCheckout(ctx, model.CreateCheckoutRequest{
		ItemUid: item.ItemUid, BorrowingDays: 14, Username: "alice",
	})
	require.NoError(t, err)
	_, err = svc.CompleteCheckout(ctx, "alice", co.CheckoutUid)
	require.NoError(t, err)

	clk.Set(co.DueDate)

	returned, err := svc.ReturnCheckout(ctx, "alice", co.CheckoutUid)
	require.NoError(t, err)
	require.True(t, returned.Borrowing.FineAmount.IsZero(),
		"on-time return must not be fined, got %s", returned.Borrowing.FineAmount)
}

func TestService_AuditFailureDoesNotFailOperation(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	emitter := &recordingEmitter{fail: errors.New("broker unreachable")}
	svc := service.NewService(repo, emitter, defaultCfg(), zap.NewNop())
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, model.CreateItemRequest{
		Kind: model.KindBook, Name: "SICP", TotalCopies: 1,
	})
	require.NoError(t, err)

	co, err := svc.CreateCheckout(ctx, model.CreateCheckoutRequest{
		ItemUid: item.ItemUid, BorrowingDays: 7, Username: "alice",
	})
	require.NoError(t, err)
	require.Equal(t, model.CheckoutPending, co.Status)
}
