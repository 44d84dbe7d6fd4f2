package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/libraflow/borrowing-service/internal/audit"
	"github.com/libraflow/borrowing-service/internal/errs"
	"github.com/libraflow/borrowing-service/internal/model"
	"github.com/libraflow/borrowing-service/internal/repository"
)

const maxNotesLen = 500

type Config struct {
	FinePerDay       decimal.Decimal `yaml:"finePerDay" envconfig:"FINE_PER_DAY" default:"1.00"`
	MaxBorrowingDays int             `yaml:"maxBorrowingDays" envconfig:"MAX_BORROWING_DAYS" default:"60"`
	SweepInterval    time.Duration   `yaml:"sweepInterval" envconfig:"OVERDUE_SWEEP_INTERVAL" default:"1h"`
}

type Service struct {
	log   *zap.Logger
	repo  repository.Repository
	audit audit.Emitter
	cfg   Config
	now   func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo repository.Repository, emitter audit.Emitter, cfg Config, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:   log,
		repo:  repo,
		audit: emitter,
		cfg:   cfg,
		now:   time.Now,
	}
	for _, op := range opts {
		op(s)
	}
	return s
}

func (s *Service) CreateItem(ctx context.Context, req model.CreateItemRequest) (model.InventoryItem, error) {
	return s.repo.CreateItem(ctx, model.InventoryItem{
		Kind:        req.Kind,
		Name:        req.Name,
		TotalCopies: req.TotalCopies,
	})
}

func (s *Service) GetItem(ctx context.Context, itemUID string) (model.InventoryItem, error) {
	return s.repo.GetItem(ctx, itemUID)
}

func (s *Service) CreateCheckout(ctx context.Context, req model.CreateCheckoutRequest) (model.Checkout, error) {
	if req.BorrowingDays < 1 {
		return model.Checkout{}, errors.Wrap(errs.ErrValidation, "borrowingDays must be positive")
	}
	if s.cfg.MaxBorrowingDays > 0 && req.BorrowingDays > s.cfg.MaxBorrowingDays {
		return model.Checkout{}, errors.Wrapf(errs.ErrValidation, "borrowingDays exceeds maximum %d", s.cfg.MaxBorrowingDays)
	}
	if len(req.Notes) > maxNotesLen {
		return model.Checkout{}, errors.Wrapf(errs.ErrValidation, "notes longer than %d", maxNotesLen)
	}

	code, err := s.generateCode(ctx)
	if err != nil {
		return model.Checkout{}, err
	}

	now := s.now().UTC()
	created, err := s.repo.CreateCheckout(ctx, model.Checkout{
		Code:          code,
		Username:      req.Username,
		ItemUid:       req.ItemUid,
		BorrowingDays: req.BorrowingDays,
		DueDate:       now.AddDate(0, 0, req.BorrowingDays),
		Notes:         req.Notes,
		CreatedAt:     now,
	})
	if err != nil {
		return model.Checkout{}, err
	}

	s.emit(ctx, audit.Event{
		EntityType: audit.EntityCheckout,
		EntityID:   created.CheckoutUid,
		Action:     audit.ActionCheckoutCreated,
		Actor:      req.Username,
		Timestamp:  now,
		Details: map[string]string{
			"code":    created.Code,
			"itemUid": created.ItemUid,
			"dueDate": created.DueDate.Format(time.RFC3339),
		},
	})
	return created, nil
}

func (s *Service) GetCheckout(ctx context.Context, checkoutUID string) (model.Checkout, error) {
	return s.repo.GetCheckout(ctx, checkoutUID)
}

func (s *Service) GetCheckouts(ctx context.Context, username string) ([]model.Checkout, error) {
	return s.repo.GetCheckouts(ctx, username)
}

func (s *Service) CompleteCheckout(ctx context.Context, username, checkoutUID string) (model.CompleteCheckoutResponse, error) {
	now := s.now().UTC()
	co, br, err := s.repo.CompleteCheckout(ctx, checkoutUID, now)
	if err != nil {
		return model.CompleteCheckoutResponse{}, err
	}
	s.emit(ctx, audit.Event{
		EntityType: audit.EntityCheckout,
		EntityID:   co.CheckoutUid,
		Action:     audit.ActionCheckoutCompleted,
		Actor:      username,
		Timestamp:  now,
		Details: map[string]string{
			"borrowingUid": br.BorrowingUid,
			"dueDate":      br.DueDate.Format(time.RFC3339),
		},
	})
	return model.CompleteCheckoutResponse{Checkout: co, Borrowing: br}, nil
}

func (s *Service) CancelCheckout(ctx context.Context, username, checkoutUID, reason string) (model.Checkout, error) {
	if len(reason) > maxNotesLen {
		return model.Checkout{}, errors.Wrapf(errs.ErrValidation, "reason longer than %d", maxNotesLen)
	}
	now := s.now().UTC()
	co, err := s.repo.CancelCheckout(ctx, checkoutUID, now)
	if err != nil {
		return model.Checkout{}, err
	}
	s.emit(ctx, audit.Event{
		EntityType: audit.EntityCheckout,
		EntityID:   co.CheckoutUid,
		Action:     audit.ActionCheckoutCancelled,
		Actor:      username,
		Timestamp:  now,
		Details: map[string]string{
			"itemUid": co.ItemUid,
			"reason":  reason,
		},
	})
	return co, nil
}

func (s *Service) ReturnCheckout(ctx context.Context, username, checkoutUID string) (model.ReturnCheckoutResponse, error) {
	now := s.now().UTC()
	co, br, err := s.repo.ReturnCheckout(ctx, checkoutUID, now, s.cfg.FinePerDay)
	if err != nil {
		return model.ReturnCheckoutResponse{}, err
	}
	s.emit(ctx, audit.Event{
		EntityType: audit.EntityBorrowing,
		EntityID:   br.BorrowingUid,
		Action:     audit.ActionCheckoutReturned,
		Actor:      username,
		Timestamp:  now,
		Details: map[string]string{
			"checkoutUid": co.CheckoutUid,
			"itemUid":     co.ItemUid,
			"fine":        br.FineAmount.StringFixed(2),
		},
	})
	return model.ReturnCheckoutResponse{Checkout: co, Borrowing: br}, nil
}

func (s *Service) GetBorrowings(ctx context.Context, username string) ([]model.Borrowing, error) {
	return s.repo.GetBorrowings(ctx, username)
}

// CurrentFine projects the fine a loan would carry if returned now.
// Closed loans report their frozen amount; nothing is mutated.
func (s *Service) CurrentFine(ctx context.Context, borrowingUID string) (model.FineProjection, error) {
	br, err := s.repo.GetBorrowing(ctx, borrowingUID)
	if err != nil {
		return model.FineProjection{}, err
	}
	if br.Status == model.BorrowingReturned {
		return model.FineProjection{
			BorrowingUid: br.BorrowingUid,
			Status:       br.Status,
			Fine:         br.FineAmount,
			AsOf:         *br.ReturnDate,
		}, nil
	}
	now := s.now().UTC()
	return model.FineProjection{
		BorrowingUid: br.BorrowingUid,
		Status:       br.Status,
		Fine:         model.ComputeFine(br.DueDate, now, s.cfg.FinePerDay),
		AsOf:         now,
	}, nil
}

func (s *Service) GetAuditLog(ctx context.Context, page, size int) (model.AuditLog, error) {
	return s.repo.GetAuditLog(ctx, page, size)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if err := s.audit.Emit(ctx, event); err != nil {
		s.log.Error("audit emit failed", zap.String("action", event.Action), zap.Error(err))
	}
}
