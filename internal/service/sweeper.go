package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/libraflow/borrowing-service/internal/audit"
)

// SweepOverdue marks every open loan past its due date as OVERDUE and
// emits an audit event per affected loan.
func (s *Service) SweepOverdue(ctx context.Context) (int, error) {
	now := s.now().UTC()
	swept, err := s.repo.MarkOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, br := range swept {
		s.emit(ctx, audit.Event{
			EntityType: audit.EntityBorrowing,
			EntityID:   br.BorrowingUid,
			Action:     audit.ActionBorrowingOverdue,
			Actor:      audit.SystemActor,
			Timestamp:  now,
			Details: map[string]string{
				"itemUid": br.ItemUid,
				"dueDate": br.DueDate.Format(time.RFC3339),
			},
		})
	}
	return len(swept), nil
}

func (s *Service) RunOverdueSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.SweepOverdue(ctx)
			if err != nil {
				s.log.Error("overdue sweep", zap.Error(err))
				continue
			}
			if n > 0 {
				s.log.Info("overdue sweep", zap.Int("marked", n))
			}
		}
	}
}
