package repository

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/libraflow/borrowing-service/internal/audit"
	"github.com/libraflow/borrowing-service/internal/model"
)

func (r *repository) InsertAuditEntry(ctx context.Context, event audit.Event) error {
	details := []byte(`{}`)
	if event.Details != nil {
		var err error
		if details, err = json.Marshal(event.Details); err != nil {
			return err
		}
	}
	q, args, err := qb.Insert(auditTableName).
		Columns("entity_type", "entity_id", "action", "actor", "ts", "details").
		Values(event.EntityType, event.EntityID, event.Action, event.Actor, event.Timestamp, details).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		r.log.Error("InsertAuditEntry", zap.String("q", q), zap.Any("args", args))
		return classify(err)
	}
	return nil
}

// pagingBounds validates caller-supplied paging. page and size come
// straight from query params, so anything non-positive disables paging
// instead of wrapping around in the uint64 casts.
func pagingBounds(page, size int) (limit, offset uint64, ok bool) {
	if page < 1 || size < 1 {
		return 0, 0, false
	}
	return uint64(size), uint64(page-1) * uint64(size), true
}

func (r *repository) GetAuditLog(ctx context.Context, page, size int) (model.AuditLog, error) {
	q := qb.Select("id", "entity_type", "entity_id", "action", "actor", "ts", "details").
		From(auditTableName).
		OrderBy("id desc")

	if limit, offset, ok := pagingBounds(page, size); ok {
		q = q.Limit(limit).Offset(offset)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.AuditLog{}, err
	}
	var entries []model.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return model.AuditLog{}, err
	}
	return model.AuditLog{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(entries),
		},
		Items: entries,
	}, nil
}
