package repository

import (
	"context"

	"artstore/internal/domain/model"
	repo "artstore/internal/repository"

	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

// 在庫・ステータス変更の記録。tx内ではtx側のdbで作られる
func (r *auditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *auditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	limit := clampLimit(f.Limit, 200)
	offset := max(f.Offset, 0)

	var logs []model.AuditLog
	err := r.db.WithContext(ctx).
		Scopes(auditLogConditions(f)).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// nilでない条件だけWHEREに積む
func auditLogConditions(f repo.AuditLogFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		conds := []struct {
			sql string
			val any
			set bool
		}{
			{"actor_user_id = ?", deref(f.ActorUserID), f.ActorUserID != nil},
			{"action = ?", deref(f.Action), f.Action != nil},
			{"resource_type = ?", deref(f.ResourceType), f.ResourceType != nil},
			{"resource_id = ?", deref(f.ResourceID), f.ResourceID != nil},
			{"created_at >= ?", deref(f.CreatedFrom), f.CreatedFrom != nil},
			{"created_at <= ?", deref(f.CreatedTo), f.CreatedTo != nil},
		}
		for _, c := range conds {
			if c.set {
				q = q.Where(c.sql, c.val)
			}
		}
		return q
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
