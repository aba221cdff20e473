package usecase

import (
	"context"

	"artstore/internal/domain/model"
	repo "artstore/internal/repository"
)

// 管理者向けの監査ログ閲覧
type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

func (u *AuditLogUsecase) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if f.Limit < 0 || f.Limit > 200 {
		return nil, errBadRequest("invalid limit")
	}
	if f.Offset < 0 {
		return nil, errBadRequest("invalid offset")
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return nil, errBadRequest("from must be <= to")
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return nil, errDB()
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
