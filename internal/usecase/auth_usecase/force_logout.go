package auth

import (
	"context"
	"errors"
	"time"

	"artstore/internal/domain/model"
	"artstore/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

type ForceLogoutOutput struct {
	UserID          int64 `json:"user_id"`
	NewTokenVersion int   `json:"new_token_version"`
}

// ForceLogoutUsecase はtoken_versionを上げて、発行済みのトークンを全て無効にする
type ForceLogoutUsecase struct {
	tx repository.TransactionManager
}

func NewForceLogoutUsecase(tx repository.TransactionManager) *ForceLogoutUsecase {
	return &ForceLogoutUsecase{tx: tx}
}

func (u *ForceLogoutUsecase) Execute(ctx context.Context, actorAdminUserID int64, targetUserID int64) (ForceLogoutOutput, error) {
	var out ForceLogoutOutput
	if targetUserID <= 0 {
		return out, ErrInvalidInput
	}

	err := u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Users().IncrementTokenVersion(ctx, targetUserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		//更新後を取得してnew_token_versionを返す
		user, err := r.Users().FindByID(ctx, targetUserID)
		if err != nil {
			return err
		}

		out = ForceLogoutOutput{UserID: user.ID, NewTokenVersion: user.TokenVersion}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionForceLogout,
			ResourceType: model.AuditResourceUser,
			ResourceID:   targetUserID,
			CreatedAt:    time.Now(),
		})
	})
	if err != nil {
		return ForceLogoutOutput{}, err
	}
	return out, nil
}
