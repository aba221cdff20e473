package repository

import (
	"artstore/internal/domain/model"
	"context"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（email/username重複はErrConflict）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。無ければErrNotFound
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateRole(ctx context.Context, userID int64, role model.Role) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile model.UserProfile) error
	// 無ければErrNotFound
	FindByUserID(ctx context.Context, userID int64) (model.UserProfile, error)
	Update(ctx context.Context, profile model.UserProfile) error
}
