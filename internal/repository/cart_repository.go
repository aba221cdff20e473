package repository

import (
	"context"

	"artstore/internal/domain/model"
)

type CartRepository interface {
	// 無ければ作る（1ユーザー1カート）
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 無ければErrNotFound（作らない）
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// チェックアウト用。postgresでは行ロックを取る
	FindByUserIDForUpdate(ctx context.Context, userID int64) (model.Cart, error)
	Clear(ctx context.Context, cartID int64) error
}
