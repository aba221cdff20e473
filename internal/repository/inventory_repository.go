package repository

import (
	"artstore/internal/domain/model"
	"context"
)

type InventoryRepository interface {
	// 在庫の現在値を設定し、調整履歴を残す
	SetStockWithAdjustment(ctx context.Context, adj model.InventoryAdjustment) error

	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセルなど）。論理削除済みの商品にも戻す。行が無ければErrNotFound
	IncreaseStock(ctx context.Context, productID int64, qty int64) error
}
