package repository

import (
	"context"

	"artstore/internal/domain/model"
	repo "artstore/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫を「現在値」に更新し、調整履歴も残す。
// adj.StockAfterを新しい在庫として扱い、Before/Deltaはここで埋める
func (r *InventoryGormRepository) SetStockWithAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//現在の在庫を取得
		var p model.Product
		if err := lockForUpdate(tx).First(&p, adj.ProductID).Error; err != nil {
			return mapErr(err)
		}

		//products.stockを更新
		res := tx.Model(&model.Product{}).
			Where("id = ?", adj.ProductID).
			Update("stock", adj.StockAfter)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		//adjustmentsを作成
		adj.StockBefore = p.Stock
		adj.Delta = adj.StockAfter - p.Stock
		return tx.Create(&adj).Error
	})
}

// 在庫が足りるときだけ減らす
func (r *InventoryGormRepository) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 在庫戻し（キャンセル）。論理削除済みの商品にも戻す。行が無い場合だけErrNotFound
func (r *InventoryGormRepository) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Unscoped().
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
