package repository

import (
	"context"

	"artstore/internal/domain/model"
	repo "artstore/internal/repository"

	"gorm.io/gorm"
)

type CommissionGormRepository struct {
	db *gorm.DB
}

// DI
func NewCommissionGormRepository(db *gorm.DB) *CommissionGormRepository {
	return &CommissionGormRepository{db: db}
}

func (r *CommissionGormRepository) Create(ctx context.Context, c model.CommissionRequest) (model.CommissionRequest, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.CommissionRequest{}, mapErr(err)
	}
	return c, nil
}

func (r *CommissionGormRepository) FindByID(ctx context.Context, id int64) (model.CommissionRequest, error) {
	var c model.CommissionRequest
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return model.CommissionRequest{}, mapErr(err)
	}
	return c, nil
}

// 新しい順
func (r *CommissionGormRepository) List(ctx context.Context, f repo.CommissionListFilter) ([]model.CommissionRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.CommissionRequest{})
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.PreferredArtistID != nil {
		q = q.Where("preferred_artist_id = ?", *f.PreferredArtistID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return findPage[model.CommissionRequest](q, f.Page, clampLimit(f.Limit, 100))
}

// 現在のstatusがfromのときだけ更新する
func (r *CommissionGormRepository) UpdateStatus(ctx context.Context, id int64, from model.CommissionStatus, to model.CommissionStatus) error {
	res := r.db.WithContext(ctx).Model(&model.CommissionRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
