package repository

import (
	"context"

	"artstore/internal/domain/model"
)

type CommissionListFilter struct {
	Page              int
	Limit             int
	ClientID          *int64
	PreferredArtistID *int64
	Status            string
}

type CommissionRepository interface {
	Create(ctx context.Context, c model.CommissionRequest) (model.CommissionRequest, error)
	FindByID(ctx context.Context, id int64) (model.CommissionRequest, error)
	List(ctx context.Context, f CommissionListFilter) ([]model.CommissionRequest, int64, error)
	// fromのときだけ更新する
	UpdateStatus(ctx context.Context, id int64, from model.CommissionStatus, to model.CommissionStatus) error
}
