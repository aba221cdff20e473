package repository

import (
	"artstore/internal/domain/model"
	"context"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	FindBySlug(ctx context.Context, slug string) (model.Category, error)
	// slug重複はErrConflict
	Create(ctx context.Context, c model.Category) (model.Category, error)
	Delete(ctx context.Context, id int64) error
}

type ArtistRepository interface {
	ListActive(ctx context.Context) ([]model.Artist, error)
	FindByID(ctx context.Context, id int64) (model.Artist, error)
	FindByUserID(ctx context.Context, userID int64) (model.Artist, error)
	// 同じユーザーに2人目はErrConflict
	Create(ctx context.Context, a model.Artist) (model.Artist, error)
	Update(ctx context.Context, a model.Artist) error
}
