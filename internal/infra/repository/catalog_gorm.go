package repository

import (
	"context"

	"artstore/internal/domain/model"
	repo "artstore/internal/repository"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

func (r *CategoryGormRepository) List(ctx context.Context) ([]model.Category, error) {
	var items []model.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&items).Error; err != nil {
		return []model.Category{}, err
	}
	return items, nil
}

func (r *CategoryGormRepository) FindByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return model.Category{}, mapErr(err)
	}
	return c, nil
}

func (r *CategoryGormRepository) FindBySlug(ctx context.Context, slug string) (model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return model.Category{}, mapErr(err)
	}
	return c, nil
}

func (r *CategoryGormRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Category{}, mapErr(err)
	}
	return c, nil
}

// 商品のcategory_idは外してから消す
func (r *CategoryGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

type ArtistGormRepository struct {
	db *gorm.DB
}

// DI
func NewArtistGormRepository(db *gorm.DB) *ArtistGormRepository {
	return &ArtistGormRepository{db: db}
}

func (r *ArtistGormRepository) ListActive(ctx context.Context) ([]model.Artist, error) {
	var items []model.Artist
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name asc").
		Find(&items).Error; err != nil {
		return []model.Artist{}, err
	}
	return items, nil
}

func (r *ArtistGormRepository) FindByID(ctx context.Context, id int64) (model.Artist, error) {
	var a model.Artist
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return model.Artist{}, mapErr(err)
	}
	return a, nil
}

func (r *ArtistGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Artist, error) {
	var a model.Artist
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&a).Error; err != nil {
		return model.Artist{}, mapErr(err)
	}
	return a, nil
}

func (r *ArtistGormRepository) Create(ctx context.Context, a model.Artist) (model.Artist, error) {
	active := a.Active
	// default:trueのカラムはfalseがゼロ値扱いで無視されるので同じtx内で戻す
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&a).Error; err != nil {
			return err
		}
		if active {
			return nil
		}
		return tx.Model(&a).Update("active", false).Error
	})
	if err != nil {
		return model.Artist{}, mapErr(err)
	}
	a.Active = active
	return a, nil
}

func (r *ArtistGormRepository) Update(ctx context.Context, a model.Artist) error {
	res := r.db.WithContext(ctx).Model(&model.Artist{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"name":      a.Name,
		"bio":       a.Bio,
		"specialty": a.Specialty,
		"photo_url": a.PhotoURL,
		"active":    a.Active,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
