package repository

import (
	"context"

	"artstore/internal/domain/model"
	domainrepo "artstore/internal/repository"

	"gorm.io/gorm"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// Create はユーザーを新規作成
func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	return mapErr(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userGormRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userGormRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// IDでユーザーを1件取得
func (r *userGormRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userGormRepository) findOne(ctx context.Context, cond string, arg interface{}) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Where(cond, arg).
		First(&u).Error
	if err != nil {
		return nil, mapErr(err)
	}

	return &u, nil
}

// ユーザーを更新。
func (r *userGormRepository) Update(ctx context.Context, user *model.User) error {
	return mapErr(r.db.WithContext(ctx).Save(user).Error)
}

func (r *userGormRepository) UpdateRole(ctx context.Context, id int64, role model.Role) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("role", role)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}

// token_versionを+1 します。
func (r *userGormRepository) IncrementTokenVersion(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + ?", 1))

	if res.Error != nil {
		return res.Error
	}

	// 0件更新は「対象がない」
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}

type profileGormRepository struct {
	db *gorm.DB
}

func NewProfileGormRepository(db *gorm.DB) domainrepo.ProfileRepository {
	return &profileGormRepository{db: db}
}

func (r *profileGormRepository) Create(ctx context.Context, p model.UserProfile) error {
	enabled := p.NotificationsEnabled
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return mapErr(err)
	}
	// default:trueのカラムはfalseが無視されるので作成後に戻す
	if !enabled {
		return r.db.WithContext(ctx).Model(&model.UserProfile{}).
			Where("user_id = ?", p.UserID).
			Update("notifications_enabled", false).Error
	}
	return nil
}

func (r *profileGormRepository) FindByUserID(ctx context.Context, userID int64) (model.UserProfile, error) {
	var p model.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return model.UserProfile{}, mapErr(err)
	}
	return p, nil
}

// boolのfalseも書き込みたいのでmapで更新する
func (r *profileGormRepository) Update(ctx context.Context, p model.UserProfile) error {
	res := r.db.WithContext(ctx).
		Model(&model.UserProfile{}).
		Where("user_id = ?", p.UserID).
		Updates(map[string]interface{}{
			"phone":                 p.Phone,
			"address":               p.Address,
			"city":                  p.City,
			"country":               p.Country,
			"postal_code":           p.PostalCode,
			"birth_date":            p.BirthDate,
			"avatar_url":            p.AvatarURL,
			"notifications_enabled": p.NotificationsEnabled,
			"newsletter":            p.Newsletter,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}
