package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"artstore/internal/domain/model"
	repo "artstore/internal/repository"

	"github.com/gosimple/slug"
)

// CatalogUsecase はカテゴリと作家
type CatalogUsecase struct {
	tx         repo.TransactionManager
	categories repo.CategoryRepository
	artists    repo.ArtistRepository
}

// DI
func NewCatalogUsecase(tx repo.TransactionManager, categories repo.CategoryRepository, artists repo.ArtistRepository) *CatalogUsecase {
	return &CatalogUsecase{tx: tx, categories: categories, artists: artists}
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	items, err := u.categories.List(ctx)
	if err != nil {
		return nil, errDB()
	}
	return items, nil
}

type CreateCategoryInput struct {
	Name string
	Slug string // 空ならnameから作る
}

func (u *CatalogUsecase) AdminCreateCategory(ctx context.Context, in CreateCategoryInput) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return model.Category{}, errBadRequest("name required")
	}

	s := strings.TrimSpace(in.Slug)
	if s == "" {
		s = slug.Make(name)
	}
	if !slug.IsSlug(s) {
		return model.Category{}, errBadRequest("invalid slug")
	}

	c, err := u.categories.Create(ctx, model.Category{Name: name, Slug: s})
	if errors.Is(err, repo.ErrConflict) {
		return model.Category{}, NewHTTPError(http.StatusConflict, "slug already exists")
	}
	if err != nil {
		return model.Category{}, errDB()
	}
	return c, nil
}

func (u *CatalogUsecase) AdminDeleteCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return errBadRequest("invalid id")
	}
	return mapRepoErr(u.categories.Delete(ctx, id))
}

func (u *CatalogUsecase) ListArtists(ctx context.Context) ([]model.Artist, error) {
	items, err := u.artists.ListActive(ctx)
	if err != nil {
		return nil, errDB()
	}
	return items, nil
}

// 非公開の作家は「存在しない扱い」
func (u *CatalogUsecase) GetArtist(ctx context.Context, id int64) (model.Artist, error) {
	if id <= 0 {
		return model.Artist{}, errBadRequest("invalid id")
	}
	a, err := u.artists.FindByID(ctx, id)
	if err != nil {
		return model.Artist{}, mapRepoErr(err)
	}
	if !a.Active {
		return model.Artist{}, errNotFound()
	}
	return a, nil
}

type ArtistInput struct {
	UserID    int64 // 作成時のみ
	Name      string
	Bio       string
	Specialty string
	PhotoURL  string
	Active    bool
}

// AdminCreateArtist はユーザーに作家を紐付ける。customerはartistに昇格する
func (u *CatalogUsecase) AdminCreateArtist(ctx context.Context, in ArtistInput) (model.Artist, error) {
	if in.UserID <= 0 {
		return model.Artist{}, errBadRequest("invalid user_id")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 200 {
		return model.Artist{}, errBadRequest("name required")
	}

	var out model.Artist
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByID(ctx, in.UserID)
		if errors.Is(err, repo.ErrNotFound) {
			return errBadRequest("invalid user_id")
		}
		if err != nil {
			return errDB()
		}

		a, err := r.Artists().Create(ctx, model.Artist{
			UserID:    in.UserID,
			Name:      name,
			Bio:       in.Bio,
			Specialty: strings.TrimSpace(in.Specialty),
			PhotoURL:  strings.TrimSpace(in.PhotoURL),
			Active:    in.Active,
		})
		if errors.Is(err, repo.ErrConflict) {
			return NewHTTPError(http.StatusConflict, "user already has an artist")
		}
		if err != nil {
			return errDB()
		}

		// adminはadminのまま
		if user.Role == model.RoleCustomer {
			if err := r.Users().UpdateRole(ctx, user.ID, model.RoleArtist); err != nil {
				return errDB()
			}
		}

		out = a
		return nil
	})
	if err != nil {
		return model.Artist{}, err
	}
	return out, nil
}

func (u *CatalogUsecase) AdminUpdateArtist(ctx context.Context, id int64, in ArtistInput) (model.Artist, error) {
	if id <= 0 {
		return model.Artist{}, errBadRequest("invalid id")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 200 {
		return model.Artist{}, errBadRequest("name required")
	}

	a, err := u.artists.FindByID(ctx, id)
	if err != nil {
		return model.Artist{}, mapRepoErr(err)
	}

	a.Name = name
	a.Bio = in.Bio
	a.Specialty = strings.TrimSpace(in.Specialty)
	a.PhotoURL = strings.TrimSpace(in.PhotoURL)
	a.Active = in.Active

	if err := u.artists.Update(ctx, a); err != nil {
		return model.Artist{}, mapRepoErr(err)
	}
	return a, nil
}
