package seed

import (
	"context"
	"errors"
	"fmt"

	"artstore/internal/domain/model"
	repo "artstore/internal/repository"
	"artstore/internal/usecase"
	auth "artstore/internal/usecase/auth_usecase"

	"github.com/gosimple/slug"
	"github.com/labstack/gommon/log"
)

// Seeder は登録済みのデータを飛ばしながら投入する。何度流してもよい
type Seeder struct {
	register   *auth.RegisterUserUsecase
	catalog    *usecase.CatalogUsecase
	products   *usecase.ProductUsecase
	users      repo.UserRepository
	categories repo.CategoryRepository
	artists    repo.ArtistRepository
	productsDB repo.ProductRepository
}

func NewSeeder(
	register *auth.RegisterUserUsecase,
	catalog *usecase.CatalogUsecase,
	products *usecase.ProductUsecase,
	users repo.UserRepository,
	categories repo.CategoryRepository,
	artists repo.ArtistRepository,
	productsDB repo.ProductRepository,
) *Seeder {
	return &Seeder{
		register:   register,
		catalog:    catalog,
		products:   products,
		users:      users,
		categories: categories,
		artists:    artists,
		productsDB: productsDB,
	}
}

// 投入件数
type Result struct {
	Categories int
	Artists    int
	Products   int
}

func (s *Seeder) Run(ctx context.Context, f *File) (Result, error) {
	var res Result

	admin, err := s.ensureUser(ctx, f.Admin)
	if err != nil {
		return res, fmt.Errorf("admin: %w", err)
	}
	if admin.Role != model.RoleAdmin {
		if err := s.users.UpdateRole(ctx, admin.ID, model.RoleAdmin); err != nil {
			return res, fmt.Errorf("admin role: %w", err)
		}
	}

	categoryIDs := map[string]int64{}
	for _, cs := range f.Categories {
		id, created, err := s.ensureCategory(ctx, cs)
		if err != nil {
			return res, fmt.Errorf("category %q: %w", cs.Name, err)
		}
		categoryIDs[categoryKey(cs)] = id
		if created {
			res.Categories++
		}
	}

	artistIDs := map[string]int64{}
	for _, as := range f.Artists {
		id, created, err := s.ensureArtist(ctx, as)
		if err != nil {
			return res, fmt.Errorf("artist %q: %w", as.Name, err)
		}
		artistIDs[as.User.Username] = id
		if created {
			res.Artists++
		}
	}

	// 商品は名前で引けないので、1件でもあれば投入済みとみなす
	_, total, err := s.productsDB.ListPublic(ctx, repo.ProductListQuery{Page: 1, Limit: 1})
	if err != nil {
		return res, fmt.Errorf("count products: %w", err)
	}
	if total > 0 {
		log.Infof("seed: products already present, skipping")
		return res, nil
	}

	for _, ps := range f.Products {
		in := usecase.AdminProductInput{
			Name:        ps.Name,
			Description: ps.Description,
			Price:       ps.Price,
			Stock:       ps.Stock,
			Type:        ps.Type,
			ImageURL:    ps.ImageURL,
			Featured:    ps.Featured,
			IsActive:    !ps.Hidden,
		}
		if ps.Category != "" {
			id, ok := categoryIDs[ps.Category]
			if !ok {
				return res, fmt.Errorf("product %q: unknown category %q", ps.Name, ps.Category)
			}
			in.CategoryID = &id
		}
		if ps.Artist != "" {
			id, ok := artistIDs[ps.Artist]
			if !ok {
				return res, fmt.Errorf("product %q: unknown artist %q", ps.Name, ps.Artist)
			}
			in.ArtistID = &id
		}

		if _, err := s.products.AdminCreateProduct(ctx, admin.ID, in); err != nil {
			return res, fmt.Errorf("product %q: %w", ps.Name, err)
		}
		res.Products++
	}

	return res, nil
}

func (s *Seeder) ensureUser(ctx context.Context, us UserSeed) (*model.User, error) {
	u, err := s.users.FindByEmail(ctx, us.Email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	out, err := s.register.Execute(ctx, auth.RegisterUserInput{
		Username:  us.Username,
		Email:     us.Email,
		Password:  us.Password,
		FirstName: us.FirstName,
		LastName:  us.LastName,
	})
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (s *Seeder) ensureCategory(ctx context.Context, cs CategorySeed) (int64, bool, error) {
	c, err := s.categories.FindBySlug(ctx, categoryKey(cs))
	if err == nil {
		return c.ID, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return 0, false, err
	}

	created, err := s.catalog.AdminCreateCategory(ctx, usecase.CreateCategoryInput{Name: cs.Name, Slug: cs.Slug})
	if err != nil {
		return 0, false, err
	}
	return created.ID, true, nil
}

func (s *Seeder) ensureArtist(ctx context.Context, as ArtistSeed) (int64, bool, error) {
	u, err := s.ensureUser(ctx, as.User)
	if err != nil {
		return 0, false, err
	}

	a, err := s.artists.FindByUserID(ctx, u.ID)
	if err == nil {
		return a.ID, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return 0, false, err
	}

	created, err := s.catalog.AdminCreateArtist(ctx, usecase.ArtistInput{
		UserID:    u.ID,
		Name:      as.Name,
		Bio:       as.Bio,
		Specialty: as.Specialty,
		PhotoURL:  as.PhotoURL,
		Active:    true,
	})
	if err != nil {
		return 0, false, err
	}
	return created.ID, true, nil
}

// 商品から参照するときのキー（slug）
func categoryKey(cs CategorySeed) string {
	if cs.Slug != "" {
		return cs.Slug
	}
	return slug.Make(cs.Name)
}
