package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"artstore/internal/domain/model"
	repo "artstore/internal/repository"
	"artstore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture() (*usecase.CatalogUsecase, *CategoryRepoMock, *ArtistRepoMock, *UserRepoMock, *TxManagerMock) {
	categories := new(CategoryRepoMock)
	artists := new(ArtistRepoMock)
	users := new(UserRepoMock)
	tx := &TxManagerMock{Repos: &TxReposMock{users: users, artists: artists}}
	tx.On("WithinTx", mock.Anything).Return(nil)
	return usecase.NewCatalogUsecase(tx, categories, artists), categories, artists, users, tx
}

// =====================
// Categories
// =====================

func TestCatalogUsecase_AdminCreateCategory_SlugFromName(t *testing.T) {
	uc, categories, _, _, _ := newCatalogFixture()
	categories.On("Create", mock.Anything, model.Category{Name: "Óleos y Acrílicos", Slug: "oleos-y-acrilicos"}).
		Return(model.Category{ID: 1, Name: "Óleos y Acrílicos", Slug: "oleos-y-acrilicos"}, nil)

	c, err := uc.AdminCreateCategory(context.Background(), usecase.CreateCategoryInput{Name: " Óleos y Acrílicos "})
	require.NoError(t, err)
	assert.Equal(t, "oleos-y-acrilicos", c.Slug)
	categories.AssertExpectations(t)
}

func TestCatalogUsecase_AdminCreateCategory_Validation(t *testing.T) {
	uc, _, _, _, _ := newCatalogFixture()

	_, err := uc.AdminCreateCategory(context.Background(), usecase.CreateCategoryInput{Name: ""})
	assertHTTPError(t, err, http.StatusBadRequest, "name required")

	_, err = uc.AdminCreateCategory(context.Background(), usecase.CreateCategoryInput{Name: "Pinceles", Slug: "Not A Slug"})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid slug")
}

func TestCatalogUsecase_AdminCreateCategory_DuplicateSlug(t *testing.T) {
	uc, categories, _, _, _ := newCatalogFixture()
	categories.On("Create", mock.Anything, mock.Anything).Return(model.Category{}, repo.ErrConflict)

	_, err := uc.AdminCreateCategory(context.Background(), usecase.CreateCategoryInput{Name: "Pinceles", Slug: "pinceles"})
	assertHTTPError(t, err, http.StatusConflict, "slug already exists")
}

func TestCatalogUsecase_AdminDeleteCategory(t *testing.T) {
	uc, categories, _, _, _ := newCatalogFixture()
	categories.On("Delete", mock.Anything, int64(3)).Return(repo.ErrNotFound)

	assertHTTPError(t, uc.AdminDeleteCategory(context.Background(), 3), http.StatusNotFound, "not found")
	assertHTTPError(t, uc.AdminDeleteCategory(context.Background(), 0), http.StatusBadRequest, "invalid id")
}

func TestCatalogUsecase_ListCategories_DBError(t *testing.T) {
	uc, categories, _, _, _ := newCatalogFixture()
	categories.On("List", mock.Anything).Return(nil, errors.New("boom"))

	_, err := uc.ListCategories(context.Background())
	assertHTTPError(t, err, http.StatusInternalServerError, "db error")
}

// =====================
// Artists
// =====================

func TestCatalogUsecase_GetArtist_InactiveIsNotFound(t *testing.T) {
	uc, _, artists, _, _ := newCatalogFixture()
	artists.On("FindByID", mock.Anything, int64(1)).Return(model.Artist{ID: 1, Active: true, Name: "Remedios"}, nil)
	artists.On("FindByID", mock.Anything, int64(2)).Return(model.Artist{ID: 2, Active: false}, nil)

	a, err := uc.GetArtist(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Remedios", a.Name)

	_, err = uc.GetArtist(context.Background(), 2)
	assertHTTPError(t, err, http.StatusNotFound, "not found")
}

func TestCatalogUsecase_AdminCreateArtist_PromotesCustomer(t *testing.T) {
	uc, _, artists, users, _ := newCatalogFixture()
	users.On("FindByID", mock.Anything, int64(5)).Return(&model.User{ID: 5, Role: model.RoleCustomer}, nil)
	artists.On("Create", mock.Anything, mock.MatchedBy(func(a model.Artist) bool {
		return a.UserID == 5 && a.Name == "Leonora" && a.Active
	})).Return(model.Artist{ID: 9, UserID: 5, Name: "Leonora", Active: true}, nil)
	users.On("UpdateRole", mock.Anything, int64(5), model.RoleArtist).Return(nil)

	a, err := uc.AdminCreateArtist(context.Background(), usecase.ArtistInput{UserID: 5, Name: "Leonora", Active: true})
	require.NoError(t, err)
	assert.Equal(t, int64(9), a.ID)
	users.AssertExpectations(t)
}

func TestCatalogUsecase_AdminCreateArtist_AdminKeepsRole(t *testing.T) {
	uc, _, artists, users, _ := newCatalogFixture()
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, Role: model.RoleAdmin}, nil)
	artists.On("Create", mock.Anything, mock.Anything).Return(model.Artist{ID: 2, UserID: 1}, nil)

	_, err := uc.AdminCreateArtist(context.Background(), usecase.ArtistInput{UserID: 1, Name: "Admin Artist"})
	require.NoError(t, err)
	users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogUsecase_AdminCreateArtist_Errors(t *testing.T) {
	uc, _, artists, users, _ := newCatalogFixture()
	users.On("FindByID", mock.Anything, int64(404)).Return(nil, repo.ErrNotFound)
	users.On("FindByID", mock.Anything, int64(5)).Return(&model.User{ID: 5, Role: model.RoleArtist}, nil)
	artists.On("Create", mock.Anything, mock.Anything).Return(model.Artist{}, repo.ErrConflict)

	_, err := uc.AdminCreateArtist(context.Background(), usecase.ArtistInput{UserID: 404, Name: "X"})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid user_id")

	_, err = uc.AdminCreateArtist(context.Background(), usecase.ArtistInput{UserID: 5, Name: "X"})
	assertHTTPError(t, err, http.StatusConflict, "user already has an artist")

	_, err = uc.AdminCreateArtist(context.Background(), usecase.ArtistInput{UserID: 5, Name: " "})
	assertHTTPError(t, err, http.StatusBadRequest, "name required")
}

func TestCatalogUsecase_AdminUpdateArtist(t *testing.T) {
	uc, _, artists, _, _ := newCatalogFixture()
	artists.On("FindByID", mock.Anything, int64(9)).Return(model.Artist{ID: 9, UserID: 5, Name: "Old", Active: true}, nil)
	artists.On("Update", mock.Anything, mock.MatchedBy(func(a model.Artist) bool {
		return a.ID == 9 && a.UserID == 5 && a.Name == "New" && !a.Active
	})).Return(nil)

	a, err := uc.AdminUpdateArtist(context.Background(), 9, usecase.ArtistInput{Name: "New", Active: false})
	require.NoError(t, err)
	assert.Equal(t, "New", a.Name)
	artists.AssertExpectations(t)
}
