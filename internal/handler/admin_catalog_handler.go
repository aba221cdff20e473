package handler

import (
	"net/http"

	"artstore/internal/config"
	"artstore/internal/middleware"
	"artstore/internal/repository"
	"artstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/categories と /admin/artists
type AdminCatalogHandler struct {
	uc *usecase.CatalogUsecase
}

func NewAdminCatalogHandler(uc *usecase.CatalogUsecase) *AdminCatalogHandler {
	return &AdminCatalogHandler{uc: uc}
}

type CategoryCreateRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ArtistRequest struct {
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	Specialty string `json:"specialty"`
	PhotoURL  string `json:"photo_url"`
	Active    bool   `json:"active"`
}

func (r ArtistRequest) toInput() usecase.ArtistInput {
	return usecase.ArtistInput{
		UserID:    r.UserID,
		Name:      r.Name,
		Bio:       r.Bio,
		Specialty: r.Specialty,
		PhotoURL:  r.PhotoURL,
		Active:    r.Active,
	}
}

func (h *AdminCatalogHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/categories", h.createCategory)
	admin.DELETE("/categories/:id", h.deleteCategory)
	admin.POST("/artists", h.createArtist)
	admin.PUT("/artists/:id", h.updateArtist)
}

func (h *AdminCatalogHandler) createCategory(c echo.Context) error {
	var req CategoryCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.AdminCreateCategory(c.Request().Context(), usecase.CreateCategoryInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCatalogHandler) deleteCategory(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	if err := h.uc.AdminDeleteCategory(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminCatalogHandler) createArtist(c echo.Context) error {
	var req ArtistRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.AdminCreateArtist(c.Request().Context(), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCatalogHandler) updateArtist(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req ArtistRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.AdminUpdateArtist(c.Request().Context(), id, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
