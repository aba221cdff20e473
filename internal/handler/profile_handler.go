package handler

import (
	"net/http"

	"artstore/internal/config"
	"artstore/internal/middleware"
	"artstore/internal/repository"
	"artstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /me/profile
type ProfileHandler struct {
	uc *usecase.ProfileUsecase
}

func NewProfileHandler(uc *usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// 省略したフィールドは変更しない
type UpdateProfileRequest struct {
	FirstName            *string `json:"first_name"`
	LastName             *string `json:"last_name"`
	Phone                *string `json:"phone"`
	Address              *string `json:"address"`
	City                 *string `json:"city"`
	Country              *string `json:"country"`
	PostalCode           *string `json:"postal_code"`
	BirthDate            *string `json:"birth_date"`
	AvatarURL            *string `json:"avatar_url"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	Newsletter           *bool   `json:"newsletter"`
}

func (h *ProfileHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/me")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.GET("/profile", h.get)
	g.PUT("/profile", h.update)
}

func (h *ProfileHandler) get(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.GetMe(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProfileHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateMe(c.Request().Context(), userID, usecase.UpdateProfileInput{
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Phone:                req.Phone,
		Address:              req.Address,
		City:                 req.City,
		Country:              req.Country,
		PostalCode:           req.PostalCode,
		BirthDate:            req.BirthDate,
		AvatarURL:            req.AvatarURL,
		NotificationsEnabled: req.NotificationsEnabled,
		Newsletter:           req.Newsletter,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
