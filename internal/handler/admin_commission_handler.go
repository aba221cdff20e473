package handler

import (
	"net/http"

	"artstore/internal/config"
	"artstore/internal/middleware"
	"artstore/internal/repository"
	"artstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminCommissionHandler struct {
	uc *usecase.CommissionUsecase
}

func NewAdminCommissionHandler(uc *usecase.CommissionUsecase) *AdminCommissionHandler {
	return &AdminCommissionHandler{uc: uc}
}

func (h *AdminCommissionHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/commissions", h.list)
	admin.PUT("/commissions/:id/status", h.updateStatus)
}

func (h *AdminCommissionHandler) list(c echo.Context) error {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return badRequest(c, "invalid page")
	}
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return badRequest(c, "invalid limit")
	}
	clientID, ok := queryInt64Ptr(c, "client_id")
	if !ok {
		return badRequest(c, "invalid client_id")
	}
	artistID, ok := queryInt64Ptr(c, "artist_id")
	if !ok {
		return badRequest(c, "invalid artist_id")
	}

	out, err := h.uc.AdminList(c.Request().Context(), repository.CommissionListFilter{
		Page:              page,
		Limit:             limit,
		ClientID:          clientID,
		PreferredArtistID: artistID,
		Status:            c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminCommissionHandler) updateStatus(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req CommissionStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.AdminUpdateStatus(c.Request().Context(), adminID, id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
