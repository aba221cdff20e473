package handler

import (
	"encoding/json"
	"net/http"

	"artstore/internal/config"
	"artstore/internal/middleware"
	"artstore/internal/repository"
	"artstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /commissions（依頼者）と /artist/commissions（作家）
type CommissionHandler struct {
	uc *usecase.CommissionUsecase
}

func NewCommissionHandler(uc *usecase.CommissionUsecase) *CommissionHandler {
	return &CommissionHandler{uc: uc}
}

type CommissionCreateRequest struct {
	WorkType            string      `json:"work_type"`
	Description         string      `json:"description"`
	PreferredArtistID   *int64      `json:"preferred_artist_id"`
	Dimensions          string      `json:"dimensions"`
	DesiredDeliveryDate string      `json:"desired_delivery_date"`
	MaxBudget           json.Number `json:"max_budget"` // "150.00" でも 150 でも可
}

type CommissionStatusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *CommissionHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/commissions")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.POST("", h.create)
	g.GET("", h.listMine)
	g.GET("/:id", h.detail)
	g.POST("/:id/cancel", h.cancel)

	// 作家かどうかはArtistの有無で判定する（usecase側）
	artist := e.Group("/artist")
	artist.Use(middleware.AuthJWT(cfg))
	artist.Use(middleware.TokenVersionGuard(userRepo))

	artist.GET("/commissions", h.listForArtist)
	artist.PUT("/commissions/:id/status", h.artistUpdateStatus)
}

func (h *CommissionHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req CommissionCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Create(c.Request().Context(), userID, usecase.CreateCommissionInput{
		WorkType:            req.WorkType,
		Description:         req.Description,
		PreferredArtistID:   req.PreferredArtistID,
		Dimensions:          req.Dimensions,
		DesiredDeliveryDate: req.DesiredDeliveryDate,
		MaxBudget:           req.MaxBudget.String(),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CommissionHandler) listMine(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	page, ok := queryInt(c, "page", 1)
	if !ok {
		return badRequest(c, "invalid page")
	}
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return badRequest(c, "invalid limit")
	}

	out, err := h.uc.ListMine(c.Request().Context(), userID, page, limit, c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CommissionHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.GetMine(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CommissionHandler) cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.CancelMine(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CommissionHandler) listForArtist(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	page, ok := queryInt(c, "page", 1)
	if !ok {
		return badRequest(c, "invalid page")
	}
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return badRequest(c, "invalid limit")
	}

	out, err := h.uc.ListForArtist(c.Request().Context(), userID, page, limit, c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CommissionHandler) artistUpdateStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req CommissionStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.ArtistUpdateStatus(c.Request().Context(), userID, id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
