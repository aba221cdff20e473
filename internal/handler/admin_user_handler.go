package handler

import (
	"errors"
	"net/http"

	"artstore/internal/config"
	"artstore/internal/domain/model"
	"artstore/internal/middleware"
	"artstore/internal/repository"
	"artstore/internal/usecase"
	auth "artstore/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /admin/users と /admin/audit-logs
type AdminUserHandler struct {
	forceLogoutUC *auth.ForceLogoutUsecase
	auditUC       *usecase.AuditLogUsecase
}

func NewAdminUserHandler(forceLogoutUC *auth.ForceLogoutUsecase, auditUC *usecase.AuditLogUsecase) *AdminUserHandler {
	return &AdminUserHandler{forceLogoutUC: forceLogoutUC, auditUC: auditUC}
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	// ★ /admin 配下は全部「JWT必須 + token_version一致 + ADMIN限定」
	admin := e.Group(
		"/admin",
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
		middleware.AdminRoleGuard(),
	)

	admin.POST("/users/:id/force-logout", h.ForceLogout)
	admin.GET("/audit-logs", h.AuditLogs)
}

func (h *AdminUserHandler) ForceLogout(c echo.Context) error {
	userID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid user_id")
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	res, err := h.forceLogoutUC.Execute(c.Request().Context(), adminID, userID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		case errors.Is(err, auth.ErrInvalidInput):
			return badRequest(c, "invalid user_id")
		default:
			c.Logger().Errorf("force logout: %v", err)
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
	}

	return c.JSON(http.StatusOK, res)
}

func (h *AdminUserHandler) AuditLogs(c echo.Context) error {
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return badRequest(c, "invalid limit")
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return badRequest(c, "invalid offset")
	}
	actorID, ok := queryInt64Ptr(c, "actor_user_id")
	if !ok {
		return badRequest(c, "invalid actor_user_id")
	}
	resourceID, ok := queryInt64Ptr(c, "resource_id")
	if !ok {
		return badRequest(c, "invalid resource_id")
	}
	from, ok := queryTime(c, "from")
	if !ok {
		return badRequest(c, "invalid from")
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return badRequest(c, "invalid to")
	}

	f := repository.AuditLogFilter{
		ActorUserID: actorID,
		ResourceID:  resourceID,
		CreatedFrom: from,
		CreatedTo:   to,
		Limit:       limit,
		Offset:      offset,
	}
	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := c.QueryParam("resource_type"); v != "" {
		rt := model.AuditResourceType(v)
		f.ResourceType = &rt
	}

	out, err := h.auditUC.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
