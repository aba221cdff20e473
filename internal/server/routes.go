package server

import (
	"net/http"

	"artstore/internal/config"
	"artstore/internal/handler"
	"artstore/internal/repository"

	"github.com/labstack/echo/v4"
)

// 全ハンドラ
type Handlers struct {
	Auth            *handler.AuthHandler
	Profile         *handler.ProfileHandler
	Product         *handler.ProductHandler
	Catalog         *handler.CatalogHandler
	Cart            *handler.CartHandler
	Order           *handler.OrderHandler
	Commission      *handler.CommissionHandler
	AdminProduct    *handler.AdminProductHandler
	AdminCatalog    *handler.AdminCatalogHandler
	AdminOrder      *handler.AdminOrderHandler
	AdminCommission *handler.AdminCommissionHandler
	AdminUser       *handler.AdminUserHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// 公開
	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Catalog.RegisterRoutes(e)

	// ログイン必須
	h.Profile.RegisterRoutes(e, cfg, userRepo)
	h.Cart.RegisterRoutes(e, cfg, userRepo)
	h.Order.RegisterRoutes(e, cfg, userRepo)
	h.Commission.RegisterRoutes(e, cfg, userRepo)

	// admin
	h.AdminProduct.RegisterRoutes(e, cfg, userRepo)
	h.AdminCatalog.RegisterRoutes(e, cfg, userRepo)
	h.AdminOrder.RegisterRoutes(e, cfg, userRepo)
	h.AdminCommission.RegisterRoutes(e, cfg, userRepo)
	h.AdminUser.RegisterRoutes(e, cfg, userRepo)
}
