package server

import (
	"artstore/internal/config"
	"artstore/internal/handler"
	infraRepo "artstore/internal/infra/repository"
	"artstore/internal/notifier"
	"artstore/internal/repository"
	"artstore/internal/usecase"
	auth "artstore/internal/usecase/auth_usecase"

	"gorm.io/gorm"
)

// Wire はDBから repository → usecase → handler を組み立てる。
// TokenVersionGuard用にユーザーrepoも返す
func Wire(cfg config.Config, gormDB *gorm.DB, notify notifier.Notifier, bcryptCost int) (Handlers, repository.UserRepository) {
	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	profileRepo := infraRepo.NewProfileGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	artistRepo := infraRepo.NewArtistGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := auth.SystemClock{}
	hasher := auth.NewBcryptPasswordHasher(bcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(txm, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	forceLogoutUC := auth.NewForceLogoutUsecase(txm)
	profileUC := usecase.NewProfileUsecase(txm, userRepo, profileRepo, artistRepo)
	productUC := usecase.NewProductUsecase(txm, productRepo, categoryRepo, artistRepo)
	catalogUC := usecase.NewCatalogUsecase(txm, categoryRepo, artistRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo, cfg.TaxRatePercent)
	orderUC := usecase.NewOrderUsecase(txm, userRepo, profileRepo, usecase.UUIDOrderNumbers{}, notify, cfg.TaxRatePercent)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm)
	commissionUC := usecase.NewCommissionUsecase(txm, artistRepo, userRepo, profileRepo, notify, clock)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成
	return Handlers{
		Auth:            handler.NewAuthHandler(registerUC, loginUC),
		Profile:         handler.NewProfileHandler(profileUC),
		Product:         handler.NewProductHandler(productUC),
		Catalog:         handler.NewCatalogHandler(catalogUC),
		Cart:            handler.NewCartHandler(cartUC),
		Order:           handler.NewOrderHandler(orderUC),
		Commission:      handler.NewCommissionHandler(commissionUC),
		AdminProduct:    handler.NewAdminProductHandler(productUC),
		AdminCatalog:    handler.NewAdminCatalogHandler(catalogUC),
		AdminOrder:      handler.NewAdminOrderHandler(adminOrderUC),
		AdminCommission: handler.NewAdminCommissionHandler(commissionUC),
		AdminUser:       handler.NewAdminUserHandler(forceLogoutUC, auditUC),
	}, userRepo
}
