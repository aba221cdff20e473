package main

import (
	"context"
	"flag"
	"os"

	"artstore/internal/config"
	"artstore/internal/infra/db"
	infraRepo "artstore/internal/infra/repository"
	"artstore/internal/seed"
	"artstore/internal/usecase"
	auth "artstore/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	path := flag.String("file", "cmd/seed/catalog.yaml", "seed yaml")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	f, err := seed.LoadFile(*path)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	userRepo := infraRepo.NewUserGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	artistRepo := infraRepo.NewArtistGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	s := seed.NewSeeder(
		auth.NewRegisterUserUsecase(txm, auth.NewBcryptPasswordHasher(12), auth.SystemClock{}),
		usecase.NewCatalogUsecase(txm, categoryRepo, artistRepo),
		usecase.NewProductUsecase(txm, productRepo, categoryRepo, artistRepo),
		userRepo,
		categoryRepo,
		artistRepo,
		productRepo,
	)

	res, err := s.Run(context.Background(), f)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Infof("seed done: categories=%d artists=%d products=%d", res.Categories, res.Artists, res.Products)
}
