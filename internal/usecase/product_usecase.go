package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"artstore/internal/domain/model"
	"artstore/internal/domain/pricing"
	repo "artstore/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	tx           repo.TransactionManager
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	artistRepo   repo.ArtistRepository
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	artistRepo repo.ArtistRepository,
) *ProductUsecase {
	return &ProductUsecase{
		tx:           tx,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		artistRepo:   artistRepo,
	}
}

// GET /productsの入力DTO。金額はクエリ文字列のまま受け取る
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string // slug
	ArtistID *int64
	Type     string
	Featured *bool
	MinPrice string
	MaxPrice string
	Sort     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, errBadRequest("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, errBadRequest("invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, errBadRequest("q too long")
	}
	if in.Type != "" && !model.ProductType(in.Type).Valid() {
		return ProductListOutput{}, errBadRequest("invalid type")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc", "name":
	default:
		return ProductListOutput{}, errBadRequest("invalid sort")
	}

	minPrice, err := optionalAmount(in.MinPrice, "min_price")
	if err != nil {
		return ProductListOutput{}, err
	}
	maxPrice, err := optionalAmount(in.MaxPrice, "max_price")
	if err != nil {
		return ProductListOutput{}, err
	}
	if minPrice != nil && maxPrice != nil && minPrice.GreaterThan(*maxPrice) {
		return ProductListOutput{}, errBadRequest("min_price must be <= max_price")
	}

	q := repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		ArtistID: in.ArtistID,
		Type:     in.Type,
		Featured: in.Featured,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     in.Sort,
	}

	// 存在しないカテゴリは空の一覧
	if slug := strings.TrimSpace(in.Category); slug != "" {
		c, err := u.categoryRepo.FindBySlug(ctx, slug)
		if errors.Is(err, repo.ErrNotFound) {
			return ProductListOutput{Items: []model.Product{}, Page: in.Page, Limit: in.Limit}, nil
		}
		if err != nil {
			return ProductListOutput{}, errDB()
		}
		q.CategoryID = &c.ID
	}

	items, total, err := u.productRepo.ListPublic(ctx, q)
	if err != nil {
		return ProductListOutput{}, errDB()
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, errBadRequest("invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, mapRepoErr(err)
	}

	if !p.IsActive {
		return model.Product{}, errNotFound()
	}
	return p, nil
}

type AdminProductInput struct {
	Name        string
	Description string
	Price       string
	Stock       int64 // 作成時のみ。更新は在庫APIで行う
	Type        string
	CategoryID  *int64
	ArtistID    *int64
	ImageURL    string
	Featured    bool
	IsActive    bool
}

func (u *ProductUsecase) validateProductInput(ctx context.Context, in AdminProductInput) (model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 200 {
		return model.Product{}, errBadRequest("name required")
	}
	price, err := pricing.ParseAmount(in.Price)
	if err != nil {
		return model.Product{}, errBadRequest("invalid price")
	}
	if in.Stock < 0 {
		return model.Product{}, errBadRequest("stock must be >= 0")
	}
	t := model.ProductType(in.Type)
	if !t.Valid() {
		return model.Product{}, errBadRequest("invalid type")
	}

	// 参照先の存在確認
	if in.CategoryID != nil {
		if _, err := u.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return model.Product{}, errBadRequest("invalid category_id")
			}
			return model.Product{}, errDB()
		}
	}
	if in.ArtistID != nil {
		if _, err := u.artistRepo.FindByID(ctx, *in.ArtistID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return model.Product{}, errBadRequest("invalid artist_id")
			}
			return model.Product{}, errDB()
		}
	}

	return model.Product{
		Name:        name,
		Description: in.Description,
		Price:       price,
		Stock:       in.Stock,
		Type:        t,
		CategoryID:  in.CategoryID,
		ArtistID:    in.ArtistID,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Featured:    in.Featured,
		IsActive:    in.IsActive,
	}, nil
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, errUnauthorized()
	}

	p, err := u.validateProductInput(ctx, in)
	if err != nil {
		return model.Product{}, err
	}

	created, err := u.productRepo.Create(ctx, p)
	if err != nil {
		return model.Product{}, errDB()
	}
	return created, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in AdminProductInput) error {
	if adminUserID <= 0 {
		return errUnauthorized()
	}
	if productID <= 0 {
		return errBadRequest("invalid product id")
	}

	p, err := u.validateProductInput(ctx, in)
	if err != nil {
		return err
	}
	p.ID = productID

	return mapRepoErr(u.productRepo.Update(ctx, p))
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return errUnauthorized()
	}
	if productID <= 0 {
		return errBadRequest("invalid product id")
	}

	return mapRepoErr(u.productRepo.SoftDelete(ctx, productID))
}

// 在庫の現在値を更新し、調整履歴と監査ログを同じtxで残す
func (u *ProductUsecase) AdminUpdateInventory(ctx context.Context, adminUserID int64, productID int64, newStock int64, reason string) error {
	if adminUserID <= 0 {
		return errUnauthorized()
	}
	if productID <= 0 {
		return errBadRequest("invalid product id")
	}
	if newStock < 0 {
		return errBadRequest("stock must be >= 0")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errBadRequest("reason required")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前の在庫（before）
		p, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return mapRepoErr(err)
		}

		if err := r.Inventory().SetStockWithAdjustment(ctx, model.InventoryAdjustment{
			ProductID:   productID,
			ActorUserID: adminUserID,
			StockAfter:  newStock,
			Reason:      reason,
		}); err != nil {
			return mapRepoErr(err)
		}

		//監査ログを作成（在庫更新）
		//「誰が」「何を」「どの対象に」「どう変えたか」を残す
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   fmt.Sprintf(`{"stock":%d}`, p.Stock),
			AfterJSON:    fmt.Sprintf(`{"stock":%d}`, newStock),
			CreatedAt:    time.Now(),
		}); err != nil {
			return errDB()
		}
		return nil
	})
}

// 空文字ならnil
func optionalAmount(s string, field string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := pricing.ParseAmount(s)
	if err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid "+field)
	}
	return &d, nil
}
