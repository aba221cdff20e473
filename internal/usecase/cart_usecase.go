package usecase

import (
	"context"
	"errors"
	"net/http"

	"artstore/internal/domain/model"
	"artstore/internal/domain/pricing"
	repo "artstore/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
// 金額は常に商品の現在価格で計算します（カートは価格を持たない）。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	taxPercent   decimal.Decimal
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	taxPercent decimal.Decimal,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		taxPercent:   taxPercent,
	}
}

type CartItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	// 非公開・削除済みの商品はfalse。注文確定の前に削除してもらう
	Available bool `json:"available"`
}

type CartResponse struct {
	Items        []CartItemResponse `json:"items"`
	ItemCount    int64              `json:"item_count"`
	Total        decimal.Decimal    `json:"total"`
	Tax          decimal.Decimal    `json:"tax"`
	TotalWithTax decimal.Decimal    `json:"total_with_tax"`
}

// ヘッダーのバッジ用
type CartSummary struct {
	ItemCount int64           `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// GetCart はカート取得。カートが無ければ作らずに空を返す。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, errUnauthorized()
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return u.emptyCart(), nil
	}
	if err != nil {
		return CartResponse{}, errDB()
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// Summary は件数と合計だけ返す。カートが無ければ0
func (u *CartUsecase) Summary(ctx context.Context, userID int64) (CartSummary, error) {
	out, err := u.GetCart(ctx, userID)
	if err != nil {
		return CartSummary{}, err
	}
	return CartSummary{ItemCount: out.ItemCount, Total: out.Total}, nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, errUnauthorized()
	}
	if in.ProductID <= 0 {
		return CartResponse{}, errBadRequest("invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, errBadRequest("invalid quantity")
	}

	// 商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, errBadRequest("invalid product")
	}
	if err != nil {
		return CartResponse{}, errDB()
	}
	if !p.IsActive {
		return CartResponse{}, errBadRequest("invalid product")
	}

	// カート取得（無ければ作成）
	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, errDB()
	}

	// 既存数量と合わせて在庫チェック
	var existingQty int64
	item, err := u.cartItemRepo.FindByCartAndProduct(ctx, cart.ID, in.ProductID)
	switch {
	case err == nil:
		existingQty = item.Quantity
	case errors.Is(err, repo.ErrNotFound):
	default:
		return CartResponse{}, errDB()
	}

	// existingQty+in.Quantity は桁あふれするので引き算で比べる
	if in.Quantity > p.Stock || existingQty > p.Stock-in.Quantity {
		return CartResponse{}, errBadRequest("stock exceeded")
	}

	if err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cart.ID, in.ProductID, in.Quantity); err != nil {
		return CartResponse{}, errDB()
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// 数量変更（所有チェック＋在庫チェック）。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, errUnauthorized()
	}
	if cartItemID <= 0 {
		return CartResponse{}, errBadRequest("invalid id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, errBadRequest("invalid quantity")
	}

	if err := u.checkOwned(ctx, userID, cartItemID); err != nil {
		return CartResponse{}, err
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if err != nil {
		return CartResponse{}, mapRepoErr(err)
	}

	//商品の在庫チェック
	p, err := u.productRepo.FindByID(ctx, item.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, errBadRequest("invalid product")
	}
	if err != nil {
		return CartResponse{}, errDB()
	}
	if !p.IsActive {
		return CartResponse{}, errBadRequest("invalid product")
	}
	if in.Quantity > p.Stock {
		return CartResponse{}, errBadRequest("stock exceeded")
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		return CartResponse{}, mapRepoErr(err)
	}

	return u.buildCartResponse(ctx, item.CartID)
}

// 明細削除
func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID int64, cartItemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, errUnauthorized()
	}
	if cartItemID <= 0 {
		return CartResponse{}, errBadRequest("invalid id")
	}

	if err := u.checkOwned(ctx, userID, cartItemID); err != nil {
		return CartResponse{}, err
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		return CartResponse{}, mapRepoErr(err)
	}

	return u.GetCart(ctx, userID)
}

// カートを空にする
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, errUnauthorized()
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return u.emptyCart(), nil
	}
	if err != nil {
		return CartResponse{}, errDB()
	}

	if err := u.cartRepo.Clear(ctx, cart.ID); err != nil {
		return CartResponse{}, mapRepoErr(err)
	}
	return u.emptyCart(), nil
}

// 他人の明細は「存在しない扱い」
func (u *CartUsecase) checkOwned(ctx context.Context, userID int64, cartItemID int64) error {
	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return errDB()
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	return nil
}

func (u *CartUsecase) emptyCart() CartResponse {
	return CartResponse{
		Items:        []CartItemResponse{},
		Total:        decimal.Zero,
		Tax:          decimal.Zero,
		TotalWithTax: decimal.Zero,
	}
}

// cartIDの明細をまとめてCartResponseを作る。
// 削除・非公開になった商品の明細も件数・合計に含め、available=falseで返す
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, errDB()
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := u.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return CartResponse{}, errDB()
	}

	respItems := make([]CartItemResponse, 0, len(items))
	lines := make([]pricing.Line, 0, len(items))

	for _, it := range items {
		// 行が物理削除されていれば価格0
		p, ok := products[it.ProductID]
		if !ok {
			p = model.Product{ID: it.ProductID, Price: decimal.Zero}
		}

		line := pricing.Line{UnitPrice: p.Price, Quantity: it.Quantity}
		lines = append(lines, line)
		respItems = append(respItems, CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  it.Quantity,
			Subtotal:  line.Subtotal(),
			Available: ok && p.Available(),
		})
	}

	totals := pricing.Summarize(lines, u.taxPercent)
	return CartResponse{
		Items:        respItems,
		ItemCount:    pricing.ItemCount(lines),
		Total:        totals.Subtotal,
		Tax:          totals.Tax,
		TotalWithTax: totals.Total,
	}, nil
}
