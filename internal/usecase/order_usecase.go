package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artstore/internal/domain/model"
	"artstore/internal/domain/pricing"
	"artstore/internal/notifier"
	repo "artstore/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

// 注文番号の採番
type OrderNumberGenerator interface {
	NewOrderNumber() string
}

// UUIDOrderNumbers はuuidの先頭10桁（大文字16進）を注文番号にする
type UUIDOrderNumbers struct{}

func (UUIDOrderNumbers) NewOrderNumber() string {
	id := uuid.New()
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))[:10]
}

// 注文番号が衝突したときの再採番の上限
const maxOrderNumberAttempts = 5

type OrderUsecase struct {
	tx         repo.TransactionManager
	users      repo.UserRepository
	profiles   repo.ProfileRepository
	numbers    OrderNumberGenerator
	notify     notifier.Notifier
	taxPercent decimal.Decimal
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	profiles repo.ProfileRepository,
	numbers OrderNumberGenerator,
	notify notifier.Notifier,
	taxPercent decimal.Decimal,
) *OrderUsecase {
	return &OrderUsecase{
		tx:         tx,
		users:      users,
		profiles:   profiles,
		numbers:    numbers,
		notify:     notify,
		taxPercent: taxPercent,
	}
}

type PlaceOrderInput struct {
	PaymentMethod   string
	ShippingAddress string
	Notes           string
	IdempotencyKey  string
}

type OrderItemOutput struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	OrderNumber     string            `json:"order_number"`
	UserID          int64             `json:"user_id"`
	Status          string            `json:"status"`
	PaymentMethod   string            `json:"payment_method"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	Tax             decimal.Decimal   `json:"tax"`
	Total           decimal.Decimal   `json:"total"`
	ShippingAddress string            `json:"shipping_address"`
	Notes           string            `json:"notes"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// 同じキーの注文が同時に作られたときにtxを巻き戻すための印
var errIdempotentReplay = errors.New("idempotent replay")

// PlaceOrder はカートから注文を確定する。
// 在庫減算・価格のスナップショット・注文作成・カートのクリアを1つのtxで行う。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, errUnauthorized()
	}
	method := model.PaymentMethod(strings.TrimSpace(in.PaymentMethod))
	if !method.Valid() {
		return OrderOutput{}, errBadRequest("invalid payment_method")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > 255 {
		return OrderOutput{}, errBadRequest("invalid idempotency_key")
	}

	// 配送先の指定が無ければプロフィールの住所を使う
	shipping := strings.TrimSpace(in.ShippingAddress)
	if shipping == "" {
		profile, err := u.profiles.FindByUserID(ctx, userID)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return OrderOutput{}, errDB()
		}
		shipping = profile.ShippingAddress()
	}
	if shipping == "" {
		return OrderOutput{}, errBadRequest("shipping_address required")
	}

	var out OrderOutput
	created := false

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		if key != "" {
			existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
			if err != nil {
				return errDB()
			}
			if found {
				items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
				if err != nil {
					return errDB()
				}
				out = toOrderOutput(existing, items)
				return nil
			}
		}

		//カートをロックして取得
		cart, err := r.Carts().FindByUserIDForUpdate(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return errBadRequest("cart empty")
		}
		if err != nil {
			return errDB()
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return errDB()
		}
		if len(cartItems) == 0 {
			return errBadRequest("cart empty")
		}

		ids := make([]int64, 0, len(cartItems))
		for _, ci := range cartItems {
			ids = append(ids, ci.ProductID)
		}
		products, err := r.Products().FindByIDs(ctx, ids)
		if err != nil {
			return errDB()
		}

		//在庫を確定時に再チェックして減らす
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		lines := make([]pricing.Line, 0, len(cartItems))

		for _, ci := range cartItems {
			p, ok := products[ci.ProductID]
			if !ok || !p.Available() {
				return errBadRequest(fmt.Sprintf("product %d is unavailable", ci.ProductID))
			}

			//在庫減算（足りないなら false）
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return errDB()
			}
			if !ok {
				return errBadRequest(fmt.Sprintf("out of stock: %s", p.Name))
			}

			//スナップショット
			line := pricing.Line{UnitPrice: p.Price, Quantity: ci.Quantity}
			lines = append(lines, line)
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           ci.ProductID,
				ProductNameSnapshot: p.Name,
				Quantity:            ci.Quantity,
				UnitPrice:           p.Price,
				Subtotal:            line.Subtotal(),
			})
		}

		totals := pricing.Summarize(lines, u.taxPercent)
		order := model.Order{
			UserID:          userID,
			Status:          model.OrderStatusPending,
			PaymentMethod:   method,
			Subtotal:        totals.Subtotal,
			Tax:             totals.Tax,
			Total:           totals.Total,
			ShippingAddress: shipping,
			Notes:           strings.TrimSpace(in.Notes),
		}
		if key != "" {
			order.IdempotencyKey = &key
		}

		// 注文作成（注文番号が衝突したら採番し直す）
		orderID, err := u.createWithFreshNumber(ctx, r, &order)
		if errors.Is(err, repo.ErrConflict) && key != "" {
			//同時に同じキーが入った場合は、このtxを巻き戻して既存を返す
			if _, found, findErr := r.Orders().FindByIdempotencyKey(ctx, userID, key); findErr == nil && found {
				return errIdempotentReplay
			}
		}
		if err != nil {
			return mapRepoErr(err)
		}
		order.ID = orderID

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return errDB()
		}

		//カートの明細をクリア（再注文防止）
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return errDB()
		}

		order.CreatedAt = time.Now()
		out = toOrderOutput(order, orderItems)
		created = true
		return nil
	})

	if errors.Is(err, errIdempotentReplay) {
		return u.findByIdempotencyKey(ctx, userID, key)
	}
	if err != nil {
		return OrderOutput{}, err
	}

	if created {
		u.notifyOrderPlaced(ctx, userID, out)
	}
	return out, nil
}

func (u *OrderUsecase) createWithFreshNumber(ctx context.Context, r repo.TxRepos, order *model.Order) (int64, error) {
	var lastErr error
	for i := 0; i < maxOrderNumberAttempts; i++ {
		order.OrderNumber = u.numbers.NewOrderNumber()
		id, err := r.Orders().Create(ctx, *order)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, repo.ErrConflict) {
			return 0, err
		}
		// idempotency_keyの衝突なら採番し直しても無駄
		if order.IdempotencyKey != nil {
			if _, found, findErr := r.Orders().FindByIdempotencyKey(ctx, order.UserID, *order.IdempotencyKey); findErr == nil && found {
				return 0, err
			}
		}
		lastErr = err
	}
	return 0, lastErr
}

func (u *OrderUsecase) findByIdempotencyKey(ctx context.Context, userID int64, key string) (OrderOutput, error) {
	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return errDB()
		}
		if !found {
			return errNotFound()
		}
		items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
		if err != nil {
			return errDB()
		}
		out = toOrderOutput(existing, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 通知の失敗は注文には影響させない
func (u *OrderUsecase) notifyOrderPlaced(ctx context.Context, userID int64, o OrderOutput) {
	if u.notify == nil {
		return
	}

	profile, err := u.profiles.FindByUserID(ctx, userID)
	if err == nil && !profile.NotificationsEnabled {
		return
	}
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		log.Warnf("order %s: notify skipped: %v", o.OrderNumber, err)
		return
	}

	if err := u.notify.OrderPlaced(ctx, notifier.OrderPlaced{
		Email:        user.Email,
		CustomerName: user.FullName(),
		OrderNumber:  o.OrderNumber,
		Total:        o.Total,
	}); err != nil {
		log.Errorf("order %s: notify failed: %v", o.OrderNumber, err)
	}
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, errUnauthorized()
	}
	if page < 1 {
		return OrderListOutput{}, errBadRequest("invalid page")
	}
	if limit < 1 || limit > 100 {
		return OrderListOutput{}, errBadRequest("invalid limit")
	}

	var out OrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByUserID(ctx, userID, page, limit)
		if err != nil {
			return errDB()
		}

		outs, err := withItems(ctx, r, orders)
		if err != nil {
			return err
		}
		out = OrderListOutput{Items: outs, Total: total, Page: page, Limit: limit}
		return nil
	})

	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, errBadRequest("invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOwnOrder(ctx, r, userID, orderID)
		if err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return errDB()
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// CancelMyOrder は本人の注文をキャンセルする（pending/processingのみ）。在庫は戻す
func (u *OrderUsecase) CancelMyOrder(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, errBadRequest("invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOwnOrder(ctx, r, userID, orderID)
		if err != nil {
			return err
		}

		items, err := changeOrderStatus(ctx, r, userID, o, model.OrderStatusCancelled)
		if err != nil {
			return err
		}

		o.Status = model.OrderStatusCancelled
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func findOwnOrder(ctx context.Context, r repo.TxRepos, userID int64, orderID int64) (model.Order, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if err != nil {
		return model.Order{}, mapRepoErr(err)
	}
	if o.UserID != userID {
		//他人の注文は「存在しない扱い」にする
		return model.Order{}, errNotFound()
	}
	return o, nil
}

// changeOrderStatus は遷移を検証して更新し、監査ログを残す。
// キャンセルなら在庫を戻す。注文明細を返す
func changeOrderStatus(ctx context.Context, r repo.TxRepos, actorUserID int64, o model.Order, next model.OrderStatus) ([]model.OrderItem, error) {
	if err := model.TransitionOrder(o.Status, next); err != nil {
		return nil, errTransition(err)
	}

	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return nil, errDB()
	}

	// 条件付き更新。0件なら他で先に変わっている
	if err := r.Orders().UpdateStatus(ctx, o.ID, o.Status, next); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errTransition(fmt.Errorf("%w: order was modified concurrently", model.ErrInvalidTransition))
		}
		return nil, errDB()
	}

	if next == model.OrderStatusCancelled {
		// 論理削除済みの商品にも戻す。行ごと無い商品だけ飛ばす
		for _, it := range items {
			if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil && !errors.Is(err, repo.ErrNotFound) {
				return nil, errDB()
			}
		}
	}

	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       model.AuditActionUpdateOrderStatus,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   o.ID,
		BeforeJSON:   `{"status":"` + string(o.Status) + `"}`,
		AfterJSON:    `{"status":"` + string(next) + `"}`,
		CreatedAt:    time.Now(),
	}); err != nil {
		return nil, errDB()
	}

	return items, nil
}

func withItems(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, errDB()
		}
		outs = append(outs, toOrderOutput(o, items))
	}
	return outs, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Status:          string(o.Status),
		PaymentMethod:   string(o.PaymentMethod),
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
