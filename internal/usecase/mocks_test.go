package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"artstore/internal/domain/model"
	"artstore/internal/notifier"
	repo "artstore/internal/repository"
	"artstore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

// 使わないrepoはnilのまま
type TxReposMock struct {
	users       repo.UserRepository
	profiles    repo.ProfileRepository
	artists     repo.ArtistRepository
	orders      repo.OrderRepository
	orderItems  repo.OrderItemRepository
	carts       repo.CartRepository
	cartItems   repo.CartItemRepository
	inventory   repo.InventoryRepository
	products    repo.ProductRepository
	commissions repo.CommissionRepository
	auditLogs   repo.AuditLogRepository
}

func (r *TxReposMock) Users() repo.UserRepository             { return r.users }
func (r *TxReposMock) Profiles() repo.ProfileRepository       { return r.profiles }
func (r *TxReposMock) Artists() repo.ArtistRepository         { return r.artists }
func (r *TxReposMock) Orders() repo.OrderRepository           { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository   { return r.orderItems }
func (r *TxReposMock) Carts() repo.CartRepository             { return r.carts }
func (r *TxReposMock) CartItems() repo.CartItemRepository     { return r.cartItems }
func (r *TxReposMock) Inventory() repo.InventoryRepository    { return r.inventory }
func (r *TxReposMock) Products() repo.ProductRepository       { return r.products }
func (r *TxReposMock) Commissions() repo.CommissionRepository { return r.commissions }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository     { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) UpdateRole(ctx context.Context, userID int64, role model.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type ProfileRepoMock struct{ mock.Mock }

func (m *ProfileRepoMock) Create(ctx context.Context, p model.UserProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProfileRepoMock) FindByUserID(ctx context.Context, userID int64) (model.UserProfile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(model.UserProfile)
	return p, args.Error(1)
}

func (m *ProfileRepoMock) Update(ctx context.Context, p model.UserProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type ArtistRepoMock struct{ mock.Mock }

func (m *ArtistRepoMock) ListActive(ctx context.Context) ([]model.Artist, error) {
	args := m.Called(ctx)
	a, _ := args.Get(0).([]model.Artist)
	return a, args.Error(1)
}

func (m *ArtistRepoMock) FindByID(ctx context.Context, id int64) (model.Artist, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(model.Artist)
	return a, args.Error(1)
}

func (m *ArtistRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Artist, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).(model.Artist)
	return a, args.Error(1)
}

func (m *ArtistRepoMock) Create(ctx context.Context, a model.Artist) (model.Artist, error) {
	args := m.Called(ctx, a)
	out, _ := args.Get(0).(model.Artist)
	return out, args.Error(1)
}

func (m *ArtistRepoMock) Update(ctx context.Context, a model.Artist) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) FindBySlug(ctx context.Context, slug string) (model.Category, error) {
	args := m.Called(ctx, slug)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Category)
	return out, args.Error(1)
}

func (m *CategoryRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	args := m.Called(ctx, ids)
	p, _ := args.Get(0).(map[int64]model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserIDForUpdate(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartID, productID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error {
	args := m.Called(ctx, cartID, productID, addQty)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStockWithAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	args := m.Called(ctx, adj)
	return args.Error(0)
}

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus) error {
	args := m.Called(ctx, orderID, from, to)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type CommissionRepoMock struct{ mock.Mock }

func (m *CommissionRepoMock) Create(ctx context.Context, c model.CommissionRequest) (model.CommissionRequest, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.CommissionRequest)
	return out, args.Error(1)
}

func (m *CommissionRepoMock) FindByID(ctx context.Context, id int64) (model.CommissionRequest, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(model.CommissionRequest)
	return out, args.Error(1)
}

func (m *CommissionRepoMock) List(ctx context.Context, f repo.CommissionListFilter) ([]model.CommissionRequest, int64, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).([]model.CommissionRequest)
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *CommissionRepoMock) UpdateStatus(ctx context.Context, id int64, from model.CommissionStatus, to model.CommissionStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// その他の依存
// =====================

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) OrderPlaced(ctx context.Context, n notifier.OrderPlaced) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotifierMock) CommissionUpdated(ctx context.Context, n notifier.CommissionUpdated) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// 決まった番号を順番に返す
type fixedNumbers struct {
	numbers []string
	i       int
}

func (f *fixedNumbers) NewOrderNumber() string {
	n := f.numbers[f.i%len(f.numbers)]
	f.i++
	return n
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var (
	_ repo.TransactionManager      = (*TxManagerMock)(nil)
	_ repo.TxRepos                 = (*TxReposMock)(nil)
	_ repo.UserRepository          = (*UserRepoMock)(nil)
	_ repo.ProfileRepository       = (*ProfileRepoMock)(nil)
	_ repo.ArtistRepository        = (*ArtistRepoMock)(nil)
	_ repo.CategoryRepository      = (*CategoryRepoMock)(nil)
	_ repo.ProductRepository       = (*ProductRepoMock)(nil)
	_ repo.CartRepository          = (*CartRepoMock)(nil)
	_ repo.CartItemRepository      = (*CartItemRepoMock)(nil)
	_ repo.InventoryRepository     = (*InventoryRepoMock)(nil)
	_ repo.OrderRepository         = (*OrderRepoMock)(nil)
	_ repo.OrderItemRepository     = (*OrderItemRepoMock)(nil)
	_ repo.CommissionRepository    = (*CommissionRepoMock)(nil)
	_ repo.AuditLogRepository      = (*AuditRepoMock)(nil)
	_ notifier.Notifier            = (*NotifierMock)(nil)
	_ usecase.OrderNumberGenerator = (*fixedNumbers)(nil)
	_ usecase.Clock                = fixedClock{}
)

// =====================
// Helper
// =====================

// HTTPErrorの中身を見る
func assertHTTPError(t *testing.T, err error, status int, wantSubstr string) {
	t.Helper()
	if !assert.Error(t, err) {
		return
	}
	he, ok := usecase.AsHTTPError(err)
	if !assert.True(t, ok, "not an HTTPError: %v", err) {
		return
	}
	assert.Equal(t, status, he.Status)
	assert.True(t, strings.Contains(he.Message, wantSubstr), "message=%q want contains %q", he.Message, wantSubstr)
}
