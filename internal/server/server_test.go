package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"artstore/internal/config"
	"artstore/internal/domain/model"
	"artstore/internal/infra/db"
	"artstore/internal/notifier"
	"artstore/internal/repository"
	"artstore/internal/server"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
)

// =====================
// Helper
// =====================

type testApp struct {
	e     *echo.Echo
	users repository.UserRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := db.Open(sqlite.Open(dsn), true)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := config.Config{
		GoEnv:          "test",
		JWTSecret:      "test-secret",
		AccessTokenTTL: 15 * time.Minute,
		TaxRatePercent: decimal.NewFromInt(16),
	}
	h, users := server.Wire(cfg, gormDB, notifier.NewLogNotifier(), bcrypt.MinCost)
	return &testApp{e: server.New(cfg, users, h), users: users}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// 登録してログインし、ユーザーIDとトークンを返す
func (a *testApp) signup(t *testing.T, username string) (int64, string) {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "Secreto2026",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    username + "@example.com",
		"password": "Secreto2026",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode[struct {
		User  model.User `json:"user"`
		Token struct {
			AccessToken string `json:"access_token"`
		} `json:"token"`
	}](t, rec)
	return out.User.ID, out.Token.AccessToken
}

type cartBody struct {
	Items []struct {
		ID        int64 `json:"id"`
		ProductID int64 `json:"product_id"`
		Quantity  int64 `json:"quantity"`
		Available bool  `json:"available"`
	} `json:"items"`
	ItemCount    int64           `json:"item_count"`
	Total        decimal.Decimal `json:"total"`
	Tax          decimal.Decimal `json:"tax"`
	TotalWithTax decimal.Decimal `json:"total_with_tax"`
}

type orderBody struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	Items       []struct {
		Name      string          `json:"name"`
		UnitPrice decimal.Decimal `json:"unit_price"`
		Quantity  int64           `json:"quantity"`
	} `json:"items"`
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// =====================
// Tests
// =====================

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuth_RegisterConflictAndBadLogin(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "ana")

	rec := app.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "otra",
		"email":    "ANA@example.com",
		"password": "Secreto2026",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "Incorrecto1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "corto",
		"email":    "corto@example.com",
		"password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// カタログ作成からチェックアウト、キャンセルで在庫が戻るまで
func TestCheckoutFlow(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	adminID, adminToken := app.signup(t, "admin")
	require.NoError(t, app.users.UpdateRole(ctx, adminID, model.RoleAdmin))
	_, token := app.signup(t, "ana")

	// 未ログイン・権限なし
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/cart", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, app.do(t, http.MethodGet, "/admin/orders", token, nil).Code)

	// カテゴリと商品
	rec := app.do(t, http.MethodPost, "/admin/categories", adminToken, map[string]string{"name": "Óleos"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cat := decode[model.Category](t, rec)
	assert.Equal(t, "oleos", cat.Slug)

	rec = app.do(t, http.MethodPost, "/admin/products", adminToken, map[string]any{
		"name":        "Óleo azul ultramar",
		"price":       "100.00",
		"stock":       3,
		"type":        "oil",
		"category_id": cat.ID,
		"is_active":   true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[model.Product](t, rec)

	rec = app.do(t, http.MethodGet, "/products?category=oleos", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Total int64 `json:"total"`
	}](t, rec)
	assert.Equal(t, int64(1), list.Total)

	// カート（在庫超えは400）
	rec = app.do(t, http.MethodPost, "/cart", token, map[string]int64{"product_id": product.ID, "quantity": 4})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/cart", token, map[string]int64{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart := decode[cartBody](t, rec)
	assert.Equal(t, int64(2), cart.ItemCount)
	assert.True(t, cart.TotalWithTax.Equal(d("232.00")), cart.TotalWithTax.String())

	// 価格を変えるとカートは現在価格で計算し直す
	rec = app.do(t, http.MethodPut, fmt.Sprintf("/admin/products/%d", product.ID), adminToken, map[string]any{
		"name":        "Óleo azul ultramar",
		"price":       "110.00",
		"type":        "oil",
		"category_id": cat.ID,
		"is_active":   true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cart = decode[cartBody](t, app.do(t, http.MethodGet, "/cart", token, nil))
	assert.True(t, cart.Total.Equal(d("220.00")), cart.Total.String())

	// 注文確定
	rec = app.do(t, http.MethodPost, "/orders", token, map[string]string{
		"payment_method":   "credit_card",
		"shipping_address": "Calle 1, CDMX",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[orderBody](t, rec)
	assert.Equal(t, "pending", order.Status)
	assert.Len(t, order.OrderNumber, 10)
	assert.True(t, order.Subtotal.Equal(d("220.00")))
	assert.True(t, order.Tax.Equal(d("35.20")))
	assert.True(t, order.Total.Equal(d("255.20")))
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].UnitPrice.Equal(d("110.00")))

	// カートは空、在庫は減っている
	cart = decode[cartBody](t, app.do(t, http.MethodGet, "/cart", token, nil))
	assert.Empty(t, cart.Items)
	p := decode[model.Product](t, app.do(t, http.MethodGet, fmt.Sprintf("/products/%d", product.ID), "", nil))
	assert.Equal(t, int64(1), p.Stock)

	// 空カートでの注文は400
	rec = app.do(t, http.MethodPost, "/orders", token, map[string]string{"payment_method": "cash", "shipping_address": "Calle 1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 後から価格を変えても注文の金額は変わらない
	rec = app.do(t, http.MethodPut, fmt.Sprintf("/admin/products/%d", product.ID), adminToken, map[string]any{
		"name": "Óleo azul ultramar", "price": "999.00", "type": "oil", "is_active": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[orderBody](t, app.do(t, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), token, nil))
	assert.True(t, got.Total.Equal(d("255.20")))

	// 飛ばし遷移は409
	rec = app.do(t, http.MethodPut, fmt.Sprintf("/admin/orders/%d/status", order.ID), adminToken, map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// 本人がキャンセルすると在庫が戻る
	rec = app.do(t, http.MethodPost, fmt.Sprintf("/orders/%d/cancel", order.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cancelled", decode[orderBody](t, rec).Status)

	p = decode[model.Product](t, app.do(t, http.MethodGet, fmt.Sprintf("/products/%d", product.ID), "", nil))
	assert.Equal(t, int64(3), p.Stock)

	// 終端からは動かない
	rec = app.do(t, http.MethodPut, fmt.Sprintf("/admin/orders/%d/status", order.ID), adminToken, map[string]string{"status": "processing"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// 監査ログに残っている
	rec = app.do(t, http.MethodGet, "/admin/audit-logs?action=UPDATE_ORDER_STATUS", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `{\"status\":\"cancelled\"}`)
}

func (a *testApp) createProduct(t *testing.T, adminToken, name, price string, stock int64) model.Product {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/admin/products", adminToken, map[string]any{
		"name": name, "price": price, "stock": stock, "type": "supply", "is_active": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.Product](t, rec)
}

// 非公開・削除された商品の明細もカートに見えて合計に入り、消せば注文できる
func TestCart_UnavailableLinesStayVisible(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	adminID, adminToken := app.signup(t, "admin")
	require.NoError(t, app.users.UpdateRole(ctx, adminID, model.RoleAdmin))
	_, token := app.signup(t, "ana")

	a := app.createProduct(t, adminToken, "Pincel", "10.00", 5)
	b := app.createProduct(t, adminToken, "Lienzo", "5.00", 5)
	c := app.createProduct(t, adminToken, "Barniz", "4.00", 5)
	for _, in := range []struct{ id, qty int64 }{{a.ID, 2}, {b.ID, 1}, {c.ID, 1}} {
		rec := app.do(t, http.MethodPost, "/cart", token, map[string]int64{"product_id": in.id, "quantity": in.qty})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := app.do(t, http.MethodPut, fmt.Sprintf("/admin/products/%d", b.ID), adminToken, map[string]any{
		"name": "Lienzo", "price": "5.00", "type": "supply", "is_active": false,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = app.do(t, http.MethodDelete, fmt.Sprintf("/admin/products/%d", c.ID), adminToken, nil)
	require.Less(t, rec.Code, 300, rec.Body.String())

	cart := decode[cartBody](t, app.do(t, http.MethodGet, "/cart", token, nil))
	require.Len(t, cart.Items, 3)
	assert.Equal(t, int64(4), cart.ItemCount)
	assert.True(t, cart.Total.Equal(d("29.00")), cart.Total.String())

	summary := decode[struct {
		ItemCount int64           `json:"item_count"`
		Total     decimal.Decimal `json:"total"`
	}](t, app.do(t, http.MethodGet, "/cart/summary", token, nil))
	assert.Equal(t, int64(4), summary.ItemCount)
	assert.True(t, summary.Total.Equal(d("29.00")))

	// 残ったままでは確定できない
	rec = app.do(t, http.MethodPost, "/orders", token, map[string]string{"payment_method": "cash", "shipping_address": "Calle 1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")

	// 見えているidで消せる
	for _, it := range cart.Items {
		if it.ProductID == a.ID {
			assert.True(t, it.Available)
			continue
		}
		assert.False(t, it.Available)
		rec = app.do(t, http.MethodDelete, fmt.Sprintf("/cart/%d", it.ID), token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = app.do(t, http.MethodPost, "/orders", token, map[string]string{"payment_method": "cash", "shipping_address": "Calle 1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[orderBody](t, rec)
	assert.True(t, order.Subtotal.Equal(d("20.00")))
	assert.True(t, order.Total.Equal(d("23.20")))
}

// 巨大な数量は400で、カートは壊れない
func TestCart_HugeQuantityRejected(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	adminID, adminToken := app.signup(t, "admin")
	require.NoError(t, app.users.UpdateRole(ctx, adminID, model.RoleAdmin))
	_, token := app.signup(t, "ana")
	p := app.createProduct(t, adminToken, "Pincel", "10.00", 5)

	rec := app.do(t, http.MethodPost, "/cart", token, map[string]int64{"product_id": p.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/cart", token, map[string]int64{"product_id": p.ID, "quantity": math.MaxInt64})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	cart := decode[cartBody](t, app.do(t, http.MethodGet, "/cart", token, nil))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(1), cart.ItemCount)

	rec = app.do(t, http.MethodPatch, fmt.Sprintf("/cart/%d", cart.Items[0].ID), token, map[string]int64{"quantity": math.MaxInt64})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestForceLogout_InvalidatesOldToken(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	adminID, adminToken := app.signup(t, "admin")
	require.NoError(t, app.users.UpdateRole(ctx, adminID, model.RoleAdmin))
	userID, token := app.signup(t, "ana")

	require.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/me/profile", token, nil).Code)

	rec := app.do(t, http.MethodPost, fmt.Sprintf("/admin/users/%d/force-logout", userID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/me/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// 再ログインすれば使える
	rec = app.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "Secreto2026"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"token_version":1`))
}

// 作家は指名された依頼だけを進められる
func TestCommissionFlow(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	adminID, adminToken := app.signup(t, "admin")
	require.NoError(t, app.users.UpdateRole(ctx, adminID, model.RoleAdmin))
	artistUserID, artistToken := app.signup(t, "frida")
	_, clientToken := app.signup(t, "cliente")

	// 作家になる前は403
	assert.Equal(t, http.StatusForbidden, app.do(t, http.MethodGet, "/artist/commissions", artistToken, nil).Code)

	rec := app.do(t, http.MethodPost, "/admin/artists", adminToken, map[string]any{
		"user_id": artistUserID, "name": "Frida", "active": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	artist := decode[model.Artist](t, rec)

	rec = app.do(t, http.MethodPost, "/commissions", clientToken, map[string]any{
		"work_type":           "portrait",
		"description":         "Retrato de mi abuela",
		"preferred_artist_id": artist.ID,
		"max_budget":          "4500.50",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	commission := decode[model.CommissionRequest](t, rec)
	assert.Equal(t, model.CommissionPending, commission.Status)

	rec = app.do(t, http.MethodGet, "/artist/commissions", artistToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1), decode[struct {
		Total int64 `json:"total"`
	}](t, rec).Total)

	path := fmt.Sprintf("/artist/commissions/%d/status", commission.ID)
	assert.Equal(t, http.StatusConflict, app.do(t, http.MethodPut, path, artistToken, map[string]string{"status": "completed"}).Code)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodPut, path, artistToken, map[string]string{"status": "in_progress"}).Code)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodPut, path, artistToken, map[string]string{"status": "completed"}).Code)

	// 完了後は依頼者もキャンセルできない
	rec = app.do(t, http.MethodPost, fmt.Sprintf("/commissions/%d/cancel", commission.ID), clientToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
