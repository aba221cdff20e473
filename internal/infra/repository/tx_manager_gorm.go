package repository

import (
	"context"

	repo "artstore/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
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

func (r *txReposGorm) Users() repo.UserRepository             { return r.users }
func (r *txReposGorm) Profiles() repo.ProfileRepository       { return r.profiles }
func (r *txReposGorm) Artists() repo.ArtistRepository         { return r.artists }
func (r *txReposGorm) Orders() repo.OrderRepository           { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository   { return r.orderItems }
func (r *txReposGorm) Carts() repo.CartRepository             { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository     { return r.cartItems }
func (r *txReposGorm) Inventory() repo.InventoryRepository    { return r.inventory }
func (r *txReposGorm) Products() repo.ProductRepository       { return r.products }
func (r *txReposGorm) Commissions() repo.CommissionRepository { return r.commissions }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository     { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			users:       NewUserGormRepository(tx),
			profiles:    NewProfileGormRepository(tx),
			artists:     NewArtistGormRepository(tx),
			orders:      NewOrderGormRepository(tx),
			orderItems:  NewOrderItemGormRepository(tx),
			carts:       NewCartGormRepository(tx),
			cartItems:   NewCartGormRepository(tx),
			inventory:   NewInventoryGormRepository(tx),
			products:    NewProductGormRepository(tx),
			commissions: NewCommissionGormRepository(tx),
			auditLogs:   NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
