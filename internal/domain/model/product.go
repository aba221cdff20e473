package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductType string

const (
	ProductTypeOil      ProductType = "oil"
	ProductTypeAcrylic  ProductType = "acrylic"
	ProductTypeCanvas   ProductType = "canvas"
	ProductTypeBrush    ProductType = "brush"
	ProductTypeOriginal ProductType = "original"
	ProductTypeReplica  ProductType = "replica"
	ProductTypeSupply   ProductType = "supply"
)

func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeOil, ProductTypeAcrylic, ProductTypeCanvas, ProductTypeBrush,
		ProductTypeOriginal, ProductTypeReplica, ProductTypeSupply:
		return true
	}
	return false
}

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Stock       int64           `gorm:"not null;default:0" json:"stock"`
	Type        ProductType     `gorm:"type:varchar(20);not null;index" json:"type"`
	CategoryID  *int64          `gorm:"index" json:"category_id"`
	ArtistID    *int64          `gorm:"index" json:"artist_id"`
	ImageURL    string          `gorm:"type:varchar(500)" json:"image_url"`
	Featured    bool            `gorm:"not null;default:false" json:"featured"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// 公開中かつ未削除なら購入できる
func (p Product) Available() bool {
	return p.IsActive && !p.DeletedAt.Valid
}
