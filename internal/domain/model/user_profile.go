package model

import (
	"strings"
	"time"
)

// ユーザーの拡張プロフィール（1ユーザーにつき1件）
type UserProfile struct {
	UserID int64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`

	Phone      string `gorm:"type:varchar(20)" json:"phone"`
	Address    string `gorm:"type:text" json:"address"`
	City       string `gorm:"type:varchar(100)" json:"city"`
	Country    string `gorm:"type:varchar(100)" json:"country"`
	PostalCode string `gorm:"type:varchar(10)" json:"postal_code"`

	BirthDate *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	AvatarURL string     `gorm:"type:varchar(500)" json:"avatar_url"`

	//通知設定
	NotificationsEnabled bool `gorm:"not null;default:true" json:"notifications_enabled"`
	Newsletter           bool `gorm:"not null;default:false" json:"newsletter"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 配送先として使える住所文字列。住所が未登録なら空
func (p UserProfile) ShippingAddress() string {
	if strings.TrimSpace(p.Address) == "" {
		return ""
	}
	parts := []string{strings.TrimSpace(p.Address)}
	for _, s := range []string{p.City, p.PostalCode, p.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// IsArtist はユーザーに有効なArtistが紐付いているかを返す。
// roleは表示用なので判定には使わない。
func IsArtist(artist *Artist) bool {
	return artist != nil && artist.Active
}
