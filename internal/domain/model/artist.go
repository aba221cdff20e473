package model

import "time"

// 作家。ユーザーと1:1
type Artist struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Specialty string    `gorm:"type:varchar(100)" json:"specialty"`
	PhotoURL  string    `gorm:"type:varchar(500)" json:"photo_url"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
