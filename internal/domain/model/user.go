package model

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleArtist   Role = "artist"
	RoleAdmin    Role = "admin"
)

// Valid は定義済みのロールかどうか
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleArtist, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	FirstName    string     `gorm:"type:varchar(30)" json:"first_name"`
	LastName     string     `gorm:"type:varchar(30)" json:"last_name"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	TokenVersion int        `gorm:"not null;default:0" json:"token_version"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// 姓名が空ならusernameを返す
func (u User) FullName() string {
	full := u.FirstName
	if u.LastName != "" {
		if full != "" {
			full += " "
		}
		full += u.LastName
	}
	if full == "" {
		return u.Username
	}
	return full
}
