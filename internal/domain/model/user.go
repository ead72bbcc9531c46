package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Fullname     string `gorm:"type:varchar(255);not null" json:"fullname"`
	Email        string `gorm:"type:varchar(255);index" json:"email"`
	Phone        string `gorm:"type:varchar(20)" json:"phone"`

	//誕生日（任意）
	Birthday *time.Time `json:"birthday,omitempty"`

	//プロフィール画像（base64のdata URL）
	Image string `gorm:"type:text" json:"image,omitempty"`

	Role     Role `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
