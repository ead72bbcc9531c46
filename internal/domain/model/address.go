package model

import "time"

// 配送先住所
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	//宛名
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	//番地・通り
	Street string `gorm:"type:varchar(255);not null" json:"street"`

	//区
	District string `gorm:"type:varchar(255);not null" json:"district"`

	//市
	City string `gorm:"type:varchar(255);not null" json:"city"`

	//このユーザーのデフォルト住所か（1ユーザーにつき1件）
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
