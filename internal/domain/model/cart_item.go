package model

import "time"

// カートの明細。ユーザー直下に持つ（1ユーザー=1カート）。
// 同一商品を二度追加した場合は数量を加算する。
type CartItem struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64  `gorm:"not null;index" json:"user_id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`
	Quantity  int64  `gorm:"not null" json:"quantity"`
	Note      string `gorm:"type:varchar(500)" json:"note"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
