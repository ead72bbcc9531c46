package model

import "time"

// 販促。適用範囲は Details（商品またはカテゴリ単位）で持つ。
type Promotion struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	DiscountPercent int64     `gorm:"not null" json:"discount_percent"`
	StartDate       time.Time `gorm:"not null" json:"start_date"`
	EndDate         time.Time `gorm:"not null;index" json:"end_date"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`

	Details []PromotionDetail `gorm:"foreignKey:PromotionID" json:"details,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 販促の適用範囲1件。ProductID か CategoryID のどちらかを持つ。
type PromotionDetail struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	PromotionID int64  `gorm:"not null;index" json:"promotion_id"`
	ProductID   *int64 `gorm:"index" json:"product_id,omitempty"`
	CategoryID  *int64 `gorm:"index" json:"category_id,omitempty"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`
}

// WithinWindow は now が有効期間内かつ有効フラグONかを返す。
func (p Promotion) WithinWindow(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// AppliesTo は商品（またはそのカテゴリ）が適用範囲に入るかを返す。
// 有効期間のチェックは含む。
func (p Promotion) AppliesTo(productID, categoryID int64, now time.Time) bool {
	if !p.WithinWindow(now) {
		return false
	}
	for _, d := range p.Details {
		if !d.IsActive {
			continue
		}
		if d.ProductID != nil && *d.ProductID == productID {
			return true
		}
		if d.CategoryID != nil && *d.CategoryID == categoryID {
			return true
		}
	}
	return false
}
