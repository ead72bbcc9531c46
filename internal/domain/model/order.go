package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipping  OrderStatus = "SHIPPING"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "UNPAID"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// 注文ステータスの遷移表。
// PENDING → CONFIRMED / CANCELLED
// CONFIRMED → SHIPPING / CANCELLED
// SHIPPING → DELIVERED
// DELIVERED / CANCELLED は終端。
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipping, OrderStatusCancelled},
	OrderStatusShipping:  {OrderStatusDelivered},
}

// CanTransition は from→to が許される遷移かを返す。
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidOrderStatus は管理APIで受け付けるステータス値か。
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// 注文ヘッダ。明細と同一トランザクションで作成され、
// 作成後はステータス系以外は不変。
// 常に TotalAmount = Subtotal - DiscountAmount + TaxFee + ShippingFee。
type Order struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64 `gorm:"not null;index" json:"user_id"`
	AddressID int64 `gorm:"not null" json:"address_id"`

	//適用した販促（任意）
	PromotionID *int64 `gorm:"index" json:"promotion_id,omitempty"`

	Status        OrderStatus   `gorm:"column:order_status;type:varchar(20);not null;index" json:"order_status"`
	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:varchar(20);not null;index" json:"payment_status"`

	Subtotal       int64 `gorm:"not null" json:"subtotal"`
	DiscountAmount int64 `gorm:"not null" json:"discount_amount"`
	TaxFee         int64 `gorm:"not null" json:"tax_fee"`
	ShippingFee    int64 `gorm:"not null" json:"shipping_fee"`
	TotalAmount    int64 `gorm:"not null" json:"total_amount"`

	Note string `gorm:"type:varchar(500)" json:"note"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
