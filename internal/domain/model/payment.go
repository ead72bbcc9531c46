package model

import "time"

type PaymentMethod string

const (
	PaymentMethodCOD   PaymentMethod = "COD"
	PaymentMethodVNPay PaymentMethod = "VNPAY"
)

// 支払い試行ログ。ゲートウェイ決済は試行ごとに1行増え、
// 最新（PaymentTimeが最大）の行を表示用の正とする。
type Payment struct {
	ID      int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64         `gorm:"not null;index" json:"order_id"`
	Method  PaymentMethod `gorm:"type:varchar(20);not null" json:"method"`
	Status  PaymentStatus `gorm:"type:varchar(20);not null" json:"status"`

	//ゲートウェイへ渡す試行参照（uuid）
	TxnRef string `gorm:"type:varchar(64);index" json:"txn_ref"`

	PaymentTime time.Time `gorm:"not null;index" json:"payment_time"`
}
