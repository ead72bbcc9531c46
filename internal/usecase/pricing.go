package usecase

import (
	"net/http"
	"time"

	"fastfood/internal/domain/model"
)

// 見積もり済みのカート1行。単価は見積もり時点でカタログから
// 読んだ値で、クライアントから受け取らない。
type PricedLine struct {
	ProductID   int64
	CategoryID  int64
	ProductName string
	Quantity    int64
	UnitPrice   int64
}

type Totals struct {
	Subtotal       int64 `json:"subtotal"`
	DiscountAmount int64 `json:"discount_amount"`
	TaxFee         int64 `json:"tax_fee"`
	ShippingFee    int64 `json:"shipping_fee"`
	TotalAmount    int64 `json:"total_amount"`
}

// ComputeOrderTotals は金額を計算する純粋関数。
// 割引は販促の適用範囲に入る行の小計だけを母数にし、
// 小計を超えないように丸める。
// 常に TotalAmount = Subtotal - DiscountAmount + TaxFee + ShippingFee。
func ComputeOrderTotals(lines []PricedLine, promo *model.Promotion, now time.Time, taxFee, shippingFee int64) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	var subtotal int64
	var discountBase int64

	for _, l := range lines {
		if l.Quantity <= 0 {
			return Totals{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		lineTotal := l.UnitPrice * l.Quantity
		subtotal += lineTotal

		if promo != nil && promo.AppliesTo(l.ProductID, l.CategoryID, now) {
			discountBase += lineTotal
		}
	}

	var discount int64
	if promo != nil && discountBase > 0 {
		discount = discountBase * promo.DiscountPercent / 100
	}
	//割引は小計を超えない
	if discount > subtotal {
		discount = subtotal
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxFee:         taxFee,
		ShippingFee:    shippingFee,
		TotalAmount:    subtotal - discount + taxFee + shippingFee,
	}, nil
}
