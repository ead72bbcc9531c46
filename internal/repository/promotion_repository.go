package repository

import (
	"context"
	"time"

	"fastfood/internal/domain/model"
)

type PromotionRepository interface {
	//有効期間内かつ有効フラグONの販促（Details込み）、終了日の近い順
	ListActive(ctx context.Context, now time.Time) ([]model.Promotion, error)
	FindByID(ctx context.Context, promotionID int64) (model.Promotion, error)

	//販促の適用範囲に入る公開中の商品一覧
	ListProducts(ctx context.Context, promotionID int64, now time.Time) ([]model.Product, error)
}
