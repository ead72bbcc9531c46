package repository

import (
	"context"

	"fastfood/internal/domain/model"
)

// 公開カタログの絞り込み条件。nil/空は条件なし。
type ProductFilter struct {
	CategoryID *int64
	MinPrice   *int64
	MaxPrice   *int64
	MinRating  *float64
	Keyword    string
}

// 管理画面の絞り込み条件。
type AdminProductFilter struct {
	IsActive   *bool
	CategoryID *int64
}

// 商品の部分更新。nilの項目は変更しない。
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *int64
	CategoryID  *int64
	IsActive    *bool
	ImageURL    *string
}

type ProductRepository interface {
	//公開中（IsActive）の商品のみ、新しい順
	ListActive(ctx context.Context, f ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, productID int64) (model.Product, error)

	//管理用（非公開も含む）
	ListAdmin(ctx context.Context, f AdminProductFilter) ([]model.Product, error)
	Update(ctx context.Context, productID int64, patch ProductPatch) error
}
