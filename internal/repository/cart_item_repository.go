package repository

import (
	"context"

	"fastfood/internal/domain/model"
)

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID int64) (model.CartItem, error)
	Create(ctx context.Context, item model.CartItem) (model.CartItem, error)
	UpdateQuantityNote(ctx context.Context, cartItemID, quantity int64, note string) error
	DeleteByID(ctx context.Context, cartItemID int64) error

	//チェックアウト成功時のカートクリア（注文Txの中で呼ぶ）
	DeleteByUserID(ctx context.Context, userID int64) error

	IsOwnedByUser(ctx context.Context, cartItemID, userID int64) (bool, error)
}
