package repository

import (
	"context"

	"fastfood/internal/domain/model"
)

type FavoriteRepository interface {
	//既にお気に入り済みなら already=true（エラーにしない）
	Add(ctx context.Context, userID, productID int64) (already bool, err error)
	Exists(ctx context.Context, userID, productID int64) (bool, error)
	Remove(ctx context.Context, userID, productID int64) error
	ListByUserID(ctx context.Context, userID int64) ([]model.Product, error)
}
