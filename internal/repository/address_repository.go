package repository

import (
	"context"

	"fastfood/internal/domain/model"
)

type AddressRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.Address, error)
	FindByID(ctx context.Context, addressID int64) (model.Address, error)
	Create(ctx context.Context, address model.Address) (model.Address, error)
	Delete(ctx context.Context, addressID int64) error
	IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error)

	//デフォルト住所の切り替え（既存defaultの解除と同一Txで行う）
	SetDefault(ctx context.Context, userID, addressID int64) error
}
