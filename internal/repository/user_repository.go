package repository

import (
	"context"

	"fastfood/internal/domain/model"
)

// プロフィール更新の入力。nilの項目は変更しない。
type UserProfilePatch struct {
	Fullname *string
	Email    *string
	Phone    *string
	Birthday *string
	Image    *string
}

type UserRepository interface {
	FindByID(ctx context.Context, userID int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, user model.User) (model.User, error)
	UpdateProfile(ctx context.Context, userID int64, patch UserProfilePatch) error
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
}
