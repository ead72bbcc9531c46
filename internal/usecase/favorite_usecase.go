package usecase

import (
	"context"
	"errors"
	"net/http"

	"fastfood/internal/domain/model"
	repo "fastfood/internal/repository"
)

type FavoriteUsecase struct {
	favorites repo.FavoriteRepository
	products  repo.ProductRepository
}

// DI
func NewFavoriteUsecase(favorites repo.FavoriteRepository, products repo.ProductRepository) *FavoriteUsecase {
	return &FavoriteUsecase{favorites: favorites, products: products}
}

type FavoriteAddResult struct {
	//既にお気に入り済みだった場合 true
	Already bool   `json:"already"`
	Message string `json:"message"`
}

// Add は冪等。二重追加はエラーにせず「追加済み」を返す。
func (u *FavoriteUsecase) Add(ctx context.Context, userID, productID int64) (FavoriteAddResult, error) {
	if userID <= 0 {
		return FavoriteAddResult{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return FavoriteAddResult{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	if _, err := u.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return FavoriteAddResult{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return FavoriteAddResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	already, err := u.favorites.Add(ctx, userID, productID)
	if err != nil {
		return FavoriteAddResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	msg := "added to favorites"
	if already {
		msg = "already in favorites"
	}
	return FavoriteAddResult{Already: already, Message: msg}, nil
}

func (u *FavoriteUsecase) Remove(ctx context.Context, userID, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if err := u.favorites.Remove(ctx, userID, productID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *FavoriteUsecase) List(ctx context.Context, userID int64) ([]model.Product, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	items, err := u.favorites.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *FavoriteUsecase) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	if userID <= 0 {
		return false, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return false, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	ok, err := u.favorites.Exists(ctx, userID, productID)
	if err != nil {
		return false, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ok, nil
}
