package usecase

import (
	"context"
	"errors"
	"net/http"

	"fastfood/internal/domain/model"
	repo "fastfood/internal/repository"
)

type ProductUsecase struct {
	products   repo.ProductRepository
	categories repo.CategoryRepository
}

// DI
func NewProductUsecase(products repo.ProductRepository, categories repo.CategoryRepository) *ProductUsecase {
	return &ProductUsecase{products: products, categories: categories}
}

// List は公開カタログの一覧。絞り込みはすべて任意。
func (u *ProductUsecase) List(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid price range")
	}
	items, err := u.products.ListActive(ctx, f)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// Get は公開中の商品だけ返す。非公開は「存在しない扱い」。
func (u *ProductUsecase) Get(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	return p, nil
}

func (u *ProductUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	items, err := u.categories.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}
