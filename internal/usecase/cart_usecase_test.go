package usecase

import (
	"context"
	"net/http"
	"testing"

	"fastfood/internal/domain/model"
	repo "fastfood/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartUsecaseForTest() (*CartUsecase, *cartItemRepoMock, *productRepoMock) {
	carts := new(cartItemRepoMock)
	products := new(productRepoMock)
	return NewCartUsecase(carts, products), carts, products
}

func TestAddToCart_NewProductCreatesRow(t *testing.T) {
	uc, carts, products := newCartUsecaseForTest()
	ctx := context.Background()

	products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, Name: "Burger", Price: 50000, IsActive: true}, nil)
	carts.On("FindByUserAndProduct", mock.Anything, int64(9), int64(101)).
		Return(model.CartItem{}, repo.ErrNotFound)
	carts.On("Create", mock.Anything, mock.MatchedBy(func(it model.CartItem) bool {
		return it.UserID == 9 && it.ProductID == 101 && it.Quantity == 2
	})).Return(model.CartItem{ID: 1, UserID: 9, ProductID: 101, Quantity: 2}, nil)
	carts.On("ListByUserID", mock.Anything, int64(9)).
		Return([]model.CartItem{{ID: 1, UserID: 9, ProductID: 101, Quantity: 2}}, nil)

	out, err := uc.AddToCart(ctx, 9, AddCartInput{ProductID: 101, Quantity: 2})

	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(100000), out.Total)
	carts.AssertExpectations(t)
}

func TestAddToCart_ExistingProductMergesQuantity(t *testing.T) {
	uc, carts, products := newCartUsecaseForTest()
	ctx := context.Background()

	products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, Name: "Burger", Price: 50000, IsActive: true}, nil)
	carts.On("FindByUserAndProduct", mock.Anything, int64(9), int64(101)).
		Return(model.CartItem{ID: 1, UserID: 9, ProductID: 101, Quantity: 2, Note: "no pickles"}, nil)
	//2 + 3 = 5、メモは申告が無ければ維持
	carts.On("UpdateQuantityNote", mock.Anything, int64(1), int64(5), "no pickles").Return(nil)
	carts.On("ListByUserID", mock.Anything, int64(9)).
		Return([]model.CartItem{{ID: 1, UserID: 9, ProductID: 101, Quantity: 5, Note: "no pickles"}}, nil)

	out, err := uc.AddToCart(ctx, 9, AddCartInput{ProductID: 101, Quantity: 3})

	assert.NoError(t, err)
	assert.Equal(t, int64(250000), out.Total)
	carts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	carts.AssertExpectations(t)
}

func TestAddToCart_InactiveProductRejected(t *testing.T) {
	uc, _, products := newCartUsecaseForTest()

	products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, IsActive: false}, nil)

	_, err := uc.AddToCart(context.Background(), 9, AddCartInput{ProductID: 101, Quantity: 1})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestUpdateItem_ForeignRowTreatedAsMissing(t *testing.T) {
	uc, carts, _ := newCartUsecaseForTest()

	carts.On("IsOwnedByUser", mock.Anything, int64(1), int64(9)).Return(false, nil)

	_, err := uc.UpdateItem(context.Background(), 9, 1, UpdateCartItemInput{Quantity: 2})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	carts.AssertNotCalled(t, "UpdateQuantityNote", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetCart_DropsVanishedProducts(t *testing.T) {
	uc, carts, products := newCartUsecaseForTest()

	carts.On("ListByUserID", mock.Anything, int64(9)).Return([]model.CartItem{
		{ID: 1, UserID: 9, ProductID: 101, Quantity: 1},
		{ID: 2, UserID: 9, ProductID: 999, Quantity: 1},
	}, nil)
	products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, Name: "Burger", Price: 50000, IsActive: true}, nil)
	products.On("FindByID", mock.Anything, int64(999)).
		Return(model.Product{}, repo.ErrNotFound)

	out, err := uc.GetCart(context.Background(), 9)

	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(50000), out.Total)
}
