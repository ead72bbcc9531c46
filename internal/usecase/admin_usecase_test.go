package usecase

import (
	"context"
	"net/http"
	"testing"

	"fastfood/internal/domain/model"
	repo "fastfood/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type adminUCMocks struct {
	orders   *orderRepoMock
	lines    *orderLineRepoMock
	payments *paymentRepoMock
	products *productRepoMock
	users    *userRepoMock
	audits   *auditLogRepoMock
}

func newAdminUsecaseForTest() (*AdminUsecase, *adminUCMocks) {
	m := &adminUCMocks{
		orders:   new(orderRepoMock),
		lines:    new(orderLineRepoMock),
		payments: new(paymentRepoMock),
		products: new(productRepoMock),
		users:    new(userRepoMock),
		audits:   new(auditLogRepoMock),
	}
	uc := NewAdminUsecase(m.orders, m.lines, m.payments, m.products, m.users, m.audits, zap.NewNop())
	return uc, m
}

func TestUpdateOrderStatus_AllowedTransitionWritesAudit(t *testing.T) {
	uc, m := newAdminUsecaseForTest()

	m.orders.On("FindByID", mock.Anything, int64(555)).
		Return(model.Order{ID: 555, Status: model.OrderStatusPending}, nil)
	m.orders.On("UpdateStatusIf", mock.Anything, int64(555),
		model.OrderStatusPending, model.OrderStatusConfirmed).Return(true, nil)
	m.audits.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == 1 &&
			l.Action == model.AuditActionUpdateOrderStatus &&
			l.ResourceType == model.AuditResourceOrder &&
			l.ResourceID == 555
	})).Return(nil)

	err := uc.UpdateOrderStatus(context.Background(), 1, 555, model.OrderStatusConfirmed)

	assert.NoError(t, err)
	m.orders.AssertExpectations(t)
	m.audits.AssertExpectations(t)
}

func TestUpdateOrderStatus_DisallowedTransitionRejected(t *testing.T) {
	uc, m := newAdminUsecaseForTest()

	//PENDING→DELIVERED は遷移表にない
	m.orders.On("FindByID", mock.Anything, int64(555)).
		Return(model.Order{ID: 555, Status: model.OrderStatusPending}, nil)

	err := uc.UpdateOrderStatus(context.Background(), 1, 555, model.OrderStatusDelivered)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	m.orders.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.audits.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_ConcurrentChangeLosesSafely(t *testing.T) {
	uc, m := newAdminUsecaseForTest()

	m.orders.On("FindByID", mock.Anything, int64(555)).
		Return(model.Order{ID: 555, Status: model.OrderStatusPending}, nil)
	//読んだ後に別の遷移が勝った
	m.orders.On("UpdateStatusIf", mock.Anything, int64(555),
		model.OrderStatusPending, model.OrderStatusConfirmed).Return(false, nil)

	err := uc.UpdateOrderStatus(context.Background(), 1, 555, model.OrderStatusConfirmed)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	m.audits.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_UnknownStatusRejected(t *testing.T) {
	uc, m := newAdminUsecaseForTest()

	err := uc.UpdateOrderStatus(context.Background(), 1, 555, "SHIPPED")

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	m.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestUpdateProduct_WritesBeforeAfterAudit(t *testing.T) {
	uc, m := newAdminUsecaseForTest()

	newPrice := int64(60000)
	m.products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, Name: "Burger", Price: 50000, IsActive: true}, nil).Once()
	m.products.On("Update", mock.Anything, int64(101), mock.Anything).Return(nil)
	m.products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, Name: "Burger", Price: 60000, IsActive: true}, nil).Once()
	m.audits.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateProduct && l.ResourceID == 101 &&
			l.BeforeJSON != "" && l.AfterJSON != "" && l.BeforeJSON != l.AfterJSON
	})).Return(nil)

	out, err := uc.UpdateProduct(context.Background(), 1, 101, repo.ProductPatch{Price: &newPrice})

	assert.NoError(t, err)
	assert.Equal(t, int64(60000), out.Price)
	m.audits.AssertExpectations(t)
}

func TestUpdateProduct_NegativePriceRejected(t *testing.T) {
	uc, m := newAdminUsecaseForTest()

	bad := int64(-1)
	_, err := uc.UpdateProduct(context.Background(), 1, 101, repo.ProductPatch{Price: &bad})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	m.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
