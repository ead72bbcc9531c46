package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"fastfood/internal/domain/model"
	repo "fastfood/internal/repository"
	"fastfood/internal/vnpay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const testHashSecret = "TESTSECRET"

type orderUCMocks struct {
	tx         *txManagerStub
	orders     *orderRepoMock
	lines      *orderLineRepoMock
	payments   *paymentRepoMock
	addresses  *addressRepoMock
	products   *productRepoMock
	promotions *promotionRepoMock
	carts      *cartItemRepoMock
}

func newOrderUsecaseForTest() (*OrderUsecase, *orderUCMocks) {
	m := &orderUCMocks{
		orders:     new(orderRepoMock),
		lines:      new(orderLineRepoMock),
		payments:   new(paymentRepoMock),
		addresses:  new(addressRepoMock),
		products:   new(productRepoMock),
		promotions: new(promotionRepoMock),
		carts:      new(cartItemRepoMock),
	}
	m.tx = &txManagerStub{repos: txReposStub{
		orders:   m.orders,
		lines:    m.lines,
		carts:    m.carts,
		payments: m.payments,
	}}

	gateway := vnpay.New(vnpay.Config{
		TmnCode:    "TESTTMN",
		HashSecret: testHashSecret,
		BaseURL:    "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "http://localhost:8080/api/payment/vnpay_return",
	})

	uc := NewOrderUsecase(
		m.tx, m.orders, m.lines, m.payments, m.addresses, m.products,
		NewPromotionUsecase(m.promotions),
		gateway,
		PricingConfig{TaxFee: 5000, ShippingFee: 15000},
		zap.NewNop(),
	)
	return uc, m
}

func stubCatalog(m *orderUCMocks) {
	m.products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, CategoryID: 1, Name: "Burger", Price: 50000, IsActive: true}, nil)
	m.products.On("FindByID", mock.Anything, int64(102)).
		Return(model.Product{ID: 102, CategoryID: 2, Name: "Cola", Price: 30000, IsActive: true}, nil)
}

func productPromo(id, productID, percent int64) model.Promotion {
	pid := productID
	return model.Promotion{
		ID:              id,
		Name:            "Burger week",
		DiscountPercent: percent,
		StartDate:       time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:        true,
		Details:         []model.PromotionDetail{{ProductID: &pid, IsActive: true}},
	}
}

func TestCheckout_CreatesOrderLinesAndPaymentAtomically(t *testing.T) {
	uc, m := newOrderUsecaseForTest()
	ctx := context.Background()

	stubCatalog(m)
	m.addresses.On("IsOwnedByUser", mock.Anything, int64(3), int64(9)).Return(true, nil)
	promoID := int64(7)
	m.promotions.On("FindByID", mock.Anything, promoID).Return(productPromo(7, 101, 10), nil)

	//2×50000 + 1×30000 = 130000、商品101の行だけ10%引き
	m.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 9 &&
			o.Status == model.OrderStatusPending &&
			o.PaymentStatus == model.PaymentStatusUnpaid &&
			o.Subtotal == 130000 &&
			o.DiscountAmount == 10000 &&
			o.TotalAmount == 140000 &&
			o.PromotionID != nil && *o.PromotionID == 7
	})).Return(int64(555), nil)

	m.lines.On("CreateBulk", mock.Anything, int64(555), mock.MatchedBy(func(lines []model.OrderLine) bool {
		return len(lines) == 2 &&
			lines[0].ProductNameSnapshot == "Burger" &&
			lines[0].UnitPriceSnapshot == 50000 &&
			lines[0].Quantity == 2
	})).Return(nil)

	m.payments.On("Create", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.OrderID == 555 &&
			p.Method == model.PaymentMethodCOD &&
			p.Status == model.PaymentStatusUnpaid &&
			p.TxnRef != ""
	})).Return(model.Payment{ID: 1}, nil)

	m.carts.On("DeleteByUserID", mock.Anything, int64(9)).Return(nil)

	out, err := uc.Checkout(ctx, 9, CheckoutInput{
		Items:             []CheckoutItem{{ProductID: 101, Quantity: 2}, {ProductID: 102, Quantity: 1}},
		ShippingAddressID: 3,
		PromotionID:       &promoID,
		PaymentMethod:     model.PaymentMethodCOD,
		BuyFromCart:       true,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(555), out.OrderID)
	assert.Equal(t, int64(140000), out.TotalAmount)
	assert.Empty(t, out.PaymentURL)
	m.orders.AssertExpectations(t)
	m.lines.AssertExpectations(t)
	m.payments.AssertExpectations(t)
	m.carts.AssertExpectations(t)
}

func TestCheckout_VNPayReturnsSignedRedirectURL(t *testing.T) {
	uc, m := newOrderUsecaseForTest()
	ctx := context.Background()

	stubCatalog(m)
	m.addresses.On("IsOwnedByUser", mock.Anything, int64(3), int64(9)).Return(true, nil)
	m.orders.On("Create", mock.Anything, mock.Anything).Return(int64(42), nil)
	m.lines.On("CreateBulk", mock.Anything, int64(42), mock.Anything).Return(nil)
	m.payments.On("Create", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.Method == model.PaymentMethodVNPay
	})).Return(model.Payment{ID: 1}, nil)

	out, err := uc.Checkout(ctx, 9, CheckoutInput{
		Items:             []CheckoutItem{{ProductID: 101, Quantity: 2}, {ProductID: 102, Quantity: 1}},
		ShippingAddressID: 3,
		PaymentMethod:     model.PaymentMethodVNPay,
		ClientIP:          "203.0.113.7",
	})

	assert.NoError(t, err)
	//割引なし: 130000 + 5000 + 15000 = 150000、ゲートウェイへは100倍
	assert.Equal(t, int64(150000), out.TotalAmount)
	assert.Contains(t, out.PaymentURL, "vnp_Amount=15000000")
	assert.Contains(t, out.PaymentURL, "vnp_TxnRef=42")
	assert.Contains(t, out.PaymentURL, "vnp_SecureHash=")
}

func TestCheckout_RollsBackWhenLineInsertFails(t *testing.T) {
	uc, m := newOrderUsecaseForTest()
	ctx := context.Background()

	stubCatalog(m)
	m.addresses.On("IsOwnedByUser", mock.Anything, int64(3), int64(9)).Return(true, nil)
	m.orders.On("Create", mock.Anything, mock.Anything).Return(int64(42), nil)
	m.lines.On("CreateBulk", mock.Anything, int64(42), mock.Anything).Return(errors.New("insert failed"))

	_, err := uc.Checkout(ctx, 9, CheckoutInput{
		Items:             []CheckoutItem{{ProductID: 101, Quantity: 1}},
		ShippingAddressID: 3,
	})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	//明細で落ちたら支払い行もカートクリアも起きない
	m.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.carts.AssertNotCalled(t, "DeleteByUserID", mock.Anything, mock.Anything)
}

func TestCheckout_EmptyItemsRejectedBeforeTx(t *testing.T) {
	uc, m := newOrderUsecaseForTest()

	_, err := uc.Checkout(context.Background(), 9, CheckoutInput{
		Items:             nil,
		ShippingAddressID: 3,
	})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.False(t, m.tx.called)
}

func TestCheckout_ForeignAddressTreatedAsMissing(t *testing.T) {
	uc, m := newOrderUsecaseForTest()
	m.addresses.On("IsOwnedByUser", mock.Anything, int64(3), int64(9)).Return(false, nil)

	_, err := uc.Checkout(context.Background(), 9, CheckoutInput{
		Items:             []CheckoutItem{{ProductID: 101, Quantity: 1}},
		ShippingAddressID: 3,
	})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.False(t, m.tx.called)
}

func TestCheckout_InactiveProductRejected(t *testing.T) {
	uc, m := newOrderUsecaseForTest()
	m.addresses.On("IsOwnedByUser", mock.Anything, int64(3), int64(9)).Return(true, nil)
	m.products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, Price: 50000, IsActive: false}, nil)

	_, err := uc.Checkout(context.Background(), 9, CheckoutInput{
		Items:             []CheckoutItem{{ProductID: 101, Quantity: 1}},
		ShippingAddressID: 3,
	})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.False(t, m.tx.called)
}

func TestPreview_ComputesWithoutPersisting(t *testing.T) {
	uc, m := newOrderUsecaseForTest()
	stubCatalog(m)
	promoID := int64(7)
	m.promotions.On("FindByID", mock.Anything, promoID).Return(productPromo(7, 101, 10), nil)

	totals, err := uc.Preview(context.Background(), 9, PreviewInput{
		Items:       []CheckoutItem{{ProductID: 101, Quantity: 2}, {ProductID: 102, Quantity: 1}},
		PromotionID: &promoID,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(130000), totals.Subtotal)
	assert.Equal(t, int64(10000), totals.DiscountAmount)
	assert.Equal(t, int64(140000), totals.TotalAmount)
	assert.False(t, m.tx.called)
	m.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestApplicablePromotions_ReturnsOnlyMatchingCandidates(t *testing.T) {
	uc, m := newOrderUsecaseForTest()
	stubCatalog(m)

	//101にかかる販促と、カートに無い商品999にかかる販促
	m.promotions.On("ListActive", mock.Anything, mock.Anything).
		Return([]model.Promotion{productPromo(7, 101, 10), productPromo(8, 999, 50)}, nil)

	promos, err := uc.ApplicablePromotions(context.Background(), 9, []CheckoutItem{
		{ProductID: 101, Quantity: 2},
		{ProductID: 102, Quantity: 1},
	})

	assert.NoError(t, err)
	if assert.Len(t, promos, 1) {
		assert.Equal(t, int64(7), promos[0].ID)
	}
	assert.False(t, m.tx.called)
}

func TestApplicablePromotions_EmptyItemsRejected(t *testing.T) {
	uc, m := newOrderUsecaseForTest()

	_, err := uc.ApplicablePromotions(context.Background(), 9, nil)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	m.promotions.AssertNotCalled(t, "ListActive", mock.Anything, mock.Anything)
}

func TestCancel_OnlyWhilePendingAndUnpaid(t *testing.T) {
	uc, m := newOrderUsecaseForTest()
	ctx := context.Background()

	m.orders.On("FindByID", mock.Anything, int64(555)).
		Return(model.Order{ID: 555, UserID: 9, Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusUnpaid}, nil)
	m.orders.On("CancelIfPendingUnpaid", mock.Anything, int64(555), int64(9)).Return(true, nil)

	assert.NoError(t, uc.Cancel(ctx, 9, 555))
	m.orders.AssertExpectations(t)
}

func TestCancel_ConflictsAfterConfirmOrPayment(t *testing.T) {
	uc, m := newOrderUsecaseForTest()

	m.orders.On("FindByID", mock.Anything, int64(555)).
		Return(model.Order{ID: 555, UserID: 9, Status: model.OrderStatusConfirmed}, nil)
	//ガード付きUPDATEが0行 = すでに確定か入金済み
	m.orders.On("CancelIfPendingUnpaid", mock.Anything, int64(555), int64(9)).Return(false, nil)

	err := uc.Cancel(context.Background(), 9, 555)
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
}

func TestCancel_ForeignOrderTreatedAsMissing(t *testing.T) {
	uc, m := newOrderUsecaseForTest()

	m.orders.On("FindByID", mock.Anything, int64(555)).
		Return(model.Order{ID: 555, UserID: 2}, nil)

	err := uc.Cancel(context.Background(), 9, 555)
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	m.orders.AssertNotCalled(t, "CancelIfPendingUnpaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestRetryPayment_IssuesFreshURLForUnpaidOrder(t *testing.T) {
	uc, m := newOrderUsecaseForTest()

	m.orders.On("FindForRepayment", mock.Anything, int64(555), int64(9)).
		Return(model.Order{ID: 555, UserID: 9, TotalAmount: 140000}, nil)
	m.payments.On("Create", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.OrderID == 555 && p.Method == model.PaymentMethodVNPay && p.Status == model.PaymentStatusUnpaid
	})).Return(model.Payment{ID: 2}, nil)

	out, err := uc.RetryPayment(context.Background(), 9, 555, "203.0.113.7")

	assert.NoError(t, err)
	assert.Contains(t, out.PaymentURL, "vnp_Amount=14000000")
	assert.Contains(t, out.PaymentURL, "vnp_TxnRef=555")
}

func TestRetryPayment_RejectedWhenPaidOrCancelled(t *testing.T) {
	uc, m := newOrderUsecaseForTest()

	m.orders.On("FindForRepayment", mock.Anything, int64(555), int64(9)).
		Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.RetryPayment(context.Background(), 9, 555, "203.0.113.7")
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	m.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// ゲートウェイと同じ規則（キー昇順・URLエンコード・スペースは+）で
// 署名済みクエリを作る。
func signedCallbackQuery(secret string, params map[string]string) url.Values {
	vals := url.Values{}
	for k, v := range params {
		vals.Set(k, v)
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(vals.Encode()))
	vals.Set("vnp_SecureHash", hex.EncodeToString(mac.Sum(nil)))
	return vals
}

func TestHandleGatewayReturn_SuccessMarksPaid(t *testing.T) {
	uc, m := newOrderUsecaseForTest()

	query := signedCallbackQuery(testHashSecret, map[string]string{
		"vnp_TxnRef":       "555",
		"vnp_ResponseCode": "00",
		"vnp_Amount":       "14000000",
	})

	m.orders.On("FindByID", mock.Anything, int64(555)).
		Return(model.Order{ID: 555, PaymentStatus: model.PaymentStatusUnpaid}, nil)
	m.orders.On("UpdatePaymentStatusIf", mock.Anything, int64(555),
		[]model.PaymentStatus{model.PaymentStatusUnpaid, model.PaymentStatusFailed},
		model.PaymentStatusPaid).Return(true, nil)
	m.payments.On("UpdateLatestStatus", mock.Anything, int64(555), model.PaymentStatusPaid).Return(nil)

	out, err := uc.HandleGatewayReturn(context.Background(), query)

	assert.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, int64(555), out.OrderID)
	m.orders.AssertExpectations(t)
	m.payments.AssertExpectations(t)
}

func TestHandleGatewayReturn_FailureLeavesOrderStatusAlone(t *testing.T) {
	uc, m := newOrderUsecaseForTest()

	query := signedCallbackQuery(testHashSecret, map[string]string{
		"vnp_TxnRef":       "555",
		"vnp_ResponseCode": "24",
		"vnp_Amount":       "14000000",
	})

	m.orders.On("FindByID", mock.Anything, int64(555)).
		Return(model.Order{ID: 555, Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusUnpaid}, nil)
	m.orders.On("UpdatePaymentStatusIf", mock.Anything, int64(555),
		[]model.PaymentStatus{model.PaymentStatusUnpaid},
		model.PaymentStatusFailed).Return(true, nil)
	m.payments.On("UpdateLatestStatus", mock.Anything, int64(555), model.PaymentStatusFailed).Return(nil)

	out, err := uc.HandleGatewayReturn(context.Background(), query)

	assert.NoError(t, err)
	assert.False(t, out.Success)
	//注文ステータス（order_status）は触らない
	m.orders.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleGatewayReturn_ReplayIsNoOp(t *testing.T) {
	uc, m := newOrderUsecaseForTest()

	query := signedCallbackQuery(testHashSecret, map[string]string{
		"vnp_TxnRef":       "555",
		"vnp_ResponseCode": "00",
		"vnp_Amount":       "14000000",
	})

	//すでにPAIDなら再送は何も書かない
	m.orders.On("FindByID", mock.Anything, int64(555)).
		Return(model.Order{ID: 555, PaymentStatus: model.PaymentStatusPaid}, nil)

	out, err := uc.HandleGatewayReturn(context.Background(), query)

	assert.NoError(t, err)
	assert.True(t, out.Success)
	assert.False(t, m.tx.called)
}

func TestHandleGatewayReturn_TamperedQueryRejected(t *testing.T) {
	uc, m := newOrderUsecaseForTest()

	query := signedCallbackQuery(testHashSecret, map[string]string{
		"vnp_TxnRef":       "555",
		"vnp_ResponseCode": "00",
		"vnp_Amount":       "14000000",
	})
	//署名後に金額を書き換える
	query.Set("vnp_Amount", "100")

	_, err := uc.HandleGatewayReturn(context.Background(), query)

	assert.ErrorIs(t, err, vnpay.ErrInvalidSignature)
	m.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	assert.False(t, m.tx.called)
}

func TestListMyOrders_IncludesLinesAndLatestPaymentMethod(t *testing.T) {
	uc, m := newOrderUsecaseForTest()

	m.orders.On("ListByUserID", mock.Anything, int64(9), 1, 50).
		Return([]model.Order{{ID: 555, UserID: 9, Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusUnpaid, TotalAmount: 140000}}, int64(1), nil)
	m.lines.On("ListByOrderID", mock.Anything, int64(555)).
		Return([]model.OrderLine{{ProductID: 101, ProductNameSnapshot: "Burger", UnitPriceSnapshot: 50000, Quantity: 2}}, nil)
	m.payments.On("LatestByOrderID", mock.Anything, int64(555)).
		Return(model.Payment{Method: model.PaymentMethodVNPay}, nil)

	outs, err := uc.ListMyOrders(context.Background(), 9)

	assert.NoError(t, err)
	assert.Len(t, outs, 1)
	assert.Equal(t, "Burger", outs[0].Items[0].Name)
	assert.Equal(t, string(model.PaymentMethodVNPay), outs[0].PaymentMethod)
}

func TestGetMyOrderDetail_ForeignOrderTreatedAsMissing(t *testing.T) {
	uc, m := newOrderUsecaseForTest()

	m.orders.On("FindByID", mock.Anything, int64(555)).
		Return(model.Order{ID: 555, UserID: 2}, nil)

	_, err := uc.GetMyOrderDetail(context.Background(), 9, 555)
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.True(t, strings.Contains(he.Message, "not found"))
}
