package usecase

import (
	"context"
	"time"

	"fastfood/internal/domain/model"
	repo "fastfood/internal/repository"

	"github.com/stretchr/testify/mock"
)

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *userRepoMock) FindByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *userRepoMock) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *userRepoMock) UpdateProfile(ctx context.Context, userID int64, patch repo.UserProfilePatch) error {
	return m.Called(ctx, userID, patch).Error(0)
}

func (m *userRepoMock) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	return m.Called(ctx, userID, hash).Error(0)
}

type addressRepoMock struct{ mock.Mock }

func (m *addressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Address), args.Error(1)
}

func (m *addressRepoMock) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	args := m.Called(ctx, addressID)
	return args.Get(0).(model.Address), args.Error(1)
}

func (m *addressRepoMock) Create(ctx context.Context, address model.Address) (model.Address, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(model.Address), args.Error(1)
}

func (m *addressRepoMock) Delete(ctx context.Context, addressID int64) error {
	return m.Called(ctx, addressID).Error(0)
}

func (m *addressRepoMock) IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error) {
	args := m.Called(ctx, addressID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *addressRepoMock) SetDefault(ctx context.Context, userID, addressID int64) error {
	return m.Called(ctx, userID, addressID).Error(0)
}

type productRepoMock struct{ mock.Mock }

func (m *productRepoMock) ListActive(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *productRepoMock) FindByID(ctx context.Context, productID int64) (model.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *productRepoMock) ListAdmin(ctx context.Context, f repo.AdminProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *productRepoMock) Update(ctx context.Context, productID int64, patch repo.ProductPatch) error {
	return m.Called(ctx, productID, patch).Error(0)
}

type cartItemRepoMock struct{ mock.Mock }

func (m *cartItemRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *cartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	return args.Get(0).(model.CartItem), args.Error(1)
}

func (m *cartItemRepoMock) FindByUserAndProduct(ctx context.Context, userID, productID int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	return args.Get(0).(model.CartItem), args.Error(1)
}

func (m *cartItemRepoMock) Create(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(model.CartItem), args.Error(1)
}

func (m *cartItemRepoMock) UpdateQuantityNote(ctx context.Context, cartItemID, quantity int64, note string) error {
	return m.Called(ctx, cartItemID, quantity, note).Error(0)
}

func (m *cartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	return m.Called(ctx, cartItemID).Error(0)
}

func (m *cartItemRepoMock) DeleteByUserID(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *cartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type orderRepoMock struct{ mock.Mock }

func (m *orderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *orderRepoMock) ListByUserID(ctx context.Context, userID int64, page, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *orderRepoMock) LatestByUserID(ctx context.Context, userID int64) (model.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *orderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *orderRepoMock) FindForRepayment(ctx context.Context, orderID, userID int64) (model.Order, error) {
	args := m.Called(ctx, orderID, userID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *orderRepoMock) CancelIfPendingUnpaid(ctx context.Context, orderID, userID int64) (bool, error) {
	args := m.Called(ctx, orderID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *orderRepoMock) UpdateStatusIf(ctx context.Context, orderID int64, from, to model.OrderStatus) (bool, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *orderRepoMock) UpdatePaymentStatusIf(ctx context.Context, orderID int64, from []model.PaymentStatus, to model.PaymentStatus) (bool, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *orderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

type orderLineRepoMock struct{ mock.Mock }

func (m *orderLineRepoMock) CreateBulk(ctx context.Context, orderID int64, lines []model.OrderLine) error {
	return m.Called(ctx, orderID, lines).Error(0)
}

func (m *orderLineRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]model.OrderLine), args.Error(1)
}

type paymentRepoMock struct{ mock.Mock }

func (m *paymentRepoMock) Create(ctx context.Context, payment model.Payment) (model.Payment, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(model.Payment), args.Error(1)
}

func (m *paymentRepoMock) LatestByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(model.Payment), args.Error(1)
}

func (m *paymentRepoMock) UpdateLatestStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	return m.Called(ctx, orderID, status).Error(0)
}

type promotionRepoMock struct{ mock.Mock }

func (m *promotionRepoMock) ListActive(ctx context.Context, now time.Time) ([]model.Promotion, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]model.Promotion), args.Error(1)
}

func (m *promotionRepoMock) FindByID(ctx context.Context, promotionID int64) (model.Promotion, error) {
	args := m.Called(ctx, promotionID)
	return args.Get(0).(model.Promotion), args.Error(1)
}

func (m *promotionRepoMock) ListProducts(ctx context.Context, promotionID int64, now time.Time) ([]model.Product, error) {
	args := m.Called(ctx, promotionID, now)
	return args.Get(0).([]model.Product), args.Error(1)
}

type favoriteRepoMock struct{ mock.Mock }

func (m *favoriteRepoMock) Add(ctx context.Context, userID, productID int64) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *favoriteRepoMock) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *favoriteRepoMock) Remove(ctx context.Context, userID, productID int64) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *favoriteRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Product, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Product), args.Error(1)
}

type reviewRepoMock struct{ mock.Mock }

func (m *reviewRepoMock) Create(ctx context.Context, review model.Review) (model.Review, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(model.Review), args.Error(1)
}

func (m *reviewRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]model.Review), args.Error(1)
}

type auditLogRepoMock struct{ mock.Mock }

func (m *auditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *auditLogRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.AuditLog), args.Error(1)
}

// トランザクションのテスト用スタブ。
// fnをそのまま実行し、エラーをロールバック相当として返す。
type txReposStub struct {
	orders   *orderRepoMock
	lines    *orderLineRepoMock
	carts    *cartItemRepoMock
	payments *paymentRepoMock
}

func (s txReposStub) Orders() repo.OrderRepository         { return s.orders }
func (s txReposStub) OrderLines() repo.OrderLineRepository { return s.lines }
func (s txReposStub) CartItems() repo.CartItemRepository   { return s.carts }
func (s txReposStub) Payments() repo.PaymentRepository     { return s.payments }

type txManagerStub struct {
	repos  txReposStub
	called bool
}

func (s *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	s.called = true
	return fn(s.repos)
}
