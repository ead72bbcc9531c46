package repository

import (
	"context"
	"time"

	"fastfood/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	LatestByUserID(ctx context.Context, userID int64) (model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	//支払い待ちの再決済対象か（UNPAID かつ 未キャンセル）
	FindForRepayment(ctx context.Context, orderID, userID int64) (model.Order, error)

	//遷移系はすべてWHEREで事前条件を言い直したガード付き単一行UPDATE。
	//条件を満たさなければ false（競合した遷移は安全に負ける）。
	CancelIfPendingUnpaid(ctx context.Context, orderID, userID int64) (bool, error)
	UpdateStatusIf(ctx context.Context, orderID int64, from, to model.OrderStatus) (bool, error)
	UpdatePaymentStatusIf(ctx context.Context, orderID int64, from []model.PaymentStatus, to model.PaymentStatus) (bool, error)

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
