package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fastfood/internal/domain/model"
	repo "fastfood/internal/repository"

	"go.uber.org/zap"
)

type AdminUsecase struct {
	orders   repo.OrderRepository
	lines    repo.OrderLineRepository
	payments repo.PaymentRepository
	products repo.ProductRepository
	users    repo.UserRepository
	audits   repo.AuditLogRepository
	log      *zap.Logger
	now      func() time.Time
}

// DI
func NewAdminUsecase(
	orders repo.OrderRepository,
	lines repo.OrderLineRepository,
	payments repo.PaymentRepository,
	products repo.ProductRepository,
	users repo.UserRepository,
	audits repo.AuditLogRepository,
	log *zap.Logger,
) *AdminUsecase {
	return &AdminUsecase{
		orders:   orders,
		lines:    lines,
		payments: payments,
		products: products,
		users:    users,
		audits:   audits,
		log:      log,
		now:      time.Now,
	}
}

type AdminOrderSummary struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Username      string    `json:"username"`
	Status        string    `json:"order_status"`
	PaymentStatus string    `json:"payment_status"`
	TotalAmount   int64     `json:"total_amount"`
	CreatedAt     time.Time `json:"created_at"`
}

type AdminOrderList struct {
	Orders []AdminOrderSummary `json:"orders"`
	Total  int64               `json:"total"`
}

func (u *AdminUsecase) ListOrders(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderList, error) {
	if f.Status != "" && !model.ValidOrderStatus(model.OrderStatus(f.Status)) {
		return AdminOrderList{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	orders, total, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return AdminOrderList{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := AdminOrderList{Total: total, Orders: make([]AdminOrderSummary, 0, len(orders))}
	for _, o := range orders {
		s := AdminOrderSummary{
			ID:            o.ID,
			UserID:        o.UserID,
			Status:        string(o.Status),
			PaymentStatus: string(o.PaymentStatus),
			TotalAmount:   o.TotalAmount,
			CreatedAt:     o.CreatedAt,
		}
		if user, err := u.users.FindByID(ctx, o.UserID); err == nil {
			s.Username = user.Username
		}
		out.Orders = append(out.Orders, s)
	}
	return out, nil
}

func (u *AdminUsecase) GetOrderDetail(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.lines.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := OrderOutput{
		ID:            o.ID,
		UserID:        o.UserID,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		Totals: Totals{
			Subtotal:       o.Subtotal,
			DiscountAmount: o.DiscountAmount,
			TaxFee:         o.TaxFee,
			ShippingFee:    o.ShippingFee,
			TotalAmount:    o.TotalAmount,
		},
		Note:      o.Note,
		CreatedAt: o.CreatedAt,
		Items:     make([]OrderLineOutput, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, OrderLineOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}
	if p, err := u.payments.LatestByOrderID(ctx, orderID); err == nil {
		out.PaymentMethod = string(p.Method)
	}
	return out, nil
}

// UpdateOrderStatus は遷移表で許された遷移だけ適用する。
// 書き込みはWHEREでfromを言い直したガード付きUPDATEなので、
// 競合してステータスが変わっていたら409で負ける。
func (u *AdminUsecase) UpdateOrderStatus(ctx context.Context, actorID, orderID int64, to model.OrderStatus) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !model.ValidOrderStatus(to) {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !model.CanTransition(o.Status, to) {
		return NewHTTPError(http.StatusConflict, "invalid transition from "+string(o.Status)+" to "+string(to))
	}

	changed, err := u.orders.UpdateStatusIf(ctx, orderID, o.Status, to)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !changed {
		return NewHTTPError(http.StatusConflict, "order status changed concurrently")
	}

	u.writeAudit(ctx, actorID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID,
		map[string]string{"order_status": string(o.Status)},
		map[string]string{"order_status": string(to)},
	)

	u.log.Info("order status updated",
		zap.Int64("order_id", orderID),
		zap.Int64("actor_id", actorID),
		zap.String("from", string(o.Status)),
		zap.String("to", string(to)),
	)
	return nil
}

func (u *AdminUsecase) ListProducts(ctx context.Context, f repo.AdminProductFilter) ([]model.Product, error) {
	items, err := u.products.ListAdmin(ctx, f)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *AdminUsecase) UpdateProduct(ctx context.Context, actorID, productID int64, patch repo.ProductPatch) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	before, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.products.Update(ctx, productID, patch); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	after, err := u.products.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.writeAudit(ctx, actorID, model.AuditActionUpdateProduct, model.AuditResourceProduct, productID, before, after)
	return after, nil
}

func (u *AdminUsecase) ListAuditLogs(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if f.Limit < 1 || f.Limit > 500 {
		f.Limit = 100
	}
	items, err := u.audits.List(ctx, f)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// 監査ログの書き込み失敗は操作自体を失敗させない（ログに残す）。
func (u *AdminUsecase) writeAudit(ctx context.Context, actorID int64, action model.AuditAction, rt model.AuditResourceType, resourceID int64, before, after interface{}) {
	beforeJSON, _ := json.Marshal(before)
	afterJSON, _ := json.Marshal(after)

	err := u.audits.Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: rt,
		ResourceID:   resourceID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    u.now(),
	})
	if err != nil {
		u.log.Warn("audit log write failed",
			zap.Int64("actor_id", actorID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
	}
}
