package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"fastfood/internal/domain/model"
	repo "fastfood/internal/repository"
	"fastfood/internal/vnpay"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 税・送料のポリシーは設定値として外から渡す。
type PricingConfig struct {
	TaxFee      int64
	ShippingFee int64
}

type OrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	lines     repo.OrderLineRepository
	payments  repo.PaymentRepository
	addresses repo.AddressRepository
	products  repo.ProductRepository
	promos    *PromotionUsecase
	gateway   *vnpay.Client
	pricing   PricingConfig
	log       *zap.Logger
	now       func() time.Time
}

// DI
func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	lines repo.OrderLineRepository,
	payments repo.PaymentRepository,
	addresses repo.AddressRepository,
	products repo.ProductRepository,
	promos *PromotionUsecase,
	gateway *vnpay.Client,
	pricing PricingConfig,
	log *zap.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:        tx,
		orders:    orders,
		lines:     lines,
		payments:  payments,
		addresses: addresses,
		products:  products,
		promos:    promos,
		gateway:   gateway,
		pricing:   pricing,
		log:       log,
		now:       time.Now,
	}
}

type CheckoutItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type PreviewInput struct {
	Items       []CheckoutItem
	PromotionID *int64
}

type CheckoutInput struct {
	Items             []CheckoutItem
	ShippingAddressID int64
	Note              string
	PromotionID       *int64
	PaymentMethod     model.PaymentMethod
	BuyFromCart       bool
	ClientIP          string
}

type CheckoutOutput struct {
	OrderID       int64               `json:"order_id"`
	TotalAmount   int64               `json:"total_amount"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`

	//VNPAYのときだけ入る
	PaymentURL string `json:"payment_url,omitempty"`
}

type OrderLineOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"user_id"`
	Status        string            `json:"order_status"`
	PaymentStatus string            `json:"payment_status"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	Totals        Totals            `json:"totals"`
	Note          string            `json:"note,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderLineOutput `json:"items"`
}

// loadLines はカタログの現在値から見積もり行を作る。
// 単価は必ずここで読む（クライアントの申告は信用しない）。
func (u *OrderUsecase) loadLines(ctx context.Context, items []CheckoutItem) ([]PricedLine, error) {
	if len(items) == 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	lines := make([]PricedLine, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}

		p, err := u.products.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid product")
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsActive {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid product")
		}

		lines = append(lines, PricedLine{
			ProductID:   p.ID,
			CategoryID:  p.CategoryID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			UnitPrice:   p.Price,
		})
	}
	return lines, nil
}

// Preview は金額計算だけ行い、何も永続化しない。
func (u *OrderUsecase) Preview(ctx context.Context, userID int64, in PreviewInput) (Totals, error) {
	if userID <= 0 {
		return Totals{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	lines, err := u.loadLines(ctx, in.Items)
	if err != nil {
		return Totals{}, err
	}

	promo, err := u.promos.ResolveForCheckout(ctx, in.PromotionID, lines)
	if err != nil {
		return Totals{}, err
	}

	return ComputeOrderTotals(lines, promo, u.now(), u.pricing.TaxFee, u.pricing.ShippingFee)
}

// ApplicablePromotions はカート行に適用できる販促候補をすべて返す。
// どれを使うかはチェックアウト時にpromotion_idで指名する。
func (u *OrderUsecase) ApplicablePromotions(ctx context.Context, userID int64, items []CheckoutItem) ([]model.Promotion, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	lines, err := u.loadLines(ctx, items)
	if err != nil {
		return nil, err
	}
	return u.promos.Applicable(ctx, lines)
}

// Checkout は注文を確定する。
// 検証と金額計算はトランザクション外、永続化（注文ヘッダ＋明細＋
// 支払い試行＋カートクリア）は単一トランザクションで行い、
// 途中で失敗したら全てロールバックする。
func (u *OrderUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (CheckoutOutput, error) {
	if userID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.Items) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	if in.ShippingAddressID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "missing shipping address")
	}

	method := in.PaymentMethod
	if method == "" {
		method = model.PaymentMethodCOD
	}
	if method != model.PaymentMethodCOD && method != model.PaymentMethodVNPay {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment method")
	}

	//配送先の存在＋所有チェック（他人の住所は「存在しない扱い」）
	owned, err := u.addresses.IsOwnedByUser(ctx, in.ShippingAddressID, userID)
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CheckoutOutput{}, NewHTTPError(http.StatusNotFound, "address not found")
	}

	lines, err := u.loadLines(ctx, in.Items)
	if err != nil {
		return CheckoutOutput{}, err
	}

	promo, err := u.promos.ResolveForCheckout(ctx, in.PromotionID, lines)
	if err != nil {
		return CheckoutOutput{}, err
	}

	now := u.now()
	totals, err := ComputeOrderTotals(lines, promo, now, u.pricing.TaxFee, u.pricing.ShippingFee)
	if err != nil {
		return CheckoutOutput{}, err
	}

	var promotionID *int64
	if promo != nil {
		id := promo.ID
		promotionID = &id
	}

	var orderID int64

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		id, err := r.Orders().Create(ctx, model.Order{
			UserID:         userID,
			AddressID:      in.ShippingAddressID,
			PromotionID:    promotionID,
			Status:         model.OrderStatusPending,
			PaymentStatus:  model.PaymentStatusUnpaid,
			Subtotal:       totals.Subtotal,
			DiscountAmount: totals.DiscountAmount,
			TaxFee:         totals.TaxFee,
			ShippingFee:    totals.ShippingFee,
			TotalAmount:    totals.TotalAmount,
			Note:           in.Note,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return err
		}
		orderID = id

		orderLines := make([]model.OrderLine, 0, len(lines))
		for _, l := range lines {
			orderLines = append(orderLines, model.OrderLine{
				ProductID:           l.ProductID,
				ProductNameSnapshot: l.ProductName,
				UnitPriceSnapshot:   l.UnitPrice,
				Quantity:            l.Quantity,
				CreatedAt:           now,
			})
		}
		if err := r.OrderLines().CreateBulk(ctx, orderID, orderLines); err != nil {
			return err
		}

		//支払い試行ログ（ゲートウェイ決済は試行ごとに増える）
		if _, err := r.Payments().Create(ctx, model.Payment{
			OrderID:     orderID,
			Method:      method,
			Status:      model.PaymentStatusUnpaid,
			TxnRef:      uuid.NewString(),
			PaymentTime: now,
		}); err != nil {
			return err
		}

		//カートからの購入なら、同一Txでカートを空にする。
		//注文とカートが同時に課金された状態は残らない。
		if in.BuyFromCart {
			if err := r.CartItems().DeleteByUserID(ctx, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		u.log.Error("checkout transaction failed", zap.Int64("user_id", userID), zap.Error(err))
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := CheckoutOutput{
		OrderID:       orderID,
		TotalAmount:   totals.TotalAmount,
		PaymentMethod: method,
	}

	if method == model.PaymentMethodVNPay {
		out.PaymentURL = u.gateway.BuildPaymentURL(orderID, totals.TotalAmount, "", in.ClientIP)
	}

	u.log.Info("order created",
		zap.Int64("order_id", orderID),
		zap.Int64("user_id", userID),
		zap.Int64("total_amount", totals.TotalAmount),
		zap.String("payment_method", string(method)),
	)
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, _, err := u.orders.ListByUserID(ctx, userID, 1, 50)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.lines.ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, u.toOrderOutput(ctx, o, items))
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
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
	//他人の注文は「存在しない扱い」にする
	if o.UserID != userID {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.lines.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.toOrderOutput(ctx, o, items), nil
}

// LatestOrder は通知表示用の最新注文1件。
func (u *OrderUsecase) LatestOrder(ctx context.Context, userID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	o, err := u.orders.LatestByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "no orders")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.toOrderOutput(ctx, o, nil), nil
}

// Cancel はキャンセル。PENDINGかつUNPAIDのときだけ成功する。
// ガードはWHERE句で言い直されるので、競合した確定・入金に対して
// 古い前提のまま適用されることはない。
func (u *OrderUsecase) Cancel(ctx context.Context, userID, orderID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != userID {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	ok, err := u.orders.CancelIfPendingUnpaid(ctx, orderID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return NewHTTPError(http.StatusConflict, "already confirmed or paid")
	}

	u.log.Info("order cancelled", zap.Int64("order_id", orderID), zap.Int64("user_id", userID))
	return nil
}

type RepayOutput struct {
	OrderID    int64  `json:"order_id"`
	PaymentURL string `json:"payment_url"`
}

// RetryPayment は再決済。UNPAIDかつ未キャンセルの注文だけ対象。
// 新しいリダイレクトURLを発行する（過去のURLは無効化しない）。
func (u *OrderUsecase) RetryPayment(ctx context.Context, userID, orderID int64, clientIP string) (RepayOutput, error) {
	if userID <= 0 {
		return RepayOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return RepayOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindForRepayment(ctx, orderID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return RepayOutput{}, NewHTTPError(http.StatusConflict, "order not found, already paid, or cancelled")
	}
	if err != nil {
		return RepayOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//新しい支払い試行を記録
	if _, err := u.payments.Create(ctx, model.Payment{
		OrderID:     o.ID,
		Method:      model.PaymentMethodVNPay,
		Status:      model.PaymentStatusUnpaid,
		TxnRef:      uuid.NewString(),
		PaymentTime: u.now(),
	}); err != nil {
		return RepayOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return RepayOutput{
		OrderID:    o.ID,
		PaymentURL: u.gateway.BuildPaymentURL(o.ID, o.TotalAmount, "", clientIP),
	}, nil
}

type GatewayReturnOutput struct {
	OrderID int64 `json:"order_id"`
	Success bool  `json:"success"`
}

// HandleGatewayReturn はゲートウェイのコールバックを処理する。
// 署名が一致しなければ何も更新しない（vnpay.ErrInvalidSignatureが
// そのまま返り、handlerが業務エラーと区別して応答する）。
// 同じコールバックの再送は同じ終端ステータスを再設定するだけで、
// 副作用を二重適用しない。
func (u *OrderUsecase) HandleGatewayReturn(ctx context.Context, query url.Values) (GatewayReturnOutput, error) {
	res, err := u.gateway.VerifyCallback(query)
	if err != nil {
		u.log.Warn("gateway callback rejected", zap.Error(err))
		return GatewayReturnOutput{}, err
	}

	target := model.PaymentStatusFailed
	//PAIDへはUNPAIDからも、前回失敗後の再決済（FAILED）からも遷移できる。
	//FAILEDはUNPAIDからだけ（PAID済みを格下げしない）。
	from := []model.PaymentStatus{model.PaymentStatusUnpaid}
	if res.Success {
		target = model.PaymentStatusPaid
		from = append(from, model.PaymentStatusFailed)
	}

	o, err := u.orders.FindByID(ctx, res.OrderID)
	if errors.Is(err, repo.ErrNotFound) {
		return GatewayReturnOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return GatewayReturnOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//再送（リプレイ）: すでに同じ終端状態なら何もしない
	if o.PaymentStatus == target {
		return GatewayReturnOutput{OrderID: res.OrderID, Success: res.Success}, nil
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		changed, err := r.Orders().UpdatePaymentStatusIf(ctx, res.OrderID, from, target)
		if err != nil {
			return err
		}
		if !changed {
			//競合側がすでに遷移させた。ガードが守っているのでそのまま受け入れる。
			return nil
		}
		return r.Payments().UpdateLatestStatus(ctx, res.OrderID, target)
	})
	if err != nil {
		return GatewayReturnOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.log.Info("gateway callback applied",
		zap.Int64("order_id", res.OrderID),
		zap.String("response_code", res.ResponseCode),
		zap.Bool("success", res.Success),
	)
	return GatewayReturnOutput{OrderID: res.OrderID, Success: res.Success}, nil
}

func (u *OrderUsecase) toOrderOutput(ctx context.Context, o model.Order, items []model.OrderLine) OrderOutput {
	outItems := make([]OrderLineOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderLineOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
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
		Items:     outItems,
	}

	//表示用の支払い方法は最新試行から
	if p, err := u.payments.LatestByOrderID(ctx, o.ID); err == nil {
		out.PaymentMethod = string(p.Method)
	}
	return out
}
