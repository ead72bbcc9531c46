package handler

import (
	"errors"
	"net/http"
	"strconv"

	"fastfood/internal/config"
	"fastfood/internal/domain/model"
	"fastfood/internal/middleware"
	"fastfood/internal/usecase"
	"fastfood/internal/vnpay"

	"github.com/labstack/echo/v4"
)

// /api/orders と /api/payment のHTTP
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type CheckoutItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CheckoutRequest struct {
	Items             []CheckoutItemRequest `json:"items"`
	ShippingAddressID int64                 `json:"shipping_address_id"`
	Note              string                `json:"note"`
	PromotionID       *int64                `json:"promotion_id"`
	PaymentMethod     string                `json:"payment_method"`
	BuyFromCart       bool                  `json:"buy_from_cart"`
}

type PreviewRequest struct {
	Items       []CheckoutItemRequest `json:"items"`
	PromotionID *int64                `json:"promotion_id"`
}

type PromotionCheckRequest struct {
	Items []CheckoutItemRequest `json:"items"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/preview", h.preview)
	g.POST("", h.checkout)
	g.GET("", h.listMine)
	g.GET("/latest", h.latest)
	g.GET("/:id", h.detail)
	g.POST("/:id/cancel", h.cancel)
	g.POST("/:id/repay", h.repay)

	//販促の適用可否チェック。カート行の単価が要るのでordersと同じ依存で処理する。
	e.POST("/api/promotions/check-available", h.checkPromotions, middleware.AuthJWT(cfg))

	//ゲートウェイのreturnはブラウザリダイレクトなので認証なし。
	//署名検証が認証の代わりになる。
	e.GET("/api/payment/vnpay_return", h.vnpayReturn)
}

func toCheckoutItems(reqs []CheckoutItemRequest) []usecase.CheckoutItem {
	items := make([]usecase.CheckoutItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, usecase.CheckoutItem{ProductID: r.ProductID, Quantity: r.Quantity})
	}
	return items
}

func (h *OrderHandler) preview(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req PreviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Preview(c.Request().Context(), userID, usecase.PreviewInput{
		Items:       toCheckoutItems(req.Items),
		PromotionID: req.PromotionID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) checkPromotions(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req PromotionCheckRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ApplicablePromotions(c.Request().Context(), userID, toCheckoutItems(req.Items))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Checkout(c.Request().Context(), userID, usecase.CheckoutInput{
		Items:             toCheckoutItems(req.Items),
		ShippingAddressID: req.ShippingAddressID,
		Note:              req.Note,
		PromotionID:       req.PromotionID,
		PaymentMethod:     model.PaymentMethod(req.PaymentMethod),
		BuyFromCart:       req.BuyFromCart,
		ClientIP:          c.RealIP(),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listMine(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) latest(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.LatestOrder(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetMyOrderDetail(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Cancel(c.Request().Context(), userID, orderID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "order cancelled"})
}

func (h *OrderHandler) repay(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.RetryPayment(c.Request().Context(), userID, orderID, c.RealIP())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) vnpayReturn(c echo.Context) error {
	out, err := h.uc.HandleGatewayReturn(c.Request().Context(), c.QueryParams())
	if err != nil {
		if errors.Is(err, vnpay.ErrInvalidSignature) || errors.Is(err, vnpay.ErrMissingParam) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid signature"})
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
