package handler

import (
	"net/http"
	"strconv"

	"fastfood/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/promotions の公開API
type PromotionHandler struct {
	uc *usecase.PromotionUsecase
}

// DI
func NewPromotionHandler(uc *usecase.PromotionUsecase) *PromotionHandler {
	return &PromotionHandler{uc: uc}
}

func (h *PromotionHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/promotions", h.list)
	e.GET("/api/promotions/:id/products", h.listProducts)
}

func (h *PromotionHandler) list(c echo.Context) error {
	out, err := h.uc.ListActive(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PromotionHandler) listProducts(c echo.Context) error {
	promotionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.ListProducts(c.Request().Context(), promotionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
