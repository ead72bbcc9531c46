package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fastfood/internal/domain/model"
	repo "fastfood/internal/repository"
)

type PromotionUsecase struct {
	promotions repo.PromotionRepository
	now        func() time.Time
}

// DI
func NewPromotionUsecase(promotions repo.PromotionRepository) *PromotionUsecase {
	return &PromotionUsecase{promotions: promotions, now: time.Now}
}

func (u *PromotionUsecase) ListActive(ctx context.Context) ([]model.Promotion, error) {
	promos, err := u.promotions.ListActive(ctx, u.now())
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return promos, nil
}

func (u *PromotionUsecase) ListProducts(ctx context.Context, promotionID int64) ([]model.Product, error) {
	if promotionID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid promotion_id")
	}
	products, err := u.promotions.ListProducts(ctx, promotionID, u.now())
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return products, nil
}

// Applicable はカート行に適用可能な販促をすべて返す。
// 複数候補の中からどれを使うかはチェックアウト側がpromotionIdで指名し、
// ここでは重ね掛けしない。
func (u *PromotionUsecase) Applicable(ctx context.Context, lines []PricedLine) ([]model.Promotion, error) {
	promos, err := u.promotions.ListActive(ctx, u.now())
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.now()
	var matched []model.Promotion
	for _, p := range promos {
		for _, l := range lines {
			if p.AppliesTo(l.ProductID, l.CategoryID, now) {
				matched = append(matched, p)
				break
			}
		}
	}
	return matched, nil
}

// ResolveForCheckout はクライアント申告のpromotionIdをサーバー側で
// 再検証する。存在しない・期限切れ・1行もマッチしない場合は
// nil（割引0）を返し、チェックアウト自体は失敗させない。
func (u *PromotionUsecase) ResolveForCheckout(ctx context.Context, promotionID *int64, lines []PricedLine) (*model.Promotion, error) {
	if promotionID == nil || *promotionID <= 0 {
		return nil, nil
	}

	p, err := u.promotions.FindByID(ctx, *promotionID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.now()
	for _, l := range lines {
		if p.AppliesTo(l.ProductID, l.CategoryID, now) {
			return &p, nil
		}
	}

	//1行もマッチしなければ適用なし扱い
	return nil, nil
}
