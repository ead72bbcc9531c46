package repository

import (
	"context"
	"errors"
	"time"

	"fastfood/internal/domain/model"
	repo "fastfood/internal/repository"

	"gorm.io/gorm"
)

type promotionGormRepository struct {
	db *gorm.DB
}

// DI
func NewPromotionGormRepository(db *gorm.DB) repo.PromotionRepository {
	return &promotionGormRepository{db: db}
}

// 有効な販促（Details込み）、終了日の近い順
func (r *promotionGormRepository) ListActive(ctx context.Context, now time.Time) ([]model.Promotion, error) {
	var promos []model.Promotion
	err := r.db.WithContext(ctx).
		Preload("Details", "is_active = TRUE").
		Where("is_active = TRUE").
		Where("start_date <= ? AND end_date >= ?", now, now).
		Order("end_date asc").
		Find(&promos).Error
	if err != nil {
		return nil, err
	}
	return promos, nil
}

func (r *promotionGormRepository) FindByID(ctx context.Context, promotionID int64) (model.Promotion, error) {
	var p model.Promotion
	err := r.db.WithContext(ctx).
		Preload("Details", "is_active = TRUE").
		First(&p, promotionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Promotion{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Promotion{}, err
	}
	return p, nil
}

// 販促の適用範囲（商品指定 or カテゴリ指定）に入る公開中の商品
func (r *promotionGormRepository) ListProducts(ctx context.Context, promotionID int64, now time.Time) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Distinct("products.*").
		Joins(`JOIN promotion_details pd ON
			(pd.product_id IS NOT NULL AND pd.product_id = products.id)
			OR (pd.category_id IS NOT NULL AND pd.category_id = products.category_id)`).
		Joins("JOIN promotions p ON p.id = pd.promotion_id").
		Where("pd.promotion_id = ?", promotionID).
		Where("products.is_active = TRUE").
		Where("pd.is_active = TRUE").
		Where("p.is_active = TRUE").
		Where("p.start_date <= ? AND p.end_date >= ?", now, now).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
