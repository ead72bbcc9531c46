package repository

import (
	"context"
	"errors"

	"fastfood/internal/domain/model"
	repo "fastfood/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type favoriteGormRepository struct {
	db *gorm.DB
}

// DI
func NewFavoriteGormRepository(db *gorm.DB) repo.FavoriteRepository {
	return &favoriteGormRepository{db: db}
}

// 二度目の追加はエラーではなく already=true で返す
func (r *favoriteGormRepository) Add(ctx context.Context, userID, productID int64) (bool, error) {
	fav := model.Favorite{UserID: userID, ProductID: productID}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav)

	if result.Error != nil {
		return false, result.Error
	}
	//衝突してスキップされた場合 RowsAffected=0
	return result.RowsAffected == 0, nil
}

func (r *favoriteGormRepository) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *favoriteGormRepository) Remove(ctx context.Context, userID, productID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.Favorite{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *favoriteGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Joins("JOIN favorites f ON f.product_id = products.id").
		Where("f.user_id = ?", userID).
		Where("products.is_active = TRUE").
		Order("f.created_at desc").
		Find(&products).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []model.Product{}, nil
	}
	if err != nil {
		return nil, err
	}
	return products, nil
}
