package repository

import (
	"Vega_Estate/internal/model"
	"Vega_Estate/pkg/logger"

	"gorm.io/gorm"
)

type FavoriteRepository interface {
	Create(favorite *model.Favorite) error
	Delete(userID, listingID uint64) error
	FindByUserAndListing(userID, listingID uint64) (*model.Favorite, error)
	// 列出用户的收藏，Preload出完整房源给收藏夹页面用
	ListByUser(userID uint64) ([]model.Favorite, error)
	CountByListing(listingID uint64) (int64, error)

	WithTx(tx *gorm.DB) FavoriteRepository
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// WithTx 返回一个新的、使用事务的 favoriteRepository 实例
func (r *favoriteRepository) WithTx(tx *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: tx}
}

func (r *favoriteRepository) Create(favorite *model.Favorite) error {
	result := r.db.Create(favorite)
	if result.Error != nil {
		logger.Log.WithError(result.Error).Error("MySQL添加收藏记录失败")
		return result.Error
	}
	return nil
}

func (r *favoriteRepository) Delete(userID, listingID uint64) error {
	// 和likes表一样，直接写原始SQL，绕开软删除的“翻译”问题
	result := r.db.Exec("DELETE FROM favorites WHERE user_id = ? AND listing_id = ?", userID, listingID)
	if result.Error != nil {
		logger.Log.WithError(result.Error).Error("MySQL删除收藏记录失败")
		return result.Error
	}
	return nil
}

func (r *favoriteRepository) FindByUserAndListing(userID, listingID uint64) (*model.Favorite, error) {
	var favorite model.Favorite
	err := r.db.Where("user_id = ? AND listing_id = ?", userID, listingID).First(&favorite).Error
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *favoriteRepository) ListByUser(userID uint64) ([]model.Favorite, error) {
	var favorites []model.Favorite
	err := r.db.
		Preload("Listing").
		Preload("Listing.Owner").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&favorites).Error
	return favorites, err
}

func (r *favoriteRepository) CountByListing(listingID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Favorite{}).Where("listing_id = ?", listingID).Count(&count).Error
	return count, err
}
