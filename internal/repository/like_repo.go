package repository

import (
	"Vega_Estate/internal/model"
	"Vega_Estate/pkg/logger"

	"gorm.io/gorm"
)

type LikeRepository interface {
	Create(like *model.Like) error
	Delete(userID, listingID uint64) error
	FindByUserAndListing(userID, listingID uint64) (*model.Like, error)
	CountByListing(listingID uint64) (int64, error)

	WithTx(tx *gorm.DB) LikeRepository
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// WithTx 返回一个新的、使用事务的 likeRepository 实例
func (r *likeRepository) WithTx(tx *gorm.DB) LikeRepository {
	return &likeRepository{db: tx}
}

func (r *likeRepository) Create(like *model.Like) error {
	result := r.db.Create(like)
	if result.Error != nil {
		logger.Log.WithError(result.Error).Error("MySQL添加点赞记录失败")
		return result.Error
	}
	return nil
}

func (r *likeRepository) Delete(userID, listingID uint64) error {
	// gorm的Where+Delete在软删除模型上生成的SQL踩过坑，这里直接写原始SQL最稳
	result := r.db.Exec("DELETE FROM likes WHERE user_id = ? AND listing_id = ?", userID, listingID)
	if result.Error != nil {
		logger.Log.WithError(result.Error).Error("MySQL删除点赞记录失败")
		return result.Error
	}
	return nil
}

// 查找某用户对某房源的点赞记录，没有就返回gorm.ErrRecordNotFound，由上层判断
func (r *likeRepository) FindByUserAndListing(userID, listingID uint64) (*model.Like, error) {
	var like model.Like
	err := r.db.Where("user_id = ? AND listing_id = ?", userID, listingID).First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// 台账里的真实点赞数。冗余计数器可能漂移，对外说“准数”的接口都走这里
func (r *likeRepository) CountByListing(listingID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Like{}).Where("listing_id = ?", listingID).Count(&count).Error
	return count, err
}
