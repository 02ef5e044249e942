package service

import (
	"Vega_Estate/internal/data"
	"Vega_Estate/internal/model"
	"Vega_Estate/internal/repository"
	"Vega_Estate/pkg/logger"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// AddFavoriteResult 区分“新收藏”和“早就收藏过”，两种情况对外都是成功
type AddFavoriteResult struct {
	Favorite *model.Favorite
	Already  bool
}

type FavoriteService interface {
	// AddFavorite 幂等添加：重复收藏返回已有记录，计数器只加一次
	AddFavorite(userID, listingID uint64) (*AddFavoriteResult, error)
	RemoveFavorite(userID, listingID uint64) error
	// GetUserFavorites 返回用户收藏的房源列表（已Preload完整房源）
	GetUserFavorites(userID uint64) ([]model.Favorite, error)
	CheckFavorite(userID, listingID uint64) (favorited bool, favoriteID uint64, err error)
	CountListingFavorites(listingID uint64) (int64, error)
}

type favoriteService struct {
	listingRepo  repository.ListingRepository
	favoriteRepo repository.FavoriteRepository
	uow          data.UnitOfWork
	publisher    NotificationPublisher
}

func NewFavoriteService(listingRepo repository.ListingRepository, favoriteRepo repository.FavoriteRepository, uow data.UnitOfWork, publisher NotificationPublisher) FavoriteService {
	return &favoriteService{
		listingRepo:  listingRepo,
		favoriteRepo: favoriteRepo,
		uow:          uow,
		publisher:    publisher,
	}
}

// 添加收藏：1、房源必须存在 2、事务里查重，已有就原样返回，没有就插台账+计数器+1
// 两个请求同时挤进“插入”分支时，唯一索引会拦下后到的那个（1062），
// 这时重新把赢家插的那条查出来返回，对外表现和“先查到已存在”完全一样
func (s *favoriteService) AddFavorite(userID, listingID uint64) (*AddFavoriteResult, error) {
	listing, err := s.listingRepo.FindByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	var favorite *model.Favorite
	var already bool

	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		existing, err := repos.FavoriteRepo.FindByUserAndListing(userID, listingID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			// 幂等：不再插入，也绝不能再动计数器
			favorite = existing
			already = true
			return nil
		}

		newFavorite := &model.Favorite{UserID: userID, ListingID: listingID}
		if err := repos.FavoriteRepo.Create(newFavorite); err != nil {
			return err
		}
		if err := repos.ListingRepo.IncrementLikes(listingID); err != nil {
			return err
		}
		favorite = newFavorite
		return nil
	})
	if err != nil {
		if isDuplicateKeyErr(err) {
			// 并发竞争输了，事务已回滚（计数器没有多加），把赢家的记录查出来返回
			existing, findErr := s.favoriteRepo.FindByUserAndListing(userID, listingID)
			if findErr != nil {
				return nil, findErr
			}
			return &AddFavoriteResult{Favorite: existing, Already: true}, nil
		}
		return nil, err
	}

	if !already {
		_ = s.listingRepo.DeleteListingCache(listingID)

		// 给房主发通知，失败不影响收藏本身
		if listing.OwnerID != userID && s.publisher != nil {
			msg := NotificationMessage{
				UserID:    listing.OwnerID,
				SenderID:  &userID,
				ListingID: &listingID,
				Type:      model.NotificationTypeFavorite,
				Message:   fmt.Sprintf("有人收藏了你的房源「%s」", listing.Name),
			}
			if err := s.publisher.PublishNotification(msg); err != nil {
				logger.Log.WithError(err).WithField("listing_id", listingID).Warn("收藏通知投递失败")
			}
		}
	}

	return &AddFavoriteResult{Favorite: favorite, Already: already}, nil
}

// 移除收藏：1、事务里先确认收藏存在，不存在返回NotFound且绝不动计数器 2、删台账+计数器-1
func (s *favoriteService) RemoveFavorite(userID, listingID uint64) error {
	err := s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		_, err := repos.FavoriteRepo.FindByUserAndListing(userID, listingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFavoriteNotFound
			}
			return err
		}
		if err := repos.FavoriteRepo.Delete(userID, listingID); err != nil {
			return err
		}
		return repos.ListingRepo.DecrementLikes(listingID)
	})
	if err != nil {
		return err
	}

	_ = s.listingRepo.DeleteListingCache(listingID)
	return nil
}

func (s *favoriteService) GetUserFavorites(userID uint64) ([]model.Favorite, error) {
	return s.favoriteRepo.ListByUser(userID)
}

// 查询是否收藏过，顺便把收藏记录ID带出去，前端“取消收藏”按钮要用
func (s *favoriteService) CheckFavorite(userID, listingID uint64) (bool, uint64, error) {
	favorite, err := s.favoriteRepo.FindByUserAndListing(userID, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, favorite.ID, nil
}

// 收藏台账的计数，和房源上的热度计数器、点赞台账数是三个独立口径
func (s *favoriteService) CountListingFavorites(listingID uint64) (int64, error) {
	return s.favoriteRepo.CountByListing(listingID)
}
