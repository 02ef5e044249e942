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

// ToggleLikeResult 是一次切换之后的最终状态
// TotalLikes统一取台账的COUNT，而不是房源上的冗余计数器，台账是不会漂移的那份
type ToggleLikeResult struct {
	Liked      bool
	Like       *model.Like
	TotalLikes int64
}

type LikeService interface {
	// ToggleLike 有赞则取消，无赞则点上，返回切换后的状态
	ToggleLike(userID, listingID uint64) (*ToggleLikeResult, error)
	// GetLikesByListing 同时返回台账数和冗余计数器，两个数可能不一致，调用方自己取舍
	GetLikesByListing(listingID uint64) (totalLikes int64, listingLikes uint64, err error)
	CheckUserLike(userID, listingID uint64) (liked bool, totalLikes int64, err error)
}

type likeService struct {
	listingRepo repository.ListingRepository
	likeRepo    repository.LikeRepository
	uow         data.UnitOfWork
	publisher   NotificationPublisher
}

func NewLikeService(listingRepo repository.ListingRepository, likeRepo repository.LikeRepository, uow data.UnitOfWork, publisher NotificationPublisher) LikeService {
	return &likeService{
		listingRepo: listingRepo,
		likeRepo:    likeRepo,
		uow:         uow,
		publisher:   publisher,
	}
}

// 切换点赞：1、房源必须存在 2、事务里锁住房源行，查台账、反转关系、同步调整冗余计数器 3、读回台账数
// 台账写入和计数器调整在同一个事务里，要么都成要么都不成，计数器不会再和台账各说各话
func (s *likeService) ToggleLike(userID, listingID uint64) (*ToggleLikeResult, error) {
	listing, err := s.listingRepo.FindByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	var liked bool
	var newLike *model.Like

	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		// FOR UPDATE锁住房源行，同一条房源上的并发切换在这里排队
		if _, err := repos.ListingRepo.FindByIDForUpdate(listingID); err != nil {
			return err
		}

		existing, err := repos.LikeRepo.FindByUserAndListing(userID, listingID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if existing != nil {
			// 已经点过赞，本次是取消：删台账 + 计数器-1
			if err := repos.LikeRepo.Delete(userID, listingID); err != nil {
				return err
			}
			if err := repos.ListingRepo.DecrementLikes(listingID); err != nil {
				return err
			}
			liked = false
			return nil
		}

		// 没点过赞，本次是点上：插台账 + 计数器+1
		like := &model.Like{UserID: userID, ListingID: listingID}
		if err := repos.LikeRepo.Create(like); err != nil {
			return err
		}
		if err := repos.ListingRepo.IncrementLikes(listingID); err != nil {
			return err
		}
		liked = true
		newLike = like
		return nil
	})
	if err != nil {
		// 行锁已经把同一房源的切换串行化了，但万一两个事务还是挤进了同一个“插入”分支，
		// 唯一索引会拦下后到的那个，当成“已点赞”返回，而不是500
		if isDuplicateKeyErr(err) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}

	// 计数器变了，缓存里那份房源作废
	_ = s.listingRepo.DeleteListingCache(listingID)

	totalLikes, err := s.likeRepo.CountByListing(listingID)
	if err != nil {
		return nil, err
	}

	// 给房主发通知。发布失败不影响点赞本身，记日志就行
	if liked && listing.OwnerID != userID && s.publisher != nil {
		msg := NotificationMessage{
			UserID:    listing.OwnerID,
			SenderID:  &userID,
			ListingID: &listingID,
			Type:      model.NotificationTypeLike,
			Message:   fmt.Sprintf("有人赞了你的房源「%s」", listing.Name),
		}
		if err := s.publisher.PublishNotification(msg); err != nil {
			logger.Log.WithError(err).WithField("listing_id", listingID).Warn("点赞通知投递失败")
		}
	}

	return &ToggleLikeResult{
		Liked:      liked,
		Like:       newLike,
		TotalLikes: totalLikes,
	}, nil
}

// 查询某房源的点赞数：台账数和冗余计数器分开返回，两个口径都给，前端显示用哪个它自己定
func (s *likeService) GetLikesByListing(listingID uint64) (int64, uint64, error) {
	totalLikes, err := s.likeRepo.CountByListing(listingID)
	if err != nil {
		return 0, 0, err
	}

	listing, err := s.listingRepo.FindByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 房源没了台账还在的话，计数器按0算，这个接口本来就是给前端展示用的
			return totalLikes, 0, nil
		}
		return 0, 0, err
	}
	return totalLikes, listing.Likes, nil
}

// 查询用户是否赞过某房源。这里的totalLikes也走台账，和GetLikesByListing口径统一
func (s *likeService) CheckUserLike(userID, listingID uint64) (bool, int64, error) {
	_, err := s.likeRepo.FindByUserAndListing(userID, listingID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, 0, err
	}
	liked := err == nil

	totalLikes, err := s.likeRepo.CountByListing(listingID)
	if err != nil {
		return false, 0, err
	}
	return liked, totalLikes, nil
}
