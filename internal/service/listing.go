package service

import (
	"Vega_Estate/internal/model"
	"Vega_Estate/internal/repository"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ListingInput 是创建/更新房源时的全部业务字段，handler负责绑定校验，这里负责落库
type ListingInput struct {
	Name            string
	Description     string
	Address         string
	Type            string
	TransactionType string
	RegularPrice    uint64
	DiscountPrice   uint64
	Bedroom         uint64
	Bathroom        uint64
	Area            uint64
	Finished        bool
	Parking         bool
	Offer           bool
	ImageURLs       []string
}

type ListingService interface {
	CreateListing(ownerID uint64, input ListingInput) (*model.Listing, error)
	UpdateListing(userID, listingID uint64, input ListingInput) (*model.Listing, error)
	DeleteListing(userID, listingID uint64) error

	GetListingByID(listingID uint64) (*model.Listing, error)
	SearchListings(params repository.SearchParams) ([]model.Listing, error)

	// 三个计数接口都返回自增/读取后的最新值
	IncrementViews(listingID uint64) (uint64, error)
	IncrementShares(listingID uint64) (uint64, error)
	GetViews(listingID uint64) (uint64, error)
}

type listingService struct {
	sf singleflight.Group

	listingRepo repository.ListingRepository
}

func NewListingService(listingRepo repository.ListingRepository) ListingService {
	return &listingService{
		listingRepo: listingRepo,
	}
}

// 把输入字段摊到模型上。图片数组转成JSON字符串存库
func applyListingInput(listing *model.Listing, input ListingInput) error {
	imageJSON, err := json.Marshal(input.ImageURLs)
	if err != nil {
		return err
	}
	listing.Name = input.Name
	listing.Description = input.Description
	listing.Address = input.Address
	listing.Type = input.Type
	listing.TransactionType = input.TransactionType
	listing.RegularPrice = input.RegularPrice
	listing.DiscountPrice = input.DiscountPrice
	listing.Bedroom = input.Bedroom
	listing.Bathroom = input.Bathroom
	listing.Area = input.Area
	listing.Finished = input.Finished
	listing.Parking = input.Parking
	listing.Offer = input.Offer
	listing.ImageURLs = string(imageJSON)
	return nil
}

func (s *listingService) CreateListing(ownerID uint64, input ListingInput) (*model.Listing, error) {
	newListing := &model.Listing{OwnerID: ownerID}
	if err := applyListingInput(newListing, input); err != nil {
		return nil, err
	}
	if err := s.listingRepo.Create(newListing); err != nil {
		return nil, err
	}
	return newListing, nil
}

// 更新房源：1、房源必须存在 2、只能更新自己发布的 3、覆盖字段并保存
func (s *listingService) UpdateListing(userID, listingID uint64, input ListingInput) (*model.Listing, error) {
	listing, err := s.listingRepo.FindByIDFromDB(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if listing.OwnerID != userID {
		return nil, ErrNotOwner
	}
	if err := applyListingInput(listing, input); err != nil {
		return nil, err
	}
	if err := s.listingRepo.Save(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// 删除房源：同样要校验归属
func (s *listingService) DeleteListing(userID, listingID uint64) error {
	listing, err := s.listingRepo.FindByIDFromDB(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	if listing.OwnerID != userID {
		return ErrNotOwner
	}
	return s.listingRepo.DeleteByID(listingID)
}

// 根据listingID查找房源：1、查找Redis缓存 2、未命中通过SingleFlight进行数据库查找
// 缓存刚好失效时同一房源的一堆并发请求只放一个去查库，其余等着共享结果，防止缓存击穿
func (s *listingService) GetListingByID(listingID uint64) (*model.Listing, error) {
	listing, err := s.listingRepo.GetListingCache(listingID)
	if err == nil && listing != nil {
		return listing, nil
	}
	// 不是redis中没有，而是Redis本身出错了，应该记录日志并返回
	if err != nil && err != redis.Nil {
		return nil, err
	}
	// 缓存未命中，通过SingleFlight查找
	key := fmt.Sprintf("get_listing_%d", listingID)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		dbListing, dbErr := s.listingRepo.FindByIDFromDB(listingID)
		if dbErr != nil {
			return nil, dbErr
		}
		// 查询成功后，将返回的dbListing写回缓存
		_ = s.listingRepo.SetListingCache(dbListing)
		return dbListing, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	// 返回值是interface{}结构，需要断言
	return result.(*model.Listing), nil
}

func (s *listingService) SearchListings(params repository.SearchParams) ([]model.Listing, error) {
	// 限制limit范围，原样照搬会被一次拉全表
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 9
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return s.listingRepo.Search(params)
}

// 浏览数+1并返回最新值：原子自增，影响0行说明房源不存在
func (s *listingService) IncrementViews(listingID uint64) (uint64, error) {
	rows, err := s.listingRepo.IncrementViews(listingID)
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, ErrListingNotFound
	}
	// 读回权威值。自增本身是原子的，这次读回只是为了响应体里带上最新计数
	listing, err := s.listingRepo.FindByIDFromDB(listingID)
	if err != nil {
		return 0, err
	}
	return listing.Views, nil
}

func (s *listingService) IncrementShares(listingID uint64) (uint64, error) {
	rows, err := s.listingRepo.IncrementShares(listingID)
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, ErrListingNotFound
	}
	listing, err := s.listingRepo.FindByIDFromDB(listingID)
	if err != nil {
		return 0, err
	}
	return listing.Shares, nil
}

func (s *listingService) GetViews(listingID uint64) (uint64, error) {
	listing, err := s.listingRepo.FindByIDFromDB(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrListingNotFound
		}
		return 0, err
	}
	return listing.Views, nil
}
