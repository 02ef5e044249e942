package service

import (
	"Vega_Estate/internal/data"
	"Vega_Estate/internal/model"
	"Vega_Estate/internal/repository"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// 单元测试用的内存版Repository。行为上模仿MySQL：
// 唯一索引冲突时返回错误号1062的*mysql.MySQLError，没找到返回gorm.ErrRecordNotFound
// 这样service层的分支逻辑（幂等、并发竞争兜底）不连真库也能测

type likeKey struct {
	userID    uint64
	listingID uint64
}

type fakeListingRepo struct {
	listings map[uint64]*model.Listing
	nextID   uint64
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[uint64]*model.Listing), nextID: 1}
}

func (r *fakeListingRepo) Create(listing *model.Listing) error {
	listing.ID = r.nextID
	r.nextID++
	copied := *listing
	r.listings[listing.ID] = &copied
	return nil
}

func (r *fakeListingRepo) Save(listing *model.Listing) error {
	if _, ok := r.listings[listing.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *listing
	r.listings[listing.ID] = &copied
	return nil
}

func (r *fakeListingRepo) DeleteByID(listingID uint64) error {
	delete(r.listings, listingID)
	return nil
}

func (r *fakeListingRepo) FindByID(listingID uint64) (*model.Listing, error) {
	return r.FindByIDFromDB(listingID)
}

func (r *fakeListingRepo) FindByIDFromDB(listingID uint64) (*model.Listing, error) {
	listing, ok := r.listings[listingID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *listing
	return &copied, nil
}

func (r *fakeListingRepo) FindByIDForUpdate(listingID uint64) (*model.Listing, error) {
	return r.FindByIDFromDB(listingID)
}

func (r *fakeListingRepo) Search(params repository.SearchParams) ([]model.Listing, error) {
	var result []model.Listing
	for _, listing := range r.listings {
		result = append(result, *listing)
	}
	return result, nil
}

func (r *fakeListingRepo) IncrementLikes(listingID uint64) error {
	if listing, ok := r.listings[listingID]; ok {
		listing.Likes++
	}
	return nil
}

func (r *fakeListingRepo) DecrementLikes(listingID uint64) error {
	// 和真实SQL一样带 likes > 0 的护栏
	if listing, ok := r.listings[listingID]; ok && listing.Likes > 0 {
		listing.Likes--
	}
	return nil
}

func (r *fakeListingRepo) IncrementViews(listingID uint64) (int64, error) {
	listing, ok := r.listings[listingID]
	if !ok {
		return 0, nil // 影响0行
	}
	listing.Views++
	return 1, nil
}

func (r *fakeListingRepo) IncrementShares(listingID uint64) (int64, error) {
	listing, ok := r.listings[listingID]
	if !ok {
		return 0, nil
	}
	listing.Shares++
	return 1, nil
}

func (r *fakeListingRepo) CountAll() (int64, error) {
	return int64(len(r.listings)), nil
}

func (r *fakeListingRepo) StatsByType() ([]repository.TypeStat, error) {
	counts := make(map[string]int64)
	for _, listing := range r.listings {
		counts[listing.Type]++
	}
	var stats []repository.TypeStat
	for t, c := range counts {
		stats = append(stats, repository.TypeStat{Type: t, Count: c})
	}
	return stats, nil
}

func (r *fakeListingRepo) StatsByCity(limit int) ([]repository.CityStat, error) {
	return nil, nil
}

func (r *fakeListingRepo) GetListingCache(listingID uint64) (*model.Listing, error) {
	return nil, nil // 永远缓存未命中
}

func (r *fakeListingRepo) SetListingCache(listing *model.Listing) error { return nil }

func (r *fakeListingRepo) DeleteListingCache(listingID uint64) error { return nil }

func (r *fakeListingRepo) WithTx(tx *gorm.DB) repository.ListingRepository { return r }

type fakeLikeRepo struct {
	likes  map[likeKey]*model.Like
	nextID uint64
	// 模拟并发竞争：置true后，下一次FindByUserAndListing假装没查到，
	// 紧接着的Create就会撞上“另一个请求”已经插入的唯一索引
	hideExistingOnce bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[likeKey]*model.Like), nextID: 1}
}

func duplicateKeyErr() error {
	return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
}

func (r *fakeLikeRepo) Create(like *model.Like) error {
	key := likeKey{like.UserID, like.ListingID}
	if _, ok := r.likes[key]; ok {
		return duplicateKeyErr()
	}
	like.ID = r.nextID
	r.nextID++
	copied := *like
	r.likes[key] = &copied
	return nil
}

func (r *fakeLikeRepo) Delete(userID, listingID uint64) error {
	delete(r.likes, likeKey{userID, listingID})
	return nil
}

func (r *fakeLikeRepo) FindByUserAndListing(userID, listingID uint64) (*model.Like, error) {
	if r.hideExistingOnce {
		r.hideExistingOnce = false
		return nil, gorm.ErrRecordNotFound
	}
	like, ok := r.likes[likeKey{userID, listingID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *like
	return &copied, nil
}

func (r *fakeLikeRepo) CountByListing(listingID uint64) (int64, error) {
	var count int64
	for key := range r.likes {
		if key.listingID == listingID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) WithTx(tx *gorm.DB) repository.LikeRepository { return r }

type fakeFavoriteRepo struct {
	favorites        map[likeKey]*model.Favorite
	nextID           uint64
	hideExistingOnce bool
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[likeKey]*model.Favorite), nextID: 1}
}

func (r *fakeFavoriteRepo) Create(favorite *model.Favorite) error {
	key := likeKey{favorite.UserID, favorite.ListingID}
	if _, ok := r.favorites[key]; ok {
		return duplicateKeyErr()
	}
	favorite.ID = r.nextID
	r.nextID++
	copied := *favorite
	r.favorites[key] = &copied
	return nil
}

func (r *fakeFavoriteRepo) Delete(userID, listingID uint64) error {
	delete(r.favorites, likeKey{userID, listingID})
	return nil
}

func (r *fakeFavoriteRepo) FindByUserAndListing(userID, listingID uint64) (*model.Favorite, error) {
	if r.hideExistingOnce {
		r.hideExistingOnce = false
		return nil, gorm.ErrRecordNotFound
	}
	favorite, ok := r.favorites[likeKey{userID, listingID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *favorite
	return &copied, nil
}

func (r *fakeFavoriteRepo) ListByUser(userID uint64) ([]model.Favorite, error) {
	var result []model.Favorite
	for key, favorite := range r.favorites {
		if key.userID == userID {
			result = append(result, *favorite)
		}
	}
	return result, nil
}

func (r *fakeFavoriteRepo) CountByListing(listingID uint64) (int64, error) {
	var count int64
	for key := range r.favorites {
		if key.listingID == listingID {
			count++
		}
	}
	return count, nil
}

func (r *fakeFavoriteRepo) WithTx(tx *gorm.DB) repository.FavoriteRepository { return r }

// fakeUnitOfWork 不开真事务，直接把内存repo递给业务函数
// 内存repo的写操作要么成功要么根本没发生，所以这里不需要回滚能力
type fakeUnitOfWork struct {
	listingRepo  repository.ListingRepository
	likeRepo     repository.LikeRepository
	favoriteRepo repository.FavoriteRepository
}

func (u *fakeUnitOfWork) Execute(fn func(repos *data.TransactionalRepositories) error) error {
	return fn(&data.TransactionalRepositories{
		ListingRepo:  u.listingRepo,
		LikeRepo:     u.likeRepo,
		FavoriteRepo: u.favoriteRepo,
	})
}

// fakePublisher 把发布的通知都记下来，断言用
type fakePublisher struct {
	published []NotificationMessage
}

func (p *fakePublisher) PublishNotification(msg NotificationMessage) error {
	p.published = append(p.published, msg)
	return nil
}
