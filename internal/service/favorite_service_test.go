package service

import (
	"errors"
	"testing"

	"Vega_Estate/internal/model"
)

func newFavoriteTestEnv() (*fakeListingRepo, *fakeFavoriteRepo, *fakePublisher, FavoriteService) {
	listingRepo := newFakeListingRepo()
	likeRepo := newFakeLikeRepo()
	favoriteRepo := newFakeFavoriteRepo()
	publisher := &fakePublisher{}
	uow := &fakeUnitOfWork{listingRepo: listingRepo, likeRepo: likeRepo, favoriteRepo: favoriteRepo}
	svc := NewFavoriteService(listingRepo, favoriteRepo, uow, publisher)
	return listingRepo, favoriteRepo, publisher, svc
}

// 重复收藏是幂等的：第二次返回同一条记录，计数器只能加一次
func TestAddFavoriteIdempotent(t *testing.T) {
	listingRepo, favoriteRepo, _, svc := newFavoriteTestEnv()
	listing := seedListing(t, listingRepo, 1)

	first, err := svc.AddFavorite(2, listing.ID)
	if err != nil {
		t.Fatalf("第一次收藏失败: %v", err)
	}
	if first.Already {
		t.Error("第一次收藏不应该是Already")
	}
	if first.Favorite == nil || first.Favorite.ID == 0 {
		t.Fatal("第一次收藏应该返回新建的记录")
	}
	stored, _ := listingRepo.FindByIDFromDB(listing.ID)
	if stored.Likes != 1 {
		t.Errorf("收藏后计数器应该是1, 实际是 %d", stored.Likes)
	}

	second, err := svc.AddFavorite(2, listing.ID)
	if err != nil {
		t.Fatalf("重复收藏不应该报错: %v", err)
	}
	if !second.Already {
		t.Error("重复收藏应该标记Already")
	}
	if second.Favorite.ID != first.Favorite.ID {
		t.Errorf("重复收藏应该返回已有记录 %d, 实际返回 %d", first.Favorite.ID, second.Favorite.ID)
	}
	stored, _ = listingRepo.FindByIDFromDB(listing.ID)
	if stored.Likes != 1 {
		t.Errorf("重复收藏绝不能再动计数器, 期望1实际 %d", stored.Likes)
	}
	if count, _ := favoriteRepo.CountByListing(listing.ID); count != 1 {
		t.Errorf("台账应该只有1条, 实际有 %d 条", count)
	}
}

func TestAddFavoriteListingNotFound(t *testing.T) {
	_, _, _, svc := newFavoriteTestEnv()

	_, err := svc.AddFavorite(1, 999)
	if !errors.Is(err, ErrListingNotFound) {
		t.Errorf("期望ErrListingNotFound, 实际是 %v", err)
	}
}

// 两个请求同时挤进插入分支：输家撞上唯一索引后要把赢家的记录查出来返回，表现和普通的重复收藏一样
func TestAddFavoriteDuplicateInsertRace(t *testing.T) {
	listingRepo, favoriteRepo, _, svc := newFavoriteTestEnv()
	listing := seedListing(t, listingRepo, 1)

	winner, err := svc.AddFavorite(2, listing.ID)
	if err != nil {
		t.Fatalf("赢家收藏失败: %v", err)
	}
	// 输家的事务查重时还看不到赢家的记录
	favoriteRepo.hideExistingOnce = true

	loser, err := svc.AddFavorite(2, listing.ID)
	if err != nil {
		t.Fatalf("竞争失败应该兜底成功返回, 实际报错: %v", err)
	}
	if !loser.Already {
		t.Error("竞争失败应该标记Already")
	}
	if loser.Favorite.ID != winner.Favorite.ID {
		t.Errorf("应该返回赢家的记录 %d, 实际返回 %d", winner.Favorite.ID, loser.Favorite.ID)
	}
	stored, _ := listingRepo.FindByIDFromDB(listing.ID)
	if stored.Likes != 1 {
		t.Errorf("竞争失败后计数器应该还是1, 实际是 %d", stored.Likes)
	}
}

// 移除不存在的收藏要返回NotFound，并且计数器一根汗毛都不能动
func TestRemoveFavoriteNotFound(t *testing.T) {
	listingRepo, _, _, svc := newFavoriteTestEnv()
	listing := seedListing(t, listingRepo, 1)
	listingRepo.listings[listing.ID].Likes = 5

	err := svc.RemoveFavorite(2, listing.ID)
	if !errors.Is(err, ErrFavoriteNotFound) {
		t.Errorf("期望ErrFavoriteNotFound, 实际是 %v", err)
	}
	stored, _ := listingRepo.FindByIDFromDB(listing.ID)
	if stored.Likes != 5 {
		t.Errorf("移除失败时计数器不能变, 期望5实际 %d", stored.Likes)
	}
}

func TestAddThenRemoveFavorite(t *testing.T) {
	listingRepo, favoriteRepo, _, svc := newFavoriteTestEnv()
	listing := seedListing(t, listingRepo, 1)

	if _, err := svc.AddFavorite(2, listing.ID); err != nil {
		t.Fatalf("收藏失败: %v", err)
	}
	if err := svc.RemoveFavorite(2, listing.ID); err != nil {
		t.Fatalf("移除收藏失败: %v", err)
	}
	stored, _ := listingRepo.FindByIDFromDB(listing.ID)
	if stored.Likes != 0 {
		t.Errorf("移除后计数器应该归零, 实际是 %d", stored.Likes)
	}
	if count, _ := favoriteRepo.CountByListing(listing.ID); count != 0 {
		t.Errorf("台账里不应该有残留记录, 实际有 %d 条", count)
	}

	// 再移除一次应该是NotFound
	if err := svc.RemoveFavorite(2, listing.ID); !errors.Is(err, ErrFavoriteNotFound) {
		t.Errorf("期望ErrFavoriteNotFound, 实际是 %v", err)
	}
}

func TestAddFavoriteNotifiesOwner(t *testing.T) {
	listingRepo, _, publisher, svc := newFavoriteTestEnv()
	listing := seedListing(t, listingRepo, 1)

	if _, err := svc.AddFavorite(2, listing.ID); err != nil {
		t.Fatalf("收藏失败: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("应该发布1条通知, 实际发布 %d 条", len(publisher.published))
	}
	if publisher.published[0].Type != model.NotificationTypeFavorite {
		t.Errorf("通知类型应该是 %s, 实际是 %s", model.NotificationTypeFavorite, publisher.published[0].Type)
	}

	// 重复收藏不再发通知
	if _, err := svc.AddFavorite(2, listing.ID); err != nil {
		t.Fatalf("重复收藏失败: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Errorf("重复收藏不应该发通知, 实际共发布 %d 条", len(publisher.published))
	}
}

func TestCheckFavorite(t *testing.T) {
	listingRepo, _, _, svc := newFavoriteTestEnv()
	listing := seedListing(t, listingRepo, 1)

	favorited, _, err := svc.CheckFavorite(2, listing.ID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if favorited {
		t.Error("收藏前应该是false")
	}

	result, err := svc.AddFavorite(2, listing.ID)
	if err != nil {
		t.Fatalf("收藏失败: %v", err)
	}
	favorited, favoriteID, err := svc.CheckFavorite(2, listing.ID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if !favorited {
		t.Error("收藏后应该是true")
	}
	if favoriteID != result.Favorite.ID {
		t.Errorf("返回的收藏ID应该是 %d, 实际是 %d", result.Favorite.ID, favoriteID)
	}
}
