package service

import (
	"errors"
	"testing"
)

func newListingTestEnv() (*fakeListingRepo, ListingService) {
	listingRepo := newFakeListingRepo()
	return listingRepo, NewListingService(listingRepo)
}

func sampleInput() ListingInput {
	return ListingInput{
		Name:            "Apartamento T3 na Polana",
		Description:     "Perto da praia",
		Address:         "Maputo, Av. Julius Nyerere",
		Type:            "apartamento",
		TransactionType: "venda",
		RegularPrice:    5000000,
		DiscountPrice:   4500000,
		Bedroom:         3,
		Bathroom:        2,
		Area:            120,
		Finished:        true,
		ImageURLs:       []string{"https://test.com/a.jpg", "https://test.com/b.jpg"},
	}
}

func TestCreateListing(t *testing.T) {
	listingRepo, svc := newListingTestEnv()

	listing, err := svc.CreateListing(1, sampleInput())
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if listing.ID == 0 {
		t.Error("创建后应该有ID")
	}
	if listing.OwnerID != 1 {
		t.Errorf("OwnerID应该是1, 实际是 %d", listing.OwnerID)
	}
	// 图片数组要转成JSON字符串落库
	if listing.ImageURLs != `["https://test.com/a.jpg","https://test.com/b.jpg"]` {
		t.Errorf("图片JSON不对: %s", listing.ImageURLs)
	}
	if _, err := listingRepo.FindByIDFromDB(listing.ID); err != nil {
		t.Errorf("库里应该能查到新房源: %v", err)
	}
}

// 只能更新自己发布的房源
func TestUpdateListingOwnership(t *testing.T) {
	listingRepo, svc := newListingTestEnv()
	listing := seedListing(t, listingRepo, 1)

	if _, err := svc.UpdateListing(2, listing.ID, sampleInput()); !errors.Is(err, ErrNotOwner) {
		t.Errorf("期望ErrNotOwner, 实际是 %v", err)
	}

	updated, err := svc.UpdateListing(1, listing.ID, sampleInput())
	if err != nil {
		t.Fatalf("房主更新失败: %v", err)
	}
	if updated.Name != "Apartamento T3 na Polana" {
		t.Errorf("更新没生效: %s", updated.Name)
	}

	if _, err := svc.UpdateListing(1, 999, sampleInput()); !errors.Is(err, ErrListingNotFound) {
		t.Errorf("期望ErrListingNotFound, 实际是 %v", err)
	}
}

func TestDeleteListingOwnership(t *testing.T) {
	listingRepo, svc := newListingTestEnv()
	listing := seedListing(t, listingRepo, 1)

	if err := svc.DeleteListing(2, listing.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("期望ErrNotOwner, 实际是 %v", err)
	}
	if err := svc.DeleteListing(1, listing.ID); err != nil {
		t.Fatalf("房主删除失败: %v", err)
	}
	if _, err := svc.GetListingByID(listing.ID); !errors.Is(err, ErrListingNotFound) {
		t.Errorf("删除后应该查不到, 实际是 %v", err)
	}
}

// 浏览数是只增计数：连加N次就是N，每次都返回最新值
func TestIncrementViewsSequence(t *testing.T) {
	listingRepo, svc := newListingTestEnv()
	listing := seedListing(t, listingRepo, 1)

	for i := uint64(1); i <= 3; i++ {
		views, err := svc.IncrementViews(listing.ID)
		if err != nil {
			t.Fatalf("第%d次自增失败: %v", i, err)
		}
		if views != i {
			t.Errorf("第%d次自增后应该是%d, 实际是 %d", i, i, views)
		}
	}

	views, err := svc.GetViews(listing.ID)
	if err != nil {
		t.Fatalf("读取浏览数失败: %v", err)
	}
	if views != 3 {
		t.Errorf("浏览数应该是3, 实际是 %d", views)
	}

	if _, err := svc.IncrementViews(999); !errors.Is(err, ErrListingNotFound) {
		t.Errorf("期望ErrListingNotFound, 实际是 %v", err)
	}
}

func TestIncrementShares(t *testing.T) {
	listingRepo, svc := newListingTestEnv()
	listing := seedListing(t, listingRepo, 1)

	shares, err := svc.IncrementShares(listing.ID)
	if err != nil {
		t.Fatalf("分享自增失败: %v", err)
	}
	if shares != 1 {
		t.Errorf("分享数应该是1, 实际是 %d", shares)
	}
	if _, err := svc.IncrementShares(999); !errors.Is(err, ErrListingNotFound) {
		t.Errorf("期望ErrListingNotFound, 实际是 %v", err)
	}
}

func TestGetListingByIDNotFound(t *testing.T) {
	_, svc := newListingTestEnv()

	if _, err := svc.GetListingByID(999); !errors.Is(err, ErrListingNotFound) {
		t.Errorf("期望ErrListingNotFound, 实际是 %v", err)
	}
}

// 完整走一遍前端的互动流程：点赞、取消、收藏、重复收藏、刷浏览数
func TestInteractionScenario(t *testing.T) {
	listingRepo := newFakeListingRepo()
	likeRepo := newFakeLikeRepo()
	favoriteRepo := newFakeFavoriteRepo()
	uow := &fakeUnitOfWork{listingRepo: listingRepo, likeRepo: likeRepo, favoriteRepo: favoriteRepo}
	likeSvc := NewLikeService(listingRepo, likeRepo, uow, nil)
	favoriteSvc := NewFavoriteService(listingRepo, favoriteRepo, uow, nil)
	listingSvc := NewListingService(listingRepo)

	listing := seedListing(t, listingRepo, 1)

	// 点赞再取消，回到原点
	result, err := likeSvc.ToggleLike(2, listing.ID)
	if err != nil || !result.Liked || result.TotalLikes != 1 {
		t.Fatalf("点赞后应该是 liked=true total=1, 实际 result=%+v err=%v", result, err)
	}
	result, err = likeSvc.ToggleLike(2, listing.ID)
	if err != nil || result.Liked || result.TotalLikes != 0 {
		t.Fatalf("取消后应该是 liked=false total=0, 实际 result=%+v err=%v", result, err)
	}

	// 收藏一次计数器+1，重复收藏不再加
	if _, err := favoriteSvc.AddFavorite(2, listing.ID); err != nil {
		t.Fatalf("收藏失败: %v", err)
	}
	stored, _ := listingRepo.FindByIDFromDB(listing.ID)
	if stored.Likes != 1 {
		t.Fatalf("收藏后计数器应该是1, 实际是 %d", stored.Likes)
	}
	again, err := favoriteSvc.AddFavorite(2, listing.ID)
	if err != nil || !again.Already {
		t.Fatalf("重复收藏应该是Already, 实际 result=%+v err=%v", again, err)
	}
	stored, _ = listingRepo.FindByIDFromDB(listing.ID)
	if stored.Likes != 1 {
		t.Fatalf("重复收藏后计数器应该还是1, 实际是 %d", stored.Likes)
	}

	// 刷三次浏览数
	var views uint64
	for i := 0; i < 3; i++ {
		if views, err = listingSvc.IncrementViews(listing.ID); err != nil {
			t.Fatalf("浏览数自增失败: %v", err)
		}
	}
	if views != 3 {
		t.Fatalf("三次浏览后应该是3, 实际是 %d", views)
	}
}
