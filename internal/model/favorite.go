package model

// 用户与房源的收藏关系，和Like是两张独立的台账，但两者都会动Listing.Likes这个热度计数
type Favorite struct {
	BaseModel
	UserID    uint64 `gorm:"uniqueIndex:idx_user_listing_fav"` // 联合唯一索引，一人一房源只能收藏一次
	ListingID uint64 `gorm:"uniqueIndex:idx_user_listing_fav"`

	// 外键ListingID和Listing表的ID，列收藏夹时要Preload出完整房源
	Listing Listing `gorm:"foreignKey:ListingID;references:ID"`
}

func (Favorite) TableName() string {
	return "favorites"
}
