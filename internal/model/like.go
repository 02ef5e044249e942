package model

// 用户与房源的点赞关系，uniqueIndex利用的是MySQL数据库的“自动查重”能力，而不是gorm的
// 老版本里这张表没有唯一索引，并发双击能插出两条重复点赞，现在和收藏表一样交给数据库兜底
type Like struct {
	BaseModel
	UserID    uint64 `gorm:"uniqueIndex:idx_user_listing"` // 设置联合唯一索引
	ListingID uint64 `gorm:"uniqueIndex:idx_user_listing"` // 确保一个用户对一条房源只能点赞一次
}

func (Like) TableName() string {
	return "likes"
}
