package model

const (
	NotificationTypeMessage  = "message"
	NotificationTypeLike     = "like"
	NotificationTypeFavorite = "favorite"
	NotificationTypeOffer    = "offer"
	NotificationTypeSystem   = "system"
)

// 站内通知，由consumer进程从消息队列里消费后落库，API进程只负责读和改已读状态
type Notification struct {
	BaseModel
	UserID  uint64 `gorm:"not null;index"` // 收件人
	Type    string `gorm:"not null"`       // message / like / favorite / offer / system
	Message string `gorm:"not null"`
	Read    bool   `gorm:"default:false"`
	// 指针的零值是nil，系统通知可以没有发送者和关联房源
	SenderID  *uint64
	ListingID *uint64

	Sender  User    `gorm:"foreignKey:SenderID"`
	Listing Listing `gorm:"foreignKey:ListingID"`
}

func (Notification) TableName() string {
	return "notifications"
}
