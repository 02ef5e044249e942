package model

// Listing结构，一条房源都要有什么？标题、描述、地址、类型、价格，还有三个冗余计数器
// 类型和交易类型沿用葡语市场的叫法：casa/apartamento/terreno/machamba/obra，venda/arrendar
type Listing struct {
	BaseModel
	OwnerID     uint64 `gorm:"not null;index"` // 房源发布者ID，用于关联用户和权限校验
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text;not null"`
	Address     string `gorm:"not null"` // 逗号前面的部分当作城市，做统计时按它分组

	Type            string `gorm:"not null;index"`                 // casa / apartamento / terreno / machamba / obra
	TransactionType string `gorm:"not null;index;default:'venda'"` // venda / arrendar

	RegularPrice  uint64 `gorm:"not null"`
	DiscountPrice uint64 `gorm:"not null"`
	Bedroom       uint64 `gorm:"default:0"`
	Bathroom      uint64 `gorm:"default:0"`
	Area          uint64 `gorm:"default:0"`
	Finished      bool   `gorm:"default:false"`
	Parking       bool   `gorm:"default:false"`
	Offer         bool   `gorm:"default:false"`

	// 图片URL列表，MySQL没有数组类型，存成JSON字符串，出入库时在repository层转换
	ImageURLs string `gorm:"type:text"`

	// 三个冗余计数器。Likes是点赞和收藏共用的“热度”数，可能和台账有出入，读台账才是准的
	Likes  uint64 `gorm:"default:0"`
	Views  uint64 `gorm:"default:0"`
	Shares uint64 `gorm:"default:0"`

	// 外键OwnerID和User表的ID
	Owner User `gorm:"foreignKey:OwnerID;references:ID"`
}

// 想精确控制表名，就必须实现TableName()方法规定表名
func (Listing) TableName() string {
	return "listings"
}
