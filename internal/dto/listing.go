package dto

import (
	"Vega_Estate/internal/model"
	"encoding/json"
	"time"
)

type ListingResponse struct {
	ID              uint64    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Address         string    `json:"address"`
	Type            string    `json:"type"`
	TransactionType string    `json:"transaction_type"`
	RegularPrice    uint64    `json:"regular_price"`
	DiscountPrice   uint64    `json:"discount_price"`
	Bedroom         uint64    `json:"bedroom"`
	Bathroom        uint64    `json:"bathroom"`
	Area            uint64    `json:"area"`
	Finished        bool      `json:"finished"`
	Parking         bool      `json:"parking"`
	Offer           bool      `json:"offer"`
	ImageURLs       []string  `json:"image_urls"`
	Likes           uint64    `json:"likes"`
	Views           uint64    `json:"views"`
	Shares          uint64    `json:"shares"`
	Owner           struct {  // 在这里定义了Owner的精确形状
		ID       uint64 `json:"id"`
		Username string `json:"username"`
	} `json:"owner"`
}

// ToListingResponse 是一个转换函数，把DB模型转换为API响应模型，并且正确利用preload返回的数据，增强返回数据的健壮性
func ToListingResponse(listing *model.Listing) ListingResponse {
	resp := ListingResponse{
		ID:              listing.ID,
		CreatedAt:       listing.CreatedAt,
		Name:            listing.Name,
		Description:     listing.Description,
		Address:         listing.Address,
		Type:            listing.Type,
		TransactionType: listing.TransactionType,
		RegularPrice:    listing.RegularPrice,
		DiscountPrice:   listing.DiscountPrice,
		Bedroom:         listing.Bedroom,
		Bathroom:        listing.Bathroom,
		Area:            listing.Area,
		Finished:        listing.Finished,
		Parking:         listing.Parking,
		Offer:           listing.Offer,
		Likes:           listing.Likes,
		Views:           listing.Views,
		Shares:          listing.Shares,
	}
	// 数据库里存的是JSON字符串，响应里要还原成数组。解析失败就当没有图片
	if listing.ImageURLs != "" {
		_ = json.Unmarshal([]byte(listing.ImageURLs), &resp.ImageURLs)
	}
	if resp.ImageURLs == nil {
		resp.ImageURLs = []string{}
	}
	// 检查Owner是否被成功preload
	if listing.Owner.ID != 0 {
		resp.Owner.ID = listing.Owner.ID
		resp.Owner.Username = listing.Owner.Username
	} else {
		// 如果没有preload，就返回listing结构体本身的
		resp.Owner.ID = listing.OwnerID
	}
	return resp
}
