package dto

import (
	"Vega_Estate/internal/model"
	"time"
)

// UserInfo 是在DTO中使用的、简化的用户信息
type UserInfo struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// ListingInfo 是通知里带的简化房源信息，不需要把整条房源都吐出去
type ListingInfo struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type NotificationResponse struct {
	ID        uint64       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Type      string       `json:"type"`
	Message   string       `json:"message"`
	Read      bool         `json:"read"`
	Sender    *UserInfo    `json:"sender,omitempty"`
	Listing   *ListingInfo `json:"listing,omitempty"`
}

func ToNotificationResponse(n *model.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		CreatedAt: n.CreatedAt,
		Type:      n.Type,
		Message:   n.Message,
		Read:      n.Read,
	}
	// 安全地填充发送者信息，系统通知没有发送者，Preload出来的是零值结构体
	if n.Sender.ID != 0 {
		resp.Sender = &UserInfo{
			ID:       n.Sender.ID,
			Username: n.Sender.Username,
		}
	}
	if n.Listing.ID != 0 {
		resp.Listing = &ListingInfo{
			ID:   n.Listing.ID,
			Name: n.Listing.Name,
		}
	}
	return resp
}

func ToNotificationResponses(notifications []model.Notification) []NotificationResponse {
	// 创建一个有预估容量的切片，性能稍好
	response := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		response = append(response, ToNotificationResponse(&notifications[i]))
	}
	return response
}
