package repository

import (
	"Vega_Estate/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindByID(notificationID uint64) (*model.Notification, error)
	// 按时间倒序列出用户收到的通知，Preload出发送者和关联房源
	ListByUser(userID uint64) ([]model.Notification, error)
	MarkRead(notificationID uint64) error
	MarkAllRead(userID uint64) error
	Delete(notificationID uint64) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepository) FindByID(notificationID uint64) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.Preload("Sender").Preload("Listing").First(&notification, notificationID).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) ListByUser(userID uint64) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.
		Preload("Sender").
		Preload("Listing").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkRead(notificationID uint64) error {
	return r.db.Model(&model.Notification{}).Where("id = ?", notificationID).UpdateColumn("read", true).Error
}

// 一次性把用户的未读通知全标成已读
func (r *notificationRepository) MarkAllRead(userID uint64) error {
	return r.db.Model(&model.Notification{}).Where("user_id = ? AND `read` = ?", userID, false).UpdateColumn("read", true).Error
}

func (r *notificationRepository) Delete(notificationID uint64) error {
	return r.db.Delete(&model.Notification{}, notificationID).Error
}
