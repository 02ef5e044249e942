package service

import (
	"Vega_Estate/internal/dto"
	"Vega_Estate/internal/repository"
	"encoding/json"
	"errors"

	"github.com/streadway/amqp"
	"gorm.io/gorm"
)

const (
	// 遵循：项目名.业务领域.实体/功能
	QueueNotification = "vega.notification.queue"
)

// NotificationMessage 定义了我们要在MQ中传递的消息结构
// API进程只负责把它扔进队列，落库由consumer进程慢慢做，点赞请求不用等通知写完
type NotificationMessage struct {
	UserID    uint64  `json:"user_id"` // 收件人
	SenderID  *uint64 `json:"sender_id"`
	ListingID *uint64 `json:"listing_id"`
	Type      string  `json:"type"`
	Message   string  `json:"message"`
}

// NotificationPublisher 只暴露发布能力，点赞/收藏服务依赖这个小接口，测试时好替换
type NotificationPublisher interface {
	PublishNotification(msg NotificationMessage) error
}

type NotificationService interface {
	NotificationPublisher
	GetNotifications(userID uint64) ([]dto.NotificationResponse, error)
	MarkRead(userID, notificationID uint64) (*dto.NotificationResponse, error)
	MarkAllRead(userID uint64) error
	DeleteNotification(userID, notificationID uint64) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	rabbitMQConn     *amqp.Connection
}

func NewNotificationService(notificationRepo repository.NotificationRepository, rabbitMQConn *amqp.Connection) NotificationService {
	if rabbitMQConn != nil {
		ch, err := rabbitMQConn.Channel()
		if err != nil {
			// 在实际项目中，这里应该有更健壮的错误处理和重试机制
			panic("Failed to open a channel")
		}
		// 声明队列之后这个临时的Channel就被关闭了
		defer ch.Close()
		// 创建名叫“vega.notification.queue”的邮筒，有就不用创建（幂等）
		_, err = ch.QueueDeclare(
			QueueNotification, // name
			true,              // durable: 队列持久化，RabbitMQ重启后队列本身不会消失
			false,             // autoDelete
			false,             // exclusive
			false,             // noWait
			nil,               // args
		)
		if err != nil {
			panic("Failed to declare a queue")
		}
	}

	return &notificationService{
		notificationRepo: notificationRepo,
		rabbitMQConn:     rabbitMQConn,
	}
}

// 发送消息到RabbitMQ：1、创建channel 2、序列化NotificationMessage结构体 3、发布消息
func (s *notificationService) PublishNotification(msg NotificationMessage) error {
	// 为每一个消息建立一个单独的channel，消息之间互不影响
	ch, err := s.rabbitMQConn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return ch.Publish(
		"",                // exchange默认交换机
		QueueNotification, // routing key “邮筒”名字 vega.notification.queue
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // 确保消息持久化
		})
}

// 获取用户的全部通知，时间倒序
func (s *notificationService) GetNotifications(userID uint64) ([]dto.NotificationResponse, error) {
	notifications, err := s.notificationRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return dto.ToNotificationResponses(notifications), nil
}

// 标记单条通知为已读：1、通知必须存在 2、只能标记自己的通知 3、改已读并返回最新内容
func (s *notificationService) MarkRead(userID, notificationID uint64) (*dto.NotificationResponse, error) {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if notification.UserID != userID {
		return nil, ErrNotOwner
	}
	if err := s.notificationRepo.MarkRead(notificationID); err != nil {
		return nil, err
	}
	notification.Read = true
	resp := dto.ToNotificationResponse(notification)
	return &resp, nil
}

func (s *notificationService) MarkAllRead(userID uint64) error {
	return s.notificationRepo.MarkAllRead(userID)
}

// 删除通知，同样要校验归属
func (s *notificationService) DeleteNotification(userID, notificationID uint64) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if notification.UserID != userID {
		return ErrNotOwner
	}
	return s.notificationRepo.Delete(notificationID)
}
