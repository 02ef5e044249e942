package main

import (
	"Vega_Estate/internal/model"
	"Vega_Estate/internal/repository"
	"Vega_Estate/internal/service"
	"Vega_Estate/pkg/logger"
	"Vega_Estate/pkg/rabbitmq"
	"encoding/json"
	"os"

	"github.com/streadway/amqp"
	gorm_mysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// 消费者进程：连接mysql和rabbitMQ，把点赞/收藏产生的通知消息落库
// 通知写库从API请求路径里摘出来了，点赞请求不用等通知写完才返回
func main() {
	logger.InitLogger()

	// 连接数据库
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/vega_estate?charset=utf8mb4&parseTime=True&loc=Local"
	}
	db, err := gorm.Open(gorm_mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到数据库: %v", err)
	}
	// 连接RabbitMQ
	rabbitMQConn, err := rabbitmq.InitRabbitMQ()
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()

	notificationRepo := repository.NewNotificationRepository(db)
	// 开始消费消息
	consumeNotifications(rabbitMQConn, notificationRepo)
}

// 通知消息队列消费者：1、通过mq的TCP连接创建channel 2、声明队列并注册消费者 3、利用无缓冲通道持续消费消息 4、落库，并对mq中的消息进行安全管理
func consumeNotifications(conn *amqp.Connection, repo repository.NotificationRepository) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatalf("无法打开Channel: %v", err)
	}
	defer ch.Close()

	// 消费者也可能比API进程先启动，声明一下队列（幂等）
	_, err = ch.QueueDeclare(
		service.QueueNotification, // name
		true,                      // durable
		false,                     // autoDelete
		false,                     // exclusive
		false,                     // noWait
		nil,                       // args
	)
	if err != nil {
		logger.Log.Fatalf("无法声明通知队列: %v", err)
	}

	msgs, err := ch.Consume(
		service.QueueNotification, // queue
		"",                        // consumer
		false,                     // auto-ack: 手动确认，处理成功才算消费完
		false,                     // exclusive
		false,                     // no-local
		false,                     // no-wait
		nil,                       // args
	)
	if err != nil {
		logger.Log.Fatalf("无法注册通知消费者: %v", err)
	}
	// 创建一个没有任何缓冲的bool类型通道
	forever := make(chan bool)

	go func() {
		// msgs不是切片，而是通道channel，如果通道为空不会结束循环，而会“阻塞”
		for d := range msgs {
			logCtx := logger.Log.WithField("body", string(d.Body)).WithField("redelivered", d.Redelivered)
			logCtx.Info("收到一条通知消息")

			var msg service.NotificationMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				logCtx.WithError(err).Error("消息JSON解析失败")
				// 对于无法解析的“坏消息”，通知mq处理失败，并直接删除
				d.Nack(false, false)
				continue // 处理下一条
			}

			notification := &model.Notification{
				UserID:    msg.UserID,
				SenderID:  msg.SenderID,
				ListingID: msg.ListingID,
				Type:      msg.Type,
				Message:   msg.Message,
			}
			if err := repo.Create(notification); err != nil {
				// 数据库抖动之类的临时错误，要求重试
				logCtx.WithError(err).Error("通知落库失败，将进行重试")
				d.Nack(false, true)
				continue
			}
			d.Ack(false)
		}
	}()
	logger.Log.Info(" [*] 等待通知消息中. 按 CTRL+C 退出")
	// 尝试从forever通道里接收一个值，但没有发送者，这会阻止main函数退出
	<-forever
}
