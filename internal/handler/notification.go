package handler

import (
	"Vega_Estate/internal/service"
	"Vega_Estate/pkg/logger"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationHandler interface {
	GetNotifications(c *gin.Context)
	MarkRead(c *gin.Context)
	MarkAllRead(c *gin.Context)
	DeleteNotification(c *gin.Context)
}

type notificationHandler struct {
	NotificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) NotificationHandler {
	return &notificationHandler{NotificationService: notificationService}
}

// 获取当前用户的通知列表，时间倒序
func (h *notificationHandler) GetNotifications(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortUnauthed(c)
		return
	}

	notifications, err := h.NotificationService.GetNotifications(userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("获取通知列表失败")
		sendErrorResponse(c, http.StatusInternalServerError, "查询失败，请稍后再试")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// 标记单条通知已读：通知必须存在且属于当前用户
func (h *notificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的通知ID")
		return
	}
	userID, err := currentUserID(c)
	if err != nil {
		abortUnauthed(c)
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("notification_id", notificationID)

	notification, err := h.NotificationService.MarkRead(userID, notificationID)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, service.ErrNotOwner) {
			logCtx.WithError(err).Warn("标记通知已读失败：不是通知的主人")
			sendErrorResponse(c, http.StatusUnauthorized, "只能操作自己的通知")
			return
		}
		logCtx.WithError(err).Error("标记通知已读失败")
		sendErrorResponse(c, http.StatusInternalServerError, "操作失败，请稍后再试")
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (h *notificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortUnauthed(c)
		return
	}

	if err := h.NotificationService.MarkAllRead(userID); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("全部标记已读失败")
		sendErrorResponse(c, http.StatusInternalServerError, "操作失败，请稍后再试")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "所有通知已标记为已读"})
}

func (h *notificationHandler) DeleteNotification(c *gin.Context) {
	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的通知ID")
		return
	}
	userID, err := currentUserID(c)
	if err != nil {
		abortUnauthed(c)
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("notification_id", notificationID)

	if err := h.NotificationService.DeleteNotification(userID, notificationID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, service.ErrNotOwner) {
			logCtx.WithError(err).Warn("删除通知失败：不是通知的主人")
			sendErrorResponse(c, http.StatusUnauthorized, "只能操作自己的通知")
			return
		}
		logCtx.WithError(err).Error("删除通知失败")
		sendErrorResponse(c, http.StatusInternalServerError, "操作失败，请稍后再试")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "通知已删除"})
}
