package handler

import (
	"Vega_Estate/internal/service"
	"Vega_Estate/pkg/logger"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LikeHandler interface {
	ToggleLike(c *gin.Context)
	GetLikesByListing(c *gin.Context)
	CheckUserLike(c *gin.Context)
}

type likeHandler struct {
	LikeService service.LikeService
}

func NewLikeHandler(likeService service.LikeService) LikeHandler {
	return &likeHandler{LikeService: likeService}
}

// 切换点赞：1、从URL通过:listing_id获取房源ID 2、从认证后的context获取userID 3、执行切换服务
// 响应带上切换后的状态和台账里的总赞数，前端不用再发一次查询
func (h *likeHandler) ToggleLike(c *gin.Context) {
	// :listing_id用来定位资源(Resource)，放在URL路径里，用c.Param()获取
	// URL中取回的是str，统一转化为uint64
	listingIDStr := c.Param("listing_id")
	listingID, err := strconv.ParseUint(listingIDStr, 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的房源ID")
		return
	}
	userID, err := currentUserID(c)
	if err != nil {
		abortUnauthed(c)
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("listing_id", listingID)

	result, err := h.LikeService.ToggleLike(userID, listingID)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			logCtx.WithError(err).Warn("切换点赞失败：房源不存在")
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, service.ErrAlreadyLiked) {
			// 并发双击，后到的请求拿到这个错。对前端来说不算失败，直接告知当前状态
			sendErrorResponse(c, http.StatusConflict, err.Error())
			return
		}
		logCtx.WithError(err).Error("切换点赞失败")
		sendErrorResponse(c, http.StatusInternalServerError, "操作失败，请稍后再试")
		return
	}

	logCtx.WithField("liked", result.Liked).Info("切换点赞成功")

	if result.Liked {
		c.JSON(http.StatusCreated, gin.H{
			"liked": true,
			"like": gin.H{
				"id":         result.Like.ID,
				"user_id":    result.Like.UserID,
				"listing_id": result.Like.ListingID,
				"created_at": result.Like.CreatedAt,
			},
			"total_likes": result.TotalLikes,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"liked":       false,
		"total_likes": result.TotalLikes,
	})
}

// 查询房源点赞数：台账数(total_likes)和冗余计数器(listing_likes)分开返回
// 两个数可能不一致，计数器还会被收藏操作调整，调用方必须容忍这种分歧
func (h *likeHandler) GetLikesByListing(c *gin.Context) {
	listingIDStr := c.Param("listing_id")
	listingID, err := strconv.ParseUint(listingIDStr, 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的房源ID")
		return
	}

	totalLikes, listingLikes, err := h.LikeService.GetLikesByListing(listingID)
	if err != nil {
		logger.Log.WithError(err).WithField("listing_id", listingID).Error("查询点赞数失败")
		sendErrorResponse(c, http.StatusInternalServerError, "查询失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_likes":   totalLikes,
		"listing_likes": listingLikes,
	})
}

// 查询当前用户是否赞过该房源
func (h *likeHandler) CheckUserLike(c *gin.Context) {
	listingIDStr := c.Param("listing_id")
	listingID, err := strconv.ParseUint(listingIDStr, 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的房源ID")
		return
	}
	userID, err := currentUserID(c)
	if err != nil {
		abortUnauthed(c)
		return
	}

	liked, totalLikes, err := h.LikeService.CheckUserLike(userID, listingID)
	if err != nil {
		logger.Log.WithError(err).WithField("listing_id", listingID).Error("查询点赞状态失败")
		sendErrorResponse(c, http.StatusInternalServerError, "查询失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"liked":       liked,
		"total_likes": totalLikes,
	})
}
