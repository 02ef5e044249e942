package handler

import (
	"Vega_Estate/internal/dto"
	"Vega_Estate/internal/service"
	"Vega_Estate/pkg/logger"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler interface {
	GetUserFavorites(c *gin.Context)
	AddFavorite(c *gin.Context)
	RemoveFavorite(c *gin.Context)
	CheckFavorite(c *gin.Context)
	CountListingFavorites(c *gin.Context)
}

type favoriteHandler struct {
	FavoriteService service.FavoriteService
}

func NewFavoriteHandler(favoriteService service.FavoriteService) FavoriteHandler {
	return &favoriteHandler{FavoriteService: favoriteService}
}

// 收藏夹：返回当前用户收藏的房源列表（完整房源，不是收藏记录本身）
func (h *favoriteHandler) GetUserFavorites(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortUnauthed(c)
		return
	}

	favorites, err := h.FavoriteService.GetUserFavorites(userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("获取收藏夹失败")
		sendErrorResponse(c, http.StatusInternalServerError, "查询失败，请稍后再试")
		return
	}

	// 把收藏记录里Preload出来的房源摊平成房源列表
	response := make([]dto.ListingResponse, 0, len(favorites))
	for i := range favorites {
		response = append(response, dto.ToListingResponse(&favorites[i].Listing))
	}
	c.JSON(http.StatusOK, response)
}

// 添加收藏：幂等操作，重复收藏返回已有记录，不报错也不重复计数
func (h *favoriteHandler) AddFavorite(c *gin.Context) {
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

	result, err := h.FavoriteService.AddFavorite(userID, listingID)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			logCtx.WithError(err).Warn("添加收藏失败：房源不存在")
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		logCtx.WithError(err).Error("添加收藏失败")
		sendErrorResponse(c, http.StatusInternalServerError, "操作失败，请稍后再试")
		return
	}

	message := "已加入收藏"
	status := http.StatusCreated
	if result.Already {
		message = "已经在收藏夹里了"
		status = http.StatusOK
	}
	logCtx.WithField("already", result.Already).Info("添加收藏成功")

	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"favorite": gin.H{
			"id":         result.Favorite.ID,
			"user_id":    result.Favorite.UserID,
			"listing_id": result.Favorite.ListingID,
			"created_at": result.Favorite.CreatedAt,
		},
	})
}

// 移除收藏：收藏记录必须存在，否则404且不会动计数器
func (h *favoriteHandler) RemoveFavorite(c *gin.Context) {
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

	if err := h.FavoriteService.RemoveFavorite(userID, listingID); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			logCtx.WithError(err).Warn("移除收藏失败：收藏记录不存在")
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		logCtx.WithError(err).Error("移除收藏失败")
		sendErrorResponse(c, http.StatusInternalServerError, "操作失败，请稍后再试")
		return
	}

	logCtx.Info("移除收藏成功")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "已从收藏夹移除",
	})
}

// 查询当前用户是否收藏过该房源，顺便带上收藏记录ID
func (h *favoriteHandler) CheckFavorite(c *gin.Context) {
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

	favorited, favoriteID, err := h.FavoriteService.CheckFavorite(userID, listingID)
	if err != nil {
		logger.Log.WithError(err).WithField("listing_id", listingID).Error("查询收藏状态失败")
		sendErrorResponse(c, http.StatusInternalServerError, "查询失败，请稍后再试")
		return
	}

	resp := gin.H{
		"success": true,
		"liked":   favorited,
	}
	if favorited {
		resp["favorite_id"] = favoriteID
	}
	c.JSON(http.StatusOK, resp)
}

// 查询某房源被收藏的次数。这是第三个独立口径，和点赞台账、热度计数器都不一样
func (h *favoriteHandler) CountListingFavorites(c *gin.Context) {
	listingIDStr := c.Param("listing_id")
	listingID, err := strconv.ParseUint(listingIDStr, 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的房源ID")
		return
	}

	count, err := h.FavoriteService.CountListingFavorites(listingID)
	if err != nil {
		logger.Log.WithError(err).WithField("listing_id", listingID).Error("查询收藏数失败")
		sendErrorResponse(c, http.StatusInternalServerError, "查询失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   count,
	})
}
