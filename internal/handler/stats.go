package handler

import (
	"Vega_Estate/internal/service"
	"Vega_Estate/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type StatsHandler interface {
	GetPlatformStats(c *gin.Context)
	GetTypeStats(c *gin.Context)
	GetCityStats(c *gin.Context)
}

type statsHandler struct {
	StatsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) StatsHandler {
	return &statsHandler{StatsService: statsService}
}

// 平台总览统计，落地页用，不需要登录
func (h *statsHandler) GetPlatformStats(c *gin.Context) {
	stats, err := h.StatsService.GetPlatformStats()
	if err != nil {
		logger.Log.WithError(err).Error("获取平台统计失败")
		sendErrorResponse(c, http.StatusInternalServerError, "查询失败，请稍后再试")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *statsHandler) GetTypeStats(c *gin.Context) {
	stats, err := h.StatsService.GetTypeStats()
	if err != nil {
		logger.Log.WithError(err).Error("获取类型统计失败")
		sendErrorResponse(c, http.StatusInternalServerError, "查询失败，请稍后再试")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *statsHandler) GetCityStats(c *gin.Context) {
	stats, err := h.StatsService.GetCityStats()
	if err != nil {
		logger.Log.WithError(err).Error("获取城市统计失败")
		sendErrorResponse(c, http.StatusInternalServerError, "查询失败，请稍后再试")
		return
	}
	c.JSON(http.StatusOK, stats)
}
