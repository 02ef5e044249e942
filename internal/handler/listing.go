package handler

import (
	"Vega_Estate/internal/dto"
	"Vega_Estate/internal/repository"
	"Vega_Estate/internal/service"
	"Vega_Estate/pkg/logger"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ListingHandler interface {
	CreateListing(c *gin.Context)
	UpdateListing(c *gin.Context)
	DeleteListing(c *gin.Context)
	GetListing(c *gin.Context)
	SearchListings(c *gin.Context)

	IncrementViews(c *gin.Context)
	IncrementShares(c *gin.Context)
	GetViews(c *gin.Context)
}

type listingHandler struct {
	ListingService service.ListingService
}

func NewListingHandler(listingService service.ListingService) ListingHandler {
	return &listingHandler{ListingService: listingService}
}

// ListingRequest 创建/更新共用一个请求体，binding校验必填字段
type ListingRequest struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	Address         string   `json:"address" binding:"required"`
	Type            string   `json:"type" binding:"required,oneof=casa apartamento terreno machamba obra"`
	TransactionType string   `json:"transaction_type" binding:"required,oneof=venda arrendar"`
	RegularPrice    uint64   `json:"regular_price" binding:"required"`
	DiscountPrice   uint64   `json:"discount_price"`
	Bedroom         uint64   `json:"bedroom"`
	Bathroom        uint64   `json:"bathroom"`
	Area            uint64   `json:"area"`
	Finished        bool     `json:"finished"`
	Parking         bool     `json:"parking"`
	Offer           bool     `json:"offer"`
	ImageURLs       []string `json:"image_urls" binding:"required,min=2"` // 至少要有2张图
}

func (req *ListingRequest) toInput() service.ListingInput {
	return service.ListingInput{
		Name:            req.Name,
		Description:     req.Description,
		Address:         req.Address,
		Type:            req.Type,
		TransactionType: req.TransactionType,
		RegularPrice:    req.RegularPrice,
		DiscountPrice:   req.DiscountPrice,
		Bedroom:         req.Bedroom,
		Bathroom:        req.Bathroom,
		Area:            req.Area,
		Finished:        req.Finished,
		Parking:         req.Parking,
		Offer:           req.Offer,
		ImageURLs:       req.ImageURLs,
	}
}

// 发布房源：1、绑定校验请求体 2、context里取userID 3、service层落库 4、dto返回
func (h *listingHandler) CreateListing(c *gin.Context) {
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("发布房源参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	// 折扣价不能高于原价，binding表达不了跨字段比较，在这里手动校验
	if req.DiscountPrice > req.RegularPrice {
		sendErrorResponse(c, http.StatusBadRequest, "折扣价不能高于原价")
		return
	}
	ownerID, err := currentUserID(c)
	if err != nil {
		abortUnauthed(c)
		return
	}

	logCtx := logger.Log.WithField("owner_id", ownerID)
	logCtx.Info("开始处理发布房源请求")

	listing, err := h.ListingService.CreateListing(ownerID, req.toInput())
	if err != nil {
		logCtx.WithError(err).Error("发布房源业务处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "发布房源失败")
		return
	}
	logCtx.WithField("listing_id", listing.ID).Info("房源发布成功")

	// 使用DTO转换函数，来构建一个干净、安全的响应
	c.JSON(http.StatusCreated, dto.ToListingResponse(listing))
}

// 更新房源：只能更新自己发布的
func (h *listingHandler) UpdateListing(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的房源ID")
		return
	}
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("更新房源参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	if req.DiscountPrice > req.RegularPrice {
		sendErrorResponse(c, http.StatusBadRequest, "折扣价不能高于原价")
		return
	}
	userID, err := currentUserID(c)
	if err != nil {
		abortUnauthed(c)
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("listing_id", listingID)

	listing, err := h.ListingService.UpdateListing(userID, listingID, req.toInput())
	if err != nil {
		h.respondListingError(c, logCtx, err, "更新房源失败", "您只能更新自己发布的房源")
		return
	}
	logCtx.Info("房源更新成功")
	c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}

// 删除房源：只能删除自己发布的
func (h *listingHandler) DeleteListing(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
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

	if err := h.ListingService.DeleteListing(userID, listingID); err != nil {
		h.respondListingError(c, logCtx, err, "删除房源失败", "您只能删除自己发布的房源")
		return
	}
	logCtx.Info("房源删除成功")
	c.JSON(http.StatusOK, gin.H{"message": "房源删除成功"})
}

func (h *listingHandler) GetListing(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的房源ID")
		return
	}
	logCtx := logger.Log.WithField("listing_id", listingID)

	listing, err := h.ListingService.GetListingByID(listingID)
	if err != nil {
		logCtx.WithError(err).Warn("查找房源失败")
		sendErrorResponse(c, http.StatusNotFound, "房源不存在")
		return
	}
	c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}

// 搜索房源：query参数转成SearchParams，布尔筛选项缺省或false都当作“不筛选”
// （false当“不筛选”是沿用老版本前端的约定，勾掉筛选框时它传的就是false）
func (h *listingHandler) SearchListings(c *gin.Context) {
	params := repository.SearchParams{
		SearchTerm:      c.Query("search_term"),
		Type:            c.DefaultQuery("type", "all"),
		TransactionType: c.DefaultQuery("transaction_type", "all"),
		Sort:            c.DefaultQuery("sort", "created_at"),
		Order:           c.DefaultQuery("order", "desc"),
	}
	params.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "9"))
	params.Offset, _ = strconv.Atoi(c.DefaultQuery("start_index", "0"))

	trueVal := true
	if c.Query("offer") == "true" {
		params.Offer = &trueVal
	}
	if c.Query("finished") == "true" {
		params.Finished = &trueVal
	}
	if c.Query("parking") == "true" {
		params.Parking = &trueVal
	}

	listings, err := h.ListingService.SearchListings(params)
	if err != nil {
		logger.Log.WithError(err).Error("搜索房源失败")
		sendErrorResponse(c, http.StatusInternalServerError, "搜索失败，请稍后再试")
		return
	}

	response := make([]dto.ListingResponse, 0, len(listings))
	for i := range listings {
		response = append(response, dto.ToListingResponse(&listings[i]))
	}
	c.JSON(http.StatusOK, response)
}

// 浏览数+1：不需要登录，不去重，返回最新值
func (h *listingHandler) IncrementViews(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的房源ID")
		return
	}

	views, err := h.ListingService.IncrementViews(listingID)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Log.WithError(err).WithField("listing_id", listingID).Error("浏览数自增失败")
		sendErrorResponse(c, http.StatusInternalServerError, "操作失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"views":   views,
	})
}

// 分享数+1：和浏览数一样，单纯的原子自增
func (h *listingHandler) IncrementShares(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的房源ID")
		return
	}

	shares, err := h.ListingService.IncrementShares(listingID)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Log.WithError(err).WithField("listing_id", listingID).Error("分享数自增失败")
		sendErrorResponse(c, http.StatusInternalServerError, "操作失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"shares":  shares,
	})
}

func (h *listingHandler) GetViews(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的房源ID")
		return
	}

	views, err := h.ListingService.GetViews(listingID)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Log.WithError(err).WithField("listing_id", listingID).Error("查询浏览数失败")
		sendErrorResponse(c, http.StatusInternalServerError, "查询失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"views":   views,
	})
}

// 统一处理更新/删除路径上的业务错误：404、401和兜底500
func (h *listingHandler) respondListingError(c *gin.Context, logCtx *logrus.Entry, err error, logMsg, notOwnerMsg string) {
	if errors.Is(err, service.ErrListingNotFound) {
		logCtx.WithError(err).Warn(logMsg + "：房源不存在")
		sendErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	if errors.Is(err, service.ErrNotOwner) {
		logCtx.WithError(err).Warn(logMsg + "：不是房源发布者")
		sendErrorResponse(c, http.StatusUnauthorized, notOwnerMsg)
		return
	}
	logCtx.WithError(err).Error(logMsg)
	sendErrorResponse(c, http.StatusInternalServerError, "操作失败，请稍后再试")
}
