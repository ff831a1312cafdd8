// Package hotel 提供酒店相关的 HTTP Handler
package hotel

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minsukang/stayhub-backend/internal/common/handler"
	"github.com/minsukang/stayhub-backend/internal/common/response"
	"github.com/minsukang/stayhub-backend/internal/middleware"
	hotelService "github.com/minsukang/stayhub-backend/internal/service/hotel"
)

// Handler 酒店处理器
type Handler struct {
	hotelService  *hotelService.HotelService
	reviewService *hotelService.ReviewService
}

// NewHandler 创建酒店处理器
func NewHandler(hotelSvc *hotelService.HotelService, reviewSvc *hotelService.ReviewService) *Handler {
	return &Handler{
		hotelService:  hotelSvc,
		reviewService: reviewSvc,
	}
}

// ListHotels 获取酒店列表
// @Summary 获取酒店列表
// @Tags 酒店
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param city query string false "城市"
// @Param keyword query string false "名称关键词"
// @Success 200 {object} response.Response{data=[]hotelService.HotelInfo}
// @Router /hotels [get]
func (h *Handler) ListHotels(c *gin.Context) {
	var req hotelService.HotelListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	list, total, err := h.hotelService.ListHotels(c.Request.Context(), &req)
	handler.MustSucceedPage(c, err, list, total, req.Page, req.PageSize)
}

// GetHotel 获取酒店详情
// @Summary 获取酒店详情
// @Tags 酒店
// @Produce json
// @Param id path int true "酒店ID"
// @Success 200 {object} response.Response{data=hotelService.HotelInfo}
// @Router /hotels/{id} [get]
func (h *Handler) GetHotel(c *gin.Context) {
	hotelID, ok := handler.ParseID(c, "酒店")
	if !ok {
		return
	}

	info, err := h.hotelService.GetHotel(c.Request.Context(), hotelID)
	handler.MustSucceed(c, err, info)
}

// ListRooms 获取酒店房型列表
// @Summary 获取酒店房型列表
// @Tags 酒店
// @Produce json
// @Param id path int true "酒店ID"
// @Success 200 {object} response.Response{data=[]hotelService.RoomInfo}
// @Router /hotels/{id}/rooms [get]
func (h *Handler) ListRooms(c *gin.Context) {
	hotelID, ok := handler.ParseID(c, "酒店")
	if !ok {
		return
	}

	rooms, err := h.hotelService.ListRooms(c.Request.Context(), hotelID)
	handler.MustSucceed(c, err, rooms)
}

// ListHotelReviews 获取酒店评价列表
// @Summary 获取酒店评价列表
// @Tags 酒店
// @Produce json
// @Param id path int true "酒店ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=[]hotelService.ReviewInfo}
// @Router /hotels/{id}/reviews [get]
func (h *Handler) ListHotelReviews(c *gin.Context) {
	hotelID, ok := handler.ParseID(c, "酒店")
	if !ok {
		return
	}

	p := handler.BindPagination(c)

	list, total, err := h.reviewService.ListHotelReviews(c.Request.Context(), hotelID, p.Page, p.PageSize)
	handler.MustSucceedPage(c, err, list, total, p.Page, p.PageSize)
}

// CreateHotel 创建酒店
// @Summary 创建酒店
// @Tags 酒店-合作方
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body hotelService.CreateHotelRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.HotelInfo}
// @Router /partner/hotels [post]
func (h *Handler) CreateHotel(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req hotelService.CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	info, err := h.hotelService.CreateHotel(c.Request.Context(), userID, &req)
	handler.MustSucceed(c, err, info)
}

// UpdateHotel 更新酒店
// @Summary 更新酒店
// @Tags 酒店-合作方
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "酒店ID"
// @Param request body hotelService.UpdateHotelRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.HotelInfo}
// @Router /partner/hotels/{id} [put]
func (h *Handler) UpdateHotel(c *gin.Context) {
	userID, hotelID, ok := handler.RequireUserAndParseID(c, "酒店")
	if !ok {
		return
	}

	var req hotelService.UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	info, err := h.hotelService.UpdateHotel(c.Request.Context(), hotelID, userID, middleware.GetRole(c), &req)
	handler.MustSucceed(c, err, info)
}

// SetHotelStatusRequest 酒店上下架请求
type SetHotelStatusRequest struct {
	Status *int8 `json:"status" binding:"required"`
}

// SetHotelStatus 上下架酒店
// @Summary 上下架酒店
// @Tags 酒店-合作方
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "酒店ID"
// @Param request body SetHotelStatusRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /partner/hotels/{id}/status [put]
func (h *Handler) SetHotelStatus(c *gin.Context) {
	userID, hotelID, ok := handler.RequireUserAndParseID(c, "酒店")
	if !ok {
		return
	}

	var req SetHotelStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err := h.hotelService.SetHotelStatus(c.Request.Context(), hotelID, userID, middleware.GetRole(c), *req.Status)
	handler.MustSucceed(c, err, nil)
}

// ListOwnHotels 获取名下酒店列表
// @Summary 获取名下酒店列表
// @Tags 酒店-合作方
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]hotelService.HotelInfo}
// @Router /partner/hotels [get]
func (h *Handler) ListOwnHotels(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	hotels, err := h.hotelService.ListOwnHotels(c.Request.Context(), userID)
	handler.MustSucceed(c, err, hotels)
}

// CreateRoom 新增房型
// @Summary 新增房型
// @Tags 酒店-合作方
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "酒店ID"
// @Param request body hotelService.CreateRoomRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.RoomInfo}
// @Router /partner/hotels/{id}/rooms [post]
func (h *Handler) CreateRoom(c *gin.Context) {
	userID, hotelID, ok := handler.RequireUserAndParseID(c, "酒店")
	if !ok {
		return
	}

	var req hotelService.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	info, err := h.hotelService.CreateRoom(c.Request.Context(), hotelID, userID, middleware.GetRole(c), &req)
	handler.MustSucceed(c, err, info)
}

// UpdateRoom 更新房型
// @Summary 更新房型
// @Tags 酒店-合作方
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "房型ID"
// @Param request body hotelService.UpdateRoomRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.RoomInfo}
// @Router /partner/rooms/{id} [put]
func (h *Handler) UpdateRoom(c *gin.Context) {
	userID, roomID, ok := handler.RequireUserAndParseID(c, "房型")
	if !ok {
		return
	}

	var req hotelService.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	info, err := h.hotelService.UpdateRoom(c.Request.Context(), roomID, userID, middleware.GetRole(c), &req)
	handler.MustSucceed(c, err, info)
}

// SetRoomStatus 上下架房型
// @Summary 上下架房型
// @Tags 酒店-合作方
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "房型ID"
// @Param status query int true "状态：0-下架 1-在售"
// @Success 200 {object} response.Response
// @Router /partner/rooms/{id}/status [put]
func (h *Handler) SetRoomStatus(c *gin.Context) {
	userID, roomID, ok := handler.RequireUserAndParseID(c, "房型")
	if !ok {
		return
	}

	status, err := strconv.ParseInt(c.Query("status"), 10, 8)
	if err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err = h.hotelService.SetRoomStatus(c.Request.Context(), roomID, userID, middleware.GetRole(c), int8(status))
	handler.MustSucceed(c, err, nil)
}

// RegisterRoutes 注册公开路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	hotels := r.Group("/hotels")
	{
		hotels.GET("", h.ListHotels)
		hotels.GET("/:id", h.GetHotel)
		hotels.GET("/:id/rooms", h.ListRooms)
		hotels.GET("/:id/reviews", h.ListHotelReviews)
	}
}

// RegisterPartnerRoutes 注册合作方路由
func (h *Handler) RegisterPartnerRoutes(r *gin.RouterGroup) {
	partner := r.Group("/partner")
	{
		partner.GET("/hotels", h.ListOwnHotels)
		partner.POST("/hotels", h.CreateHotel)
		partner.PUT("/hotels/:id", h.UpdateHotel)
		partner.PUT("/hotels/:id/status", h.SetHotelStatus)
		partner.POST("/hotels/:id/rooms", h.CreateRoom)
		partner.PUT("/rooms/:id", h.UpdateRoom)
		partner.PUT("/rooms/:id/status", h.SetRoomStatus)
	}
}
