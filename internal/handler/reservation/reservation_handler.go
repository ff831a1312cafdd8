// Package reservation 提供预订相关的 HTTP Handler
package reservation

import (
	"github.com/gin-gonic/gin"

	"github.com/minsukang/stayhub-backend/internal/common/handler"
	"github.com/minsukang/stayhub-backend/internal/common/response"
	"github.com/minsukang/stayhub-backend/internal/middleware"
	hotelService "github.com/minsukang/stayhub-backend/internal/service/hotel"
	reservationService "github.com/minsukang/stayhub-backend/internal/service/reservation"
)

// Handler 预订处理器
type Handler struct {
	reservationService *reservationService.ReservationService
	reviewService      *hotelService.ReviewService
}

// NewHandler 创建预订处理器
func NewHandler(reservationSvc *reservationService.ReservationService, reviewSvc *hotelService.ReviewService) *Handler {
	return &Handler{
		reservationService: reservationSvc,
		reviewService:      reviewSvc,
	}
}

// CreateReservation 创建预订
// @Summary 创建预订
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body reservationService.CreateReservationRequest true "请求参数"
// @Success 200 {object} response.Response{data=reservationService.ReservationInfo}
// @Router /reservations [post]
func (h *Handler) CreateReservation(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req reservationService.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	info, err := h.reservationService.CreateReservation(c.Request.Context(), userID, &req)
	handler.MustSucceed(c, err, info)
}

// GetReservation 获取预订详情
// @Summary 获取预订详情
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=reservationService.ReservationInfo}
// @Router /reservations/{id} [get]
func (h *Handler) GetReservation(c *gin.Context) {
	userID, reservationID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	info, err := h.reservationService.GetReservation(c.Request.Context(), reservationID, userID, middleware.GetRole(c))
	handler.MustSucceed(c, err, info)
}

// CancelReservation 取消预订
// @Summary 取消预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=reservationService.ReservationInfo}
// @Router /reservations/{id}/cancel [post]
func (h *Handler) CancelReservation(c *gin.Context) {
	userID, reservationID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	info, err := h.reservationService.CancelReservation(c.Request.Context(), reservationID, userID, middleware.GetRole(c))
	handler.MustSucceed(c, err, info)
}

// ListMyReservations 获取我的预订列表
// @Summary 获取我的预订列表
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param status query string false "状态：pending/confirmed/cancelled/completed"
// @Success 200 {object} response.Response{data=[]reservationService.ReservationInfo}
// @Router /reservations [get]
func (h *Handler) ListMyReservations(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)

	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}

	list, total, err := h.reservationService.ListUserReservations(c.Request.Context(), userID, p.Page, p.PageSize, status)
	handler.MustSucceedPage(c, err, list, total, p.Page, p.PageSize)
}

// CreateReview 评价已完成的预订
// @Summary 评价已完成的预订
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body hotelService.CreateReviewRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.ReviewInfo}
// @Router /reviews [post]
func (h *Handler) CreateReview(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req hotelService.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	info, err := h.reviewService.CreateReview(c.Request.Context(), userID, &req)
	handler.MustSucceed(c, err, info)
}

// ListMyReviews 获取我的评价列表
// @Summary 获取我的评价列表
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=[]hotelService.ReviewInfo}
// @Router /reviews [get]
func (h *Handler) ListMyReviews(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)

	list, total, err := h.reviewService.ListUserReviews(c.Request.Context(), userID, p.Page, p.PageSize)
	handler.MustSucceedPage(c, err, list, total, p.Page, p.PageSize)
}

// ListHotelReservations 获取酒店的预订列表
// @Summary 获取酒店的预订列表
// @Tags 预订-合作方
// @Produce json
// @Security Bearer
// @Param id path int true "酒店ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=[]reservationService.ReservationInfo}
// @Router /partner/hotels/{id}/reservations [get]
func (h *Handler) ListHotelReservations(c *gin.Context) {
	userID, hotelID, ok := handler.RequireUserAndParseID(c, "酒店")
	if !ok {
		return
	}

	p := handler.BindPagination(c)

	list, total, err := h.reservationService.ListHotelReservations(c.Request.Context(),
		hotelID, userID, middleware.GetRole(c), p.Page, p.PageSize)
	handler.MustSucceedPage(c, err, list, total, p.Page, p.PageSize)
}

// ListReservations 获取全部预订列表
// @Summary 获取全部预订列表
// @Tags 预订-管理
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param status query string false "状态"
// @Param user_id query int false "用户ID"
// @Success 200 {object} response.Response{data=[]reservationService.ReservationInfo}
// @Router /admin/reservations [get]
func (h *Handler) ListReservations(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if userID, ok := handler.ParseQueryID(c, "user_id", "用户"); !ok {
		return
	} else if userID != nil {
		filters["user_id"] = *userID
	}

	list, total, err := h.reservationService.ListReservations(c.Request.Context(), p.Page, p.PageSize, filters)
	handler.MustSucceedPage(c, err, list, total, p.Page, p.PageSize)
}

// RegisterProtectedRoutes 注册用户路由
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	reservations := r.Group("/reservations")
	{
		reservations.POST("", h.CreateReservation)
		reservations.GET("", h.ListMyReservations)
		reservations.GET("/:id", h.GetReservation)
		reservations.POST("/:id/cancel", h.CancelReservation)
	}

	reviews := r.Group("/reviews")
	{
		reviews.POST("", h.CreateReview)
		reviews.GET("", h.ListMyReviews)
	}
}

// RegisterPartnerRoutes 注册合作方路由
func (h *Handler) RegisterPartnerRoutes(r *gin.RouterGroup) {
	r.GET("/partner/hotels/:id/reservations", h.ListHotelReservations)
}

// RegisterAdminRoutes 注册管理路由
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/admin/reservations", h.ListReservations)
}
