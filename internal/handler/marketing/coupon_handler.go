// Package marketing 提供营销相关的 HTTP Handler
package marketing

import (
	"github.com/gin-gonic/gin"

	"github.com/minsukang/stayhub-backend/internal/common/handler"
	"github.com/minsukang/stayhub-backend/internal/common/response"
	marketingService "github.com/minsukang/stayhub-backend/internal/service/marketing"
)

// CouponHandler 优惠券处理器
type CouponHandler struct {
	couponService *marketingService.CouponService
}

// NewCouponHandler 创建优惠券处理器
func NewCouponHandler(couponSvc *marketingService.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponSvc,
	}
}

// VerifyCouponRequest 优惠券试算请求
type VerifyCouponRequest struct {
	Code   string `json:"code" binding:"required"`
	Amount int64  `json:"amount" binding:"required,min=0"`
}

// VerifyCouponResponse 优惠券试算响应
type VerifyCouponResponse struct {
	Code     string `json:"code"`
	Discount int64  `json:"discount"`
	Payable  int64  `json:"payable"`
}

// VerifyCoupon 优惠券试算，下单前预览折扣金额
// @Summary 优惠券试算
// @Tags 营销-优惠券
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body VerifyCouponRequest true "请求参数"
// @Success 200 {object} response.Response{data=VerifyCouponResponse}
// @Router /coupons/verify [post]
func (h *CouponHandler) VerifyCoupon(c *gin.Context) {
	var req VerifyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	coupon, discount, err := h.couponService.VerifyCoupon(c.Request.Context(), req.Code, req.Amount)
	if handler.HandleError(c, err) {
		return
	}

	response.Success(c, &VerifyCouponResponse{
		Code:     coupon.Code,
		Discount: discount,
		Payable:  req.Amount - discount,
	})
}

// CreateCoupon 创建优惠券
// @Summary 创建优惠券
// @Tags 营销-管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body marketingService.CreateCouponRequest true "请求参数"
// @Success 200 {object} response.Response{data=marketingService.CouponInfo}
// @Router /admin/coupons [post]
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req marketingService.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	info, err := h.couponService.CreateCoupon(c.Request.Context(), &req)
	handler.MustSucceed(c, err, info)
}

// UpdateCoupon 更新优惠券
// @Summary 更新优惠券
// @Tags 营销-管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "优惠券ID"
// @Param request body marketingService.UpdateCouponRequest true "请求参数"
// @Success 200 {object} response.Response{data=marketingService.CouponInfo}
// @Router /admin/coupons/{id} [put]
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	couponID, ok := handler.ParseID(c, "优惠券")
	if !ok {
		return
	}

	var req marketingService.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	info, err := h.couponService.UpdateCoupon(c.Request.Context(), couponID, &req)
	handler.MustSucceed(c, err, info)
}

// DeleteCoupon 删除优惠券
// @Summary 删除优惠券
// @Tags 营销-管理
// @Produce json
// @Security Bearer
// @Param id path int true "优惠券ID"
// @Success 200 {object} response.Response
// @Router /admin/coupons/{id} [delete]
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	couponID, ok := handler.ParseID(c, "优惠券")
	if !ok {
		return
	}

	handler.MustSucceed(c, h.couponService.DeleteCoupon(c.Request.Context(), couponID), nil)
}

// GetCoupon 获取优惠券详情
// @Summary 获取优惠券详情
// @Tags 营销-管理
// @Produce json
// @Security Bearer
// @Param id path int true "优惠券ID"
// @Success 200 {object} response.Response{data=marketingService.CouponInfo}
// @Router /admin/coupons/{id} [get]
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	couponID, ok := handler.ParseID(c, "优惠券")
	if !ok {
		return
	}

	info, err := h.couponService.GetCoupon(c.Request.Context(), couponID)
	handler.MustSucceed(c, err, info)
}

// ListCoupons 获取优惠券列表
// @Summary 获取优惠券列表
// @Tags 营销-管理
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param is_active query bool false "是否启用"
// @Success 200 {object} response.Response{data=[]marketingService.CouponInfo}
// @Router /admin/coupons [get]
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if isActive := c.Query("is_active"); isActive != "" {
		filters["is_active"] = isActive == "true"
	}

	list, total, err := h.couponService.ListCoupons(c.Request.Context(), p.Page, p.PageSize, filters)
	handler.MustSucceedPage(c, err, list, total, p.Page, p.PageSize)
}

// RegisterProtectedRoutes 注册用户路由
func (h *CouponHandler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/coupons/verify", h.VerifyCoupon)
}

// RegisterAdminRoutes 注册管理路由
func (h *CouponHandler) RegisterAdminRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin/coupons")
	{
		admin.GET("", h.ListCoupons)
		admin.POST("", h.CreateCoupon)
		admin.GET("/:id", h.GetCoupon)
		admin.PUT("/:id", h.UpdateCoupon)
		admin.DELETE("/:id", h.DeleteCoupon)
	}
}
