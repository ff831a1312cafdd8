// Package user 提供用户相关的 HTTP Handler
package user

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minsukang/stayhub-backend/internal/common/handler"
	"github.com/minsukang/stayhub-backend/internal/common/response"
	userService "github.com/minsukang/stayhub-backend/internal/service/user"
)

// Handler 用户处理器
type Handler struct {
	userService   *userService.UserService
	pointsService *userService.PointsService
}

// NewHandler 创建用户处理器
func NewHandler(
	userSvc *userService.UserService,
	pointsSvc *userService.PointsService,
) *Handler {
	return &Handler{
		userService:   userSvc,
		pointsService: pointsSvc,
	}
}

// GetProfile 获取个人资料
// @Summary 获取个人资料
// @Tags 用户
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=userService.UserProfile}
// @Router /user/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	handler.MustSucceed(c, err, profile)
}

// UpdateProfile 更新个人资料
// @Summary 更新个人资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body userService.UpdateProfileRequest true "请求参数"
// @Success 200 {object} response.Response{data=userService.UserProfile}
// @Router /user/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req userService.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if handler.HandleError(c, h.userService.UpdateProfile(c.Request.Context(), userID, &req)) {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	handler.MustSucceed(c, err, profile)
}

// GetPoints 获取积分概览
// @Summary 获取积分概览
// @Tags 用户
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=userService.PointsInfo}
// @Router /user/points [get]
func (h *Handler) GetPoints(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	info, err := h.pointsService.GetPointsInfo(c.Request.Context(), userID)
	handler.MustSucceed(c, err, info)
}

// GetPointsHistory 获取积分流水
// @Summary 获取积分流水
// @Tags 用户
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=[]userService.PointsRecord}
// @Router /user/points/history [get]
func (h *Handler) GetPointsHistory(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)

	list, total, err := h.pointsService.GetPointsHistory(c.Request.Context(), userID, p.Page, p.PageSize)
	handler.MustSucceedPage(c, err, list, total, p.Page, p.PageSize)
}

// ListUsers 获取用户列表
// @Summary 获取用户列表
// @Tags 用户-管理
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param role query string false "角色：user/partner/admin"
// @Success 200 {object} response.Response{data=[]userService.UserProfile}
// @Router /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if role := c.Query("role"); role != "" {
		filters["role"] = role
	}

	list, total, err := h.userService.ListUsers(c.Request.Context(), p.Page, p.PageSize, filters)
	handler.MustSucceedPage(c, err, list, total, p.Page, p.PageSize)
}

// SetUserStatus 启用或禁用用户
// @Summary 启用或禁用用户
// @Tags 用户-管理
// @Produce json
// @Security Bearer
// @Param id path int true "用户ID"
// @Param status query int true "状态：0-禁用 1-正常"
// @Success 200 {object} response.Response
// @Router /admin/users/{id}/status [put]
func (h *Handler) SetUserStatus(c *gin.Context) {
	userID, ok := handler.ParseID(c, "用户")
	if !ok {
		return
	}

	status, err := strconv.ParseInt(c.Query("status"), 10, 8)
	if err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	handler.MustSucceed(c, h.userService.SetUserStatus(c.Request.Context(), userID, int8(status)), nil)
}

// SetUserRoleRequest 设置用户角色请求
type SetUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetUserRole 设置用户角色
// @Summary 设置用户角色
// @Tags 用户-管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "用户ID"
// @Param request body SetUserRoleRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /admin/users/{id}/role [put]
func (h *Handler) SetUserRole(c *gin.Context) {
	userID, ok := handler.ParseID(c, "用户")
	if !ok {
		return
	}

	var req SetUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	handler.MustSucceed(c, h.userService.SetUserRole(c.Request.Context(), userID, req.Role), nil)
}

// RegisterProtectedRoutes 注册用户路由
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	user := r.Group("/user")
	{
		user.GET("/profile", h.GetProfile)
		user.PUT("/profile", h.UpdateProfile)
		user.GET("/points", h.GetPoints)
		user.GET("/points/history", h.GetPointsHistory)
	}
}

// RegisterAdminRoutes 注册管理路由
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin/users")
	{
		admin.GET("", h.ListUsers)
		admin.PUT("/:id/status", h.SetUserStatus)
		admin.PUT("/:id/role", h.SetUserRole)
	}
}
