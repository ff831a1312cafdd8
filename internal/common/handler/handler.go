// Package handler 提供 API Handler 的通用辅助函数
// 统一错误处理、登录检查、ID 与分页参数解析，减少各 Handler 的重复代码
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minsukang/stayhub-backend/internal/common/errors"
	"github.com/minsukang/stayhub-backend/internal/common/response"
	"github.com/minsukang/stayhub-backend/internal/common/utils"
	"github.com/minsukang/stayhub-backend/internal/middleware"
)

// HandleError 处理错误并发送适当的响应
// err 为 nil 时返回 false；否则发送错误响应并返回 true，调用方应该 return
//
// 使用示例:
//
//	result, err := service.DoSomething()
//	if handler.HandleError(c, err) {
//	    return
//	}
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*errors.AppError); ok {
		response.Error(c, appErr.Code, appErr.Message)
		return true
	}
	response.InternalError(c, err.Error())
	return true
}

// MustSucceed 便捷封装：有错误则返回错误响应，否则返回成功响应
// 适用于「调用服务 -> 返回结果」的场景，调用后必须 return
func MustSucceed(c *gin.Context, err error, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.Success(c, data)
}

// MustSucceedPage 分页版本的 MustSucceed
//
// 使用示例:
//
//	list, total, err := service.List(p.Page, p.PageSize)
//	handler.MustSucceedPage(c, err, list, total, p.Page, p.PageSize)
func MustSucceedPage(c *gin.Context, err error, list interface{}, total int64, page, pageSize int) {
	if HandleError(c, err) {
		return
	}
	response.SuccessPage(c, list, total, page, pageSize)
}

// RequireUserID 获取当前用户ID
// 未登录时发送401响应并返回 (0, false)，调用方应该 return
func RequireUserID(c *gin.Context) (int64, bool) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Unauthorized(c, "请先登录")
		return 0, false
	}
	return userID, true
}

// ParseID 解析路径参数 "id" 为 int64
// resourceName 用于错误消息（如 "酒店", "预订"）
// 解析失败时发送400响应并返回 (0, false)
func ParseID(c *gin.Context, resourceName string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return 0, false
	}
	return id, true
}

// ParseQueryID 解析查询参数中的可选 ID
// 参数为空返回 (nil, true)；解析失败发送400响应并返回 (nil, false)
func ParseQueryID(c *gin.Context, paramName, resourceName string) (*int64, bool) {
	idStr := c.Query(paramName)
	if idStr == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return nil, false
	}
	return &id, true
}

// RequireUserAndParseID 组合：检查登录 + 解析ID参数
// 适用于需要登录且操作特定资源的接口
//
// 使用示例:
//
//	userID, reservationID, ok := handler.RequireUserAndParseID(c, "预订")
//	if !ok {
//	    return
//	}
func RequireUserAndParseID(c *gin.Context, resourceName string) (userID, resourceID int64, ok bool) {
	userID, ok = RequireUserID(c)
	if !ok {
		return 0, 0, false
	}
	resourceID, ok = ParseID(c, resourceName)
	if !ok {
		return 0, 0, false
	}
	return userID, resourceID, true
}

// BindPagination 从查询参数绑定并规范化分页参数
// 默认 page=1, pageSize=10，最大 pageSize=100
func BindPagination(c *gin.Context) utils.Pagination {
	var p utils.Pagination
	p.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	p.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	p.Normalize()
	return p
}
