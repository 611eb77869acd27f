// Package handler 提供 HTTP 请求处理器
// 本文件处理用户相关的 API 请求
package handler

import (
	"whisper_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户相关 Handler
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 构造函数
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetUserList 获取除自己外的全部用户
// GET /api/users
// 当前用户 ID 由 JWT 中间件写入上下文
func (h *UserHandler) GetUserList(c *gin.Context) {
	ownerId := c.GetString("user_id")
	rsp, err := h.userSvc.GetUserList(ownerId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}
