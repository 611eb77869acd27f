// Package handler 提供 HTTP 请求处理器
// 本文件处理注册/登录/Token 刷新
package handler

import (
	"whisper_chat_server/internal/dto/request"
	"whisper_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证相关 Handler
type AuthHandler struct {
	userSvc service.UserService
	authSvc service.AuthService
}

// NewAuthHandler 构造函数
func NewAuthHandler(userSvc service.UserService, authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{userSvc: userSvc, authSvc: authSvc}
}

// Register 用户注册
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.userSvc.Register(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Login 用户登录
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.userSvc.Login(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// RefreshToken 刷新 Access Token
// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	accessToken, err := h.authSvc.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"access_token": accessToken})
}
