// Package router 提供 HTTP 路由注册
// 本文件定义认证相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证相关路由（公开，无需 Token）
func (rt *Router) RegisterAuthRoutes(r *gin.Engine) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", rt.handlers.Auth.Register) // 注册
		authGroup.POST("/login", rt.handlers.Auth.Login)       // 登录
		authGroup.POST("/refresh", rt.handlers.Auth.RefreshToken)
	}
}
