// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"whisper_chat_server/internal/handler"
	"whisper_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
// /auth 下为公开路由，/api 和 /ws 需要认证
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	rt.RegisterAuthRoutes(r)

	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.JWTAuth())
	{
		rt.RegisterUserRoutes(apiGroup)
		rt.RegisterMessageRoutes(apiGroup)
	}

	// WebSocket 握手在 handler 内完成 Token 验证（Token 走查询参数）
	rt.RegisterWebSocketRoutes(r)
}
