// Package router 提供 HTTP 路由注册
// 本文件定义消息历史相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册消息相关路由（需要认证）
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	messageGroup := rg.Group("/messages")
	{
		// 获取与指定用户的双向历史消息
		messageGroup.GET("/conversation/:userId", rt.handlers.Message.GetConversation)
	}
}
