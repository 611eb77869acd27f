// Package router 提供 HTTP 路由注册
// 本文件定义用户相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户相关路由（需要认证）
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", rt.handlers.User.GetUserList) // 联系人侧边栏
}
