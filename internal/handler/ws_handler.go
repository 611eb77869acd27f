// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接的握手认证与升级
package handler

import (
	"net/http"

	"whisper_chat_server/internal/service/chat"
	"whisper_chat_server/pkg/errorx"
	"whisper_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WsHandler WebSocket 相关 Handler
type WsHandler struct {
	chatServer *chat.ChatServer
}

// NewWsHandler 构造函数
func NewWsHandler(chatServer *chat.ChatServer) *WsHandler {
	return &WsHandler{chatServer: chatServer}
}

// Connect WebSocket 连接入口（升级 HTTP 连接为 WebSocket）
// GET /ws?token=xxx
// 认证门禁：Token 在升级前验证，缺失/伪造/过期一律 401 拒绝，
// 被拒绝的请求不会触碰在线注册表，也收不到任何事件
func (h *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": errorx.CodeUnauthorized,
			"msg":  "缺少认证 Token",
		})
		return
	}

	claims, err := jwt.ParseToken(token)
	if err != nil {
		zap.L().Warn("ws handshake auth failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": errorx.CodeUnauthorized,
			"msg":  "Token 已过期或无效",
		})
		return
	}
	if claims.Subject != "access_token" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": errorx.CodeUnauthorized,
			"msg":  "请使用 Access Token 建立连接",
		})
		return
	}

	// 身份一次性从 Token 提取，连接存续期间不变
	h.chatServer.NewClientInit(c, chat.Identity{
		UserId:   claims.UserID,
		Username: claims.Username,
	})
}
