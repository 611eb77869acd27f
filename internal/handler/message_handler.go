// Package handler 提供 HTTP 请求处理器
// 本文件处理消息历史相关的 API 请求
package handler

import (
	"whisper_chat_server/internal/service"
	"whisper_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息相关 Handler
type MessageHandler struct {
	messageSvc service.MessageService
}

// NewMessageHandler 构造函数
func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// GetConversation 获取与指定用户的双向历史消息
// GET /api/messages/conversation/:userId
func (h *MessageHandler) GetConversation(c *gin.Context) {
	ownerId := c.GetString("user_id")
	otherId := c.Param("userId")
	if otherId == "" {
		HandleError(c, errorx.ErrInvalidParam)
		return
	}
	rsp, err := h.messageSvc.GetConversation(ownerId, otherId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}
