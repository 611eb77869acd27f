// router.go
// 核心职责：私聊消息路由
// 1. 先持久化后投递：入库成功才可能有任何投递
// 2. 接收方在线则投递，离线静默跳过（历史消息由 REST 接口补齐）
// 3. 无条件回显给发送者本人连接，回显携带服务端分配的 ID 和时间戳
package chat

import (
	"context"
	"strconv"
	"strings"
	"time"

	"whisper_chat_server/internal/dao/mysql/repository"
	"whisper_chat_server/internal/dto/request"
	"whisper_chat_server/internal/dto/respond"
	"whisper_chat_server/internal/model"
	"whisper_chat_server/pkg/errorx"
	"whisper_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

// ConversationCache 会话缓存失效接口
// 消息入库后异步失效对应会话的历史缓存，由 message service 实现
type ConversationCache interface {
	InvalidateConversation(userOneId, userTwoId string)
}

// MessageRouter 私聊消息路由器
type MessageRouter struct {
	presence    *PresenceRegistry
	messageRepo repository.MessageRepository
	cache       ConversationCache // 可为 nil（如单测环境）
}

// NewMessageRouter 创建消息路由器
func NewMessageRouter(presence *PresenceRegistry, messageRepo repository.MessageRepository, cache ConversationCache) *MessageRouter {
	return &MessageRouter{
		presence:    presence,
		messageRepo: messageRepo,
		cache:       cache,
	}
}

// Route 处理一条发送请求：持久化 -> 投递接收者 -> 回显发送者
// 持久化失败时仅给发送者回 message-error，对接收者而言本次发送不存在
//
// 自聊（sender == receiver）不做特殊处理：同一连接会收到两次同一消息，
// 一次作为接收者、一次作为发送回显，与参考行为保持一致
//
// 注意持久化期间不持有注册表锁，接收者可能在入库和查找之间下线，
// 此时投递被跳过，属于接受的语义而非缺陷
func (r *MessageRouter) Route(ctx context.Context, sender Identity, req request.SendPrivateMessageRequest) (*respond.PrivateMessageRespond, error) {
	// 纯空白文本视为非法载荷，对齐存储层对 text 的非空约束
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		r.deliverError(sender.UserId, "Invalid message payload")
		return nil, errorx.ErrInvalidParam
	}

	message := model.Message{
		Uuid:        snowflake.GenerateID(),
		SendId:      sender.UserId,
		SendName:    sender.Username,
		ReceiveId:   req.ReceiverId,
		ReceiveName: req.ReceiverUsername,
		Content:     req.Text,
	}

	if err := r.messageRepo.Create(&message); err != nil {
		zap.L().Error("persist message failed",
			zap.String("sender", sender.UserId),
			zap.String("receiver", req.ReceiverId),
			zap.Error(err),
		)
		r.deliverError(sender.UserId, "Failed to send message")
		return nil, errorx.Wrap(err, errorx.CodeDBError, "消息入库失败")
	}

	rsp := &respond.PrivateMessageRespond{
		Id:               snowflakeString(message.Uuid),
		Sender:           message.SendId,
		SenderUsername:   message.SendName,
		Receiver:         message.ReceiveId,
		ReceiverUsername: message.ReceiveName,
		Text:             message.Content,
		CreatedAt:        message.CreatedAt.Format(time.RFC3339),
	}
	evt := &ServerEvent{Event: EventReceivePrivateMessage, Data: rsp}

	// 接收方在线则投递，离线静默跳过
	if receiverConn := r.presence.Lookup(req.ReceiverId); receiverConn != nil {
		receiverConn.Deliver(evt)
	}
	// 无条件回显给发送者本人连接（若仍在线）
	if senderConn := r.presence.Lookup(sender.UserId); senderConn != nil {
		senderConn.Deliver(evt)
	}

	// 会话历史缓存失效，后台执行
	if r.cache != nil {
		r.cache.InvalidateConversation(sender.UserId, req.ReceiverId)
	}

	return rsp, nil
}

// snowflakeString 雪花 ID 转字符串，避免 JavaScript 精度丢失
func snowflakeString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// deliverError 给发送者回 message-error 事件（发送者已下线则丢弃）
func (r *MessageRouter) deliverError(userId string, msg string) {
	if conn := r.presence.Lookup(userId); conn != nil {
		conn.Deliver(&ServerEvent{
			Event: EventMessageError,
			Data:  MessageErrorPayload{Error: msg},
		})
	}
}
