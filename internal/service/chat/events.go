// Package chat 实现私聊系统的实时层
// events.go
// 核心职责：WebSocket 事件信封定义
// 入站事件 (client -> server) 和出站事件 (server -> client) 均使用
// {event, data} 形式的 JSON 信封
package chat

import (
	"encoding/json"
)

// 入站事件名 (client -> server)
const (
	EventSendPrivateMessage = "send-private-message"
	EventTyping             = "typing"
)

// 出站事件名 (server -> client)
const (
	EventOnlineUsers           = "online-users"
	EventReceivePrivateMessage = "receive-private-message"
	EventUserTyping            = "user-typing"
	EventMessageError          = "message-error"
)

// ClientEnvelope 入站事件信封
// Data 延迟解析，由分发器按事件类型绑定到具体请求结构
type ClientEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServerEvent 出站事件信封
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// OnlineUsersPayload 在线用户全量快照
// 每次上线/下线变更后推送给所有在线连接
type OnlineUsersPayload struct {
	UserIds []string `json:"userIds"`
}

// UserTypingPayload 输入状态转发载荷
type UserTypingPayload struct {
	UserId   string `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

// MessageErrorPayload 消息发送失败载荷，仅发给消息的发送者
type MessageErrorPayload struct {
	Error string `json:"error"`
}

// InboundEvent 经过认证的入站事件
// 发送者身份取自连接本身的 Identity，绝不信任载荷里的自述身份
// 该结构同时是 Kafka 模式下的传输格式
type InboundEvent struct {
	Event        string          `json:"event"`
	FromUserId   string          `json:"fromUserId"`
	FromUsername string          `json:"fromUsername"`
	Data         json.RawMessage `json:"data"`
}
