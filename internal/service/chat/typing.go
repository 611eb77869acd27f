// typing.go
// 核心职责：输入状态转发
// 无状态、无持久化、无重试：接收方在线就转发，离线直接丢弃
package chat

import (
	"whisper_chat_server/internal/dto/request"
)

// TypingRelay 输入状态转发器
type TypingRelay struct {
	presence *PresenceRegistry
}

// NewTypingRelay 创建输入状态转发器
func NewTypingRelay(presence *PresenceRegistry) *TypingRelay {
	return &TypingRelay{presence: presence}
}

// Relay 转发一条输入状态信号
// 防抖是客户端的事，这里每次调用独立处理，调用之间不保留任何状态
func (t *TypingRelay) Relay(sender Identity, req request.TypingEventRequest) {
	receiverConn := t.presence.Lookup(req.ReceiverId)
	if receiverConn == nil {
		return
	}
	receiverConn.Deliver(&ServerEvent{
		Event: EventUserTyping,
		Data: UserTypingPayload{
			UserId:   sender.UserId,
			Username: sender.Username,
			IsTyping: req.IsTyping,
		},
	})
}
