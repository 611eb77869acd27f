package request

// TypingEventRequest 输入状态事件的载荷 (client -> server)
// 对应 WebSocket 事件 "typing"，纯瞬态信号，不落库
type TypingEventRequest struct {
	ReceiverId string `json:"receiverId" validate:"required"`
	IsTyping   bool   `json:"isTyping"`
}
