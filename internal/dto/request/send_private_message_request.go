package request

// SendPrivateMessageRequest 发送私聊消息事件的载荷 (client -> server)
// 对应 WebSocket 事件 "send-private-message"
// Text 不允许为空白，缺失字段在路由前通过 validator 校验
type SendPrivateMessageRequest struct {
	ReceiverId       string `json:"receiverId" validate:"required"`
	ReceiverUsername string `json:"receiverUsername" validate:"required"`
	Text             string `json:"text" validate:"required"`
}
