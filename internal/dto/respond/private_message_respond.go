package respond

// PrivateMessageRespond 私聊消息的对外形态
// 既是 WebSocket 事件 "receive-private-message" 的载荷，
// 也是会话历史查询的列表元素
// Id 为雪花 ID 的字符串形式，避免 JavaScript 精度丢失
type PrivateMessageRespond struct {
	Id               string `json:"_id"`
	Sender           string `json:"sender"`
	SenderUsername   string `json:"senderUsername"`
	Receiver         string `json:"receiver"`
	ReceiverUsername string `json:"receiverUsername"`
	Text             string `json:"text"`
	CreatedAt        string `json:"createdAt"`
}
