// client.go
// 核心职责：WebSocket 连接生命周期管理
// 1. 封装 Client 对象，管理读写协程 (Read/Write Loop)
// 2. 每条连接的生命周期：认证通过 -> 注册在线 -> 事件分发 -> 注销下线
// 3. 出站通道有界，写不进去直接丢弃该条推送，慢连接不拖累路由
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"whisper_chat_server/pkg/constants"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Identity 已认证连接的身份，连接建立时从 Token 提取，整个生命周期不变
type Identity struct {
	UserId   string
	Username string
}

// Client 表示一个已认证的 WebSocket 客户端连接
type Client struct {
	Identity

	Conn     *websocket.Conn
	server   *ChatServer
	sendBack chan []byte   // 出站通道，写协程消费
	done     chan struct{} // 连接关闭信号
	once     sync.Once
}

// NewClient 封装一条已升级的 WebSocket 连接
func NewClient(server *ChatServer, conn *websocket.Conn, identity Identity) *Client {
	return &Client{
		Identity: identity,
		Conn:     conn,
		server:   server,
		sendBack: make(chan []byte, constants.CHANNEL_SIZE),
		done:     make(chan struct{}),
	}
}

// Deliver 向该连接投递一条出站事件
// 非阻塞：连接已关闭或出站通道已满时放弃本条推送并返回 false
func (c *Client) Deliver(evt *ServerEvent) bool {
	payload, err := json.Marshal(evt)
	if err != nil {
		zap.L().Error("marshal server event failed", zap.Error(err))
		return false
	}
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.sendBack <- payload:
		return true
	default:
		zap.L().Warn("outbound channel full, event dropped",
			zap.String("user", c.UserId),
			zap.String("event", evt.Event),
		)
		return false
	}
}

// close 进入终态，幂等
// 关闭后连接不再收发任何事件，回归只能走新连接
func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
		if c.Conn != nil {
			_ = c.Conn.Close()
		}
	})
}

// closeEvicted 被新会话顶替时调用，先尽力发送关闭帧再断开
func (c *Client) closeEvicted() {
	if c.Conn != nil {
		deadline := closeWriteDeadline()
		_ = c.Conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "session replaced"), deadline)
	}
	c.close()
}

func closeWriteDeadline() time.Time {
	return time.Now().Add(time.Second)
}

// Read 读协程：从 WebSocket 读取事件并交给 Broker 发布
// 读出错（客户端断开或协议错误）即结束该连接的生命周期
func (c *Client) Read() {
	defer c.server.disconnect(c)
	ctx := context.Background()
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			zap.L().Info("ws read loop exit",
				zap.String("user", c.UserId), zap.Error(err))
			return
		}
		var env ClientEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			// 非法 JSON 直接丢弃，不回执
			zap.L().Warn("malformed client envelope dropped",
				zap.String("user", c.UserId), zap.Error(err))
			continue
		}
		ev := InboundEvent{
			Event:        env.Event,
			FromUserId:   c.UserId,
			FromUsername: c.Username,
			Data:         env.Data,
		}
		if err := c.server.broker.Publish(ctx, ev); err != nil {
			zap.L().Error("publish inbound event failed",
				zap.String("user", c.UserId), zap.Error(err))
			if env.Event == EventSendPrivateMessage {
				c.Deliver(&ServerEvent{
					Event: EventMessageError,
					Data:  MessageErrorPayload{Error: "Failed to send message"},
				})
			}
		}
	}
}

// Write 写协程：从出站通道取事件写入 WebSocket
func (c *Client) Write() {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.sendBack:
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				zap.L().Error("ws write failed",
					zap.String("user", c.UserId), zap.Error(err))
				c.close()
				return
			}
		}
	}
}
