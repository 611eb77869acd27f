// server.go
// 核心职责：聊天服务器聚合结构和连接生命周期编排
// 1. 组装 PresenceRegistry / MessageRouter / TypingRelay / MessageBroker
// 2. 连接生命周期：升级 -> 注册在线并广播 -> 事件分发 -> 注销并广播
// 3. 实现 Dispatcher 接口，按事件类型分发入站事件
package chat

import (
	"context"
	"encoding/json"
	"net/http"

	"whisper_chat_server/internal/dao/mysql/repository"
	"whisper_chat_server/internal/dto/request"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// 跨域由 HTTP 层的 CORS 中间件统一管理，升级阶段不再限制 Origin
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChatServerConfig 聊天服务器配置
type ChatServerConfig struct {
	Mode        string // "channel" 或 "kafka"
	MessageRepo repository.MessageRepository
	UserRepo    repository.UserRepository // 可为 nil，仅用于记录在线时间
	Cache       ConversationCache         // 可为 nil
}

// ChatServer 聊天服务器聚合结构
// 封装实时层的全部组件，通过依赖注入管理生命周期
type ChatServer struct {
	presence *PresenceRegistry
	router   *MessageRouter
	relay    *TypingRelay
	broker   MessageBroker

	// KafkaClient Kafka 客户端（仅 Kafka 模式使用）
	KafkaClient *KafkaClient

	userRepo repository.UserRepository
	validate *validator.Validate
	mode     string
}

// NewChatServer 创建聊天服务器实例
// 根据配置选择 ChannelBroker 或 KafkaBroker
func NewChatServer(cfg ChatServerConfig) *ChatServer {
	presence := NewPresenceRegistry()
	cs := &ChatServer{
		presence: presence,
		router:   NewMessageRouter(presence, cfg.MessageRepo, cfg.Cache),
		relay:    NewTypingRelay(presence),
		userRepo: cfg.UserRepo,
		validate: validator.New(),
		mode:     cfg.Mode,
	}

	if cfg.Mode == "kafka" {
		cs.KafkaClient = NewKafkaClient()
		cs.broker = NewKafkaBroker(cs.KafkaClient, cs)
	} else {
		// Channel 模式（默认）
		cs.broker = NewChannelBroker(cs)
	}

	return cs
}

// InitKafka 初始化 Kafka 连接（仅 Kafka 模式需要调用）
func (cs *ChatServer) InitKafka() {
	if cs.KafkaClient != nil {
		cs.KafkaClient.KafkaInit()
	}
}

// Start 启动事件消费循环（阻塞，应在独立协程中调用）
func (cs *ChatServer) Start() {
	cs.broker.Start()
}

// Close 关闭聊天服务器
func (cs *ChatServer) Close() {
	cs.broker.Close()
}

// Presence 获取在线状态注册表
func (cs *ChatServer) Presence() *PresenceRegistry {
	return cs.presence
}

// NewClientInit 将已认证的 HTTP 请求升级为 WebSocket 连接并接入实时层
// identity 必须来自握手阶段验证过的 Token，认证失败的请求不允许走到这里
func (cs *ChatServer) NewClientInit(c *gin.Context, identity Identity) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("websocket upgrade failed",
			zap.String("user", identity.UserId), zap.Error(err))
		return
	}
	client := NewClient(cs, conn, identity)
	cs.register(client)
	go client.Read()
	go client.Write()
	zap.L().Info("ws连接成功",
		zap.String("user", identity.UserId),
		zap.String("username", identity.Username),
	)
}

// register 注册连接：顶掉同用户的旧会话，广播最新在线列表
func (cs *ChatServer) register(client *Client) {
	if prev := cs.presence.Register(client.UserId, client); prev != nil && prev != client {
		// 单用户单会话：新连接顶掉旧连接
		zap.L().Info("session replaced by new connection", zap.String("user", client.UserId))
		prev.closeEvicted()
	}
	cs.broadcastOnlineUsers()
	if cs.userRepo != nil {
		if err := cs.userRepo.UpdateOnlineTime(client.UserId, "last_online_at"); err != nil {
			zap.L().Error(err.Error())
		}
	}
}

// disconnect 连接终结：读协程退出时调用
// Unregister 带连接比对，迟到的断开不会误删顶替后的新会话，
// 此时也不触发在线列表广播
func (cs *ChatServer) disconnect(client *Client) {
	removed := cs.presence.Unregister(client.UserId, client)
	client.close()
	if removed {
		zap.L().Info("用户下线", zap.String("user", client.UserId))
		cs.broadcastOnlineUsers()
		if cs.userRepo != nil {
			if err := cs.userRepo.UpdateOnlineTime(client.UserId, "last_offline_at"); err != nil {
				zap.L().Error(err.Error())
			}
		}
	}
}

// broadcastOnlineUsers 向所有在线连接推送在线用户全量快照
func (cs *ChatServer) broadcastOnlineUsers() {
	cs.presence.Broadcast(&ServerEvent{
		Event: EventOnlineUsers,
		Data:  OnlineUsersPayload{UserIds: cs.presence.Snapshot()},
	})
}

// Dispatch 实现 Dispatcher 接口，按事件类型分发入站事件
// 载荷绑定失败或校验不通过：
//   - send-private-message 给发送者回 message-error
//   - typing 与未知事件静默丢弃，仅记日志
func (cs *ChatServer) Dispatch(ctx context.Context, ev InboundEvent) {
	sender := Identity{UserId: ev.FromUserId, Username: ev.FromUsername}

	switch ev.Event {
	case EventSendPrivateMessage:
		var req request.SendPrivateMessageRequest
		if err := cs.bindPayload(ev.Data, &req); err != nil {
			zap.L().Warn("invalid send-private-message payload",
				zap.String("sender", ev.FromUserId), zap.Error(err))
			cs.router.deliverError(ev.FromUserId, "Invalid message payload")
			return
		}
		// 路由错误已在 Route 内处理（日志 + message-error），此处无需再传播
		_, _ = cs.router.Route(ctx, sender, req)

	case EventTyping:
		var req request.TypingEventRequest
		if err := cs.bindPayload(ev.Data, &req); err != nil {
			zap.L().Warn("invalid typing payload",
				zap.String("sender", ev.FromUserId), zap.Error(err))
			return
		}
		cs.relay.Relay(sender, req)

	default:
		zap.L().Warn("unknown client event dropped",
			zap.String("sender", ev.FromUserId),
			zap.String("event", ev.Event),
		)
	}
}

// bindPayload 反序列化并校验事件载荷
func (cs *ChatServer) bindPayload(data json.RawMessage, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return cs.validate.Struct(out)
}
