package chat

import (
	"context"
	"encoding/json"
	"testing"

	"whisper_chat_server/internal/dto/respond"
)

// newTestServer 构造 channel 模式的聊天服务器，不启动消费循环
// 测试直接调用 Dispatch，绕过 broker 异步链路
func newTestServer(repo *fakeMessageRepo) *ChatServer {
	return NewChatServer(ChatServerConfig{
		Mode:        "channel",
		MessageRepo: repo,
	})
}

func TestDispatchSendPrivateMessage(t *testing.T) {
	repo := &fakeMessageRepo{}
	cs := newTestServer(repo)

	sender := newTestClient("U1", "alice")
	receiver := newTestClient("U2", "bob")
	cs.presence.Register("U1", sender)
	cs.presence.Register("U2", receiver)

	cs.Dispatch(context.Background(), InboundEvent{
		Event:        EventSendPrivateMessage,
		FromUserId:   "U1",
		FromUsername: "alice",
		Data:         json.RawMessage(`{"receiverId":"U2","receiverUsername":"bob","text":"hello"}`),
	})

	if len(repo.messages) != 1 {
		t.Fatalf("expected 1 persisted message, got %d", len(repo.messages))
	}
	env := takeEvent(t, receiver)
	if env.Event != EventReceivePrivateMessage {
		t.Fatalf("receiver event = %s", env.Event)
	}
	var msg respond.PrivateMessageRespond
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	// 发送者身份必须来自连接而非载荷
	if msg.Sender != "U1" || msg.SenderUsername != "alice" {
		t.Fatalf("sender identity = %s/%s", msg.Sender, msg.SenderUsername)
	}
	takeEvent(t, sender) // 发送者回显
}

func TestDispatchInvalidSendPayload(t *testing.T) {
	repo := &fakeMessageRepo{}
	cs := newTestServer(repo)

	sender := newTestClient("U1", "alice")
	cs.presence.Register("U1", sender)

	// 缺少 receiverId：校验失败，回 message-error，不入库
	cs.Dispatch(context.Background(), InboundEvent{
		Event:        EventSendPrivateMessage,
		FromUserId:   "U1",
		FromUsername: "alice",
		Data:         json.RawMessage(`{"text":"hello"}`),
	})

	if len(repo.messages) != 0 {
		t.Fatal("invalid payload must not be persisted")
	}
	env := takeEvent(t, sender)
	if env.Event != EventMessageError {
		t.Fatalf("event = %s, want %s", env.Event, EventMessageError)
	}
	var payload MessageErrorPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Error != "Invalid message payload" {
		t.Fatalf("error text = %q", payload.Error)
	}
}

func TestDispatchInvalidTypingDropped(t *testing.T) {
	cs := newTestServer(&fakeMessageRepo{})

	sender := newTestClient("U1", "alice")
	receiver := newTestClient("U2", "bob")
	cs.presence.Register("U1", sender)
	cs.presence.Register("U2", receiver)

	// 缺少 receiverId：typing 载荷非法直接丢弃，无人收到任何事件
	cs.Dispatch(context.Background(), InboundEvent{
		Event:        EventTyping,
		FromUserId:   "U1",
		FromUsername: "alice",
		Data:         json.RawMessage(`{"isTyping":true}`),
	})
	assertNoEvent(t, sender)
	assertNoEvent(t, receiver)
}

func TestDispatchUnknownEventDropped(t *testing.T) {
	cs := newTestServer(&fakeMessageRepo{})

	sender := newTestClient("U1", "alice")
	cs.presence.Register("U1", sender)

	cs.Dispatch(context.Background(), InboundEvent{
		Event:        "delete-all-messages",
		FromUserId:   "U1",
		FromUsername: "alice",
		Data:         json.RawMessage(`{}`),
	})
	assertNoEvent(t, sender)
}

func TestRegisterEvictsPreviousSession(t *testing.T) {
	cs := newTestServer(&fakeMessageRepo{})

	old := newTestClient("U1", "alice")
	cs.register(old)
	takeEvent(t, old) // 首次上线的在线列表广播

	fresh := newTestClient("U1", "alice")
	cs.register(fresh)

	// 旧连接已被顶替并关闭，投递失败
	if old.Deliver(&ServerEvent{Event: EventUserTyping}) {
		t.Fatal("evicted session must not accept deliveries")
	}
	if got := cs.presence.Lookup("U1"); got != fresh {
		t.Fatal("registry should point at the new session")
	}

	// 新连接收到顶替后的在线列表广播
	env := takeEvent(t, fresh)
	if env.Event != EventOnlineUsers {
		t.Fatalf("event = %s, want %s", env.Event, EventOnlineUsers)
	}
}

func TestDisconnectBroadcastsAndIgnoresStale(t *testing.T) {
	cs := newTestServer(&fakeMessageRepo{})

	alice := newTestClient("U1", "alice")
	bob := newTestClient("U2", "bob")
	cs.register(alice)
	cs.register(bob)
	drain(alice)
	drain(bob)

	cs.disconnect(alice)

	env := takeEvent(t, bob)
	if env.Event != EventOnlineUsers {
		t.Fatalf("event = %s, want %s", env.Event, EventOnlineUsers)
	}
	var payload OnlineUsersPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(payload.UserIds) != 1 || payload.UserIds[0] != "U2" {
		t.Fatalf("online users after disconnect = %v", payload.UserIds)
	}

	// 同一连接的重复断开不再触发广播
	cs.disconnect(alice)
	assertNoEvent(t, bob)
}

func TestChannelBrokerPublishAfterClose(t *testing.T) {
	cs := newTestServer(&fakeMessageRepo{})
	cs.Close()

	err := cs.broker.Publish(context.Background(), InboundEvent{Event: EventTyping})
	if err == nil {
		t.Fatal("publish after close should fail")
	}
}

// drain 清空客户端出站通道
func drain(c *Client) {
	for {
		select {
		case <-c.sendBack:
		default:
			return
		}
	}
}
