package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"whisper_chat_server/internal/handler"
	"whisper_chat_server/internal/model"
	"whisper_chat_server/internal/service/chat"
	"whisper_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// memMessageRepo 内存消息仓库，满足实时层的持久化依赖
type memMessageRepo struct {
	messages []model.Message
}

func (m *memMessageRepo) Create(message *model.Message) error {
	message.CreatedAt = time.Now()
	m.messages = append(m.messages, *message)
	return nil
}

func (m *memMessageRepo) FindConversation(userOneId, userTwoId string) ([]model.Message, error) {
	return m.messages, nil
}

// newWsTestServer 启动只挂载 /ws 路由的测试服务器
func newWsTestServer(t *testing.T) (*httptest.Server, *chat.ChatServer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	chatServer := chat.NewChatServer(chat.ChatServerConfig{
		Mode:        "channel",
		MessageRepo: &memMessageRepo{},
	})
	go chatServer.Start()
	t.Cleanup(chatServer.Close)

	wsHandler := handler.NewWsHandler(chatServer)
	engine := gin.New()
	engine.GET("/ws", wsHandler.Connect)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv, chatServer
}

func wsURL(srv *httptest.Server, token string) string {
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if token != "" {
		u += "?token=" + token
	}
	return u
}

func TestConnectRejectsMissingToken(t *testing.T) {
	jwt.Init("test-secret-at-least-32-characters!!", 15, 168)
	srv, _ := newWsTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	if err == nil {
		t.Fatal("handshake without token should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp)
	}
}

func TestConnectRejectsInvalidToken(t *testing.T) {
	jwt.Init("test-secret-at-least-32-characters!!", 15, 168)
	srv, _ := newWsTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "forged-token"), nil)
	if err == nil {
		t.Fatal("handshake with forged token should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp)
	}
}

func TestConnectRejectsRefreshToken(t *testing.T) {
	jwt.Init("test-secret-at-least-32-characters!!", 15, 168)
	srv, _ := newWsTestServer(t)

	// Refresh Token 只能换取 Access Token，不能直接建立连接
	refresh, _, err := jwt.GenerateRefreshToken("U1", "alice")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, refresh), nil)
	if err == nil {
		t.Fatal("handshake with refresh token should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp)
	}
}

func TestConnectAuthenticatedReceivesOnlineUsers(t *testing.T) {
	jwt.Init("test-secret-at-least-32-characters!!", 15, 168)
	srv, _ := newWsTestServer(t)

	token, err := jwt.GenerateAccessToken("U1", "alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	if err != nil {
		t.Fatalf("handshake with access token failed: %v", err)
	}
	defer conn.Close()

	// 注册成功后第一条推送是在线用户全量快照
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read first event: %v", err)
	}
	var env struct {
		Event string `json:"event"`
		Data  struct {
			UserIds []string `json:"userIds"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if env.Event != "online-users" {
		t.Fatalf("first event = %s, want online-users", env.Event)
	}
	if len(env.Data.UserIds) != 1 || env.Data.UserIds[0] != "U1" {
		t.Fatalf("online users = %v", env.Data.UserIds)
	}
}

func TestPrivateMessageEndToEnd(t *testing.T) {
	jwt.Init("test-secret-at-least-32-characters!!", 15, 168)
	srv, _ := newWsTestServer(t)

	dial := func(userId, username string) *websocket.Conn {
		t.Helper()
		token, err := jwt.GenerateAccessToken(userId, username)
		if err != nil {
			t.Fatalf("GenerateAccessToken: %v", err)
		}
		conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
		if err != nil {
			t.Fatalf("dial for %s: %v", userId, err)
		}
		t.Cleanup(func() { conn.Close() })
		return conn
	}

	alice := dial("U1", "alice")
	bob := dial("U2", "bob")

	// 等到接收者视角的在线列表里出现双方再发消息
	waitOnline := func(conn *websocket.Conn) {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for {
			_ = conn.SetReadDeadline(deadline)
			_, raw, err := conn.ReadMessage()
			if err != nil {
				t.Fatalf("waiting for online-users: %v", err)
			}
			var env struct {
				Event string `json:"event"`
				Data  struct {
					UserIds []string `json:"userIds"`
				} `json:"data"`
			}
			if json.Unmarshal(raw, &env) == nil && env.Event == "online-users" && len(env.Data.UserIds) == 2 {
				return
			}
		}
	}
	waitOnline(alice)
	waitOnline(bob)

	send := `{"event":"send-private-message","data":{"receiverId":"U2","receiverUsername":"bob","text":"hello bob"}}`
	if err := alice.WriteMessage(websocket.TextMessage, []byte(send)); err != nil {
		t.Fatalf("write message: %v", err)
	}

	expectMessage := func(conn *websocket.Conn, who string) {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("%s read message: %v", who, err)
		}
		var env struct {
			Event string `json:"event"`
			Data  struct {
				Id     string `json:"_id"`
				Sender string `json:"sender"`
				Text   string `json:"text"`
			} `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s unmarshal: %v", who, err)
		}
		if env.Event != "receive-private-message" {
			t.Fatalf("%s event = %s", who, env.Event)
		}
		if env.Data.Sender != "U1" || env.Data.Text != "hello bob" || env.Data.Id == "" {
			t.Fatalf("%s payload = %+v", who, env.Data)
		}
	}
	expectMessage(bob, "receiver")
	expectMessage(alice, "sender echo")
}
