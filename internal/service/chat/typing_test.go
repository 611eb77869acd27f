package chat

import (
	"encoding/json"
	"testing"

	"whisper_chat_server/internal/dto/request"
)

func TestRelayToOnlineReceiver(t *testing.T) {
	presence := NewPresenceRegistry()
	relay := NewTypingRelay(presence)

	receiver := newTestClient("U2", "bob")
	presence.Register("U2", receiver)

	relay.Relay(Identity{UserId: "U1", Username: "alice"}, request.TypingEventRequest{
		ReceiverId: "U2",
		IsTyping:   true,
	})

	env := takeEvent(t, receiver)
	if env.Event != EventUserTyping {
		t.Fatalf("event = %s, want %s", env.Event, EventUserTyping)
	}
	var payload UserTypingPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.UserId != "U1" || payload.Username != "alice" || !payload.IsTyping {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestRelayStoppedTyping(t *testing.T) {
	presence := NewPresenceRegistry()
	relay := NewTypingRelay(presence)

	receiver := newTestClient("U2", "bob")
	presence.Register("U2", receiver)

	relay.Relay(Identity{UserId: "U1", Username: "alice"}, request.TypingEventRequest{
		ReceiverId: "U2",
		IsTyping:   false,
	})

	env := takeEvent(t, receiver)
	var payload UserTypingPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.IsTyping {
		t.Fatal("isTyping should be false")
	}
}

func TestRelayDropsWhenReceiverOffline(t *testing.T) {
	presence := NewPresenceRegistry()
	relay := NewTypingRelay(presence)

	sender := newTestClient("U1", "alice")
	presence.Register("U1", sender)

	// 接收者不在线：信号静默丢弃，发送者也不收到任何回执
	relay.Relay(sender.Identity, request.TypingEventRequest{
		ReceiverId: "U2",
		IsTyping:   true,
	})
	assertNoEvent(t, sender)
}
