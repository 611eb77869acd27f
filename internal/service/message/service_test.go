package message

import "testing"

func TestConversationCacheKeyDirectionless(t *testing.T) {
	a := conversationCacheKey("U1", "U2")
	b := conversationCacheKey("U2", "U1")
	if a != b {
		t.Fatalf("cache key depends on direction: %s vs %s", a, b)
	}
	if a != "conversation_U1_U2" {
		t.Fatalf("cache key = %s", a)
	}
}

func TestConversationCacheKeySelf(t *testing.T) {
	if got := conversationCacheKey("U1", "U1"); got != "conversation_U1_U1" {
		t.Fatalf("self conversation key = %s", got)
	}
}
