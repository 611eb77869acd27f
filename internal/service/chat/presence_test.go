package chat

import (
	"fmt"
	"sync"
	"testing"
)

// newTestClient 构造一个不关联真实 WebSocket 连接的客户端
// Deliver 只写内存通道，Conn 为 nil 时 close 也安全
func newTestClient(userId, username string) *Client {
	return NewClient(nil, nil, Identity{UserId: userId, Username: username})
}

func TestRegisterAndLookup(t *testing.T) {
	p := NewPresenceRegistry()
	alice := newTestClient("U1", "alice")

	if prev := p.Register("U1", alice); prev != nil {
		t.Fatalf("expected no previous connection, got %v", prev.UserId)
	}
	if got := p.Lookup("U1"); got != alice {
		t.Fatalf("Lookup returned wrong client")
	}
	if got := p.Lookup("U2"); got != nil {
		t.Fatalf("Lookup for offline user should return nil")
	}
}

func TestRegisterReplacesPreviousSession(t *testing.T) {
	p := NewPresenceRegistry()
	old := newTestClient("U1", "alice")
	fresh := newTestClient("U1", "alice")

	p.Register("U1", old)
	prev := p.Register("U1", fresh)
	if prev != old {
		t.Fatalf("Register should return the replaced connection")
	}
	if got := p.Lookup("U1"); got != fresh {
		t.Fatalf("new connection should own the registry entry")
	}
}

func TestUnregisterIgnoresStaleConnection(t *testing.T) {
	p := NewPresenceRegistry()
	old := newTestClient("U1", "alice")
	fresh := newTestClient("U1", "alice")

	p.Register("U1", old)
	p.Register("U1", fresh)

	// 旧连接迟到的断开事件不能误删新会话
	if removed := p.Unregister("U1", old); removed {
		t.Fatalf("stale unregister must not remove the new session")
	}
	if got := p.Lookup("U1"); got != fresh {
		t.Fatalf("new session should survive stale unregister")
	}

	if removed := p.Unregister("U1", fresh); !removed {
		t.Fatalf("current session unregister should remove the entry")
	}
	if got := p.Lookup("U1"); got != nil {
		t.Fatalf("entry should be gone after unregister")
	}
}

func TestSnapshotSorted(t *testing.T) {
	p := NewPresenceRegistry()
	for _, id := range []string{"U3", "U1", "U2"} {
		p.Register(id, newTestClient(id, id))
	}
	got := p.Snapshot()
	want := []string{"U1", "U2", "U3"}
	if len(got) != len(want) {
		t.Fatalf("snapshot length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	p := NewPresenceRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("U%d", n%10)
			c := newTestClient(id, id)
			p.Register(id, c)
			p.Lookup(id)
			p.Snapshot()
			p.Unregister(id, c)
		}(i)
	}
	wg.Wait()
}
