// presence.go
// 核心职责：在线状态注册表
// 1. 维护 userId -> 连接 的映射，单用户单会话（新连接顶掉旧连接）
// 2. 所有操作并发安全，注册/注销/查询/快照彼此线性化
// 3. 不做网络 IO，可脱离传输层单测
package chat

import (
	"sort"
	"sync"
)

// PresenceRegistry 在线状态注册表
// 互斥锁保护的内存映射，是各连接协程之间唯一的共享状态
type PresenceRegistry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewPresenceRegistry 创建注册表实例
func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		clients: make(map[string]*Client),
	}
}

// Register 注册连接，返回该用户此前的连接（如有）
// 同一 userId 再次注册时直接覆盖，旧连接由调用方决定如何处置
func (p *PresenceRegistry) Register(userId string, client *Client) (prev *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev = p.clients[userId]
	p.clients[userId] = client
	return prev
}

// Unregister 注销连接
// 仅当当前表项仍是该连接时才移除，防止迟到的断开事件误删新会话
// 返回是否真正移除了表项
func (p *PresenceRegistry) Unregister(userId string, client *Client) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clients[userId] == client {
		delete(p.clients, userId)
		return true
	}
	return false
}

// Lookup 查找指定用户的连接，不在线返回 nil
func (p *PresenceRegistry) Lookup(userId string) *Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clients[userId]
}

// Snapshot 返回当前在线用户 ID 集合（排序后），用于构造在线列表广播
func (p *PresenceRegistry) Snapshot() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	userIds := make([]string, 0, len(p.clients))
	for userId := range p.clients {
		userIds = append(userIds, userId)
	}
	sort.Strings(userIds)
	return userIds
}

// Broadcast 向所有在线连接推送事件
// Deliver 为非阻塞投递，持读锁期间不会被慢连接拖住
func (p *PresenceRegistry) Broadcast(evt *ServerEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, client := range p.clients {
		client.Deliver(evt)
	}
}
