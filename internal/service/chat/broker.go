// broker.go
// 核心职责：入站事件代理接口
// 支持两种实现：ChannelBroker (单机进程内通道), KafkaBroker (分布式)
// 读协程只负责 Publish，事件最终由消费侧交给分发器处理
package chat

import (
	"context"
)

// Dispatcher 入站事件分发器
// ChatServer 实现此接口，按事件类型分发给 MessageRouter / TypingRelay
type Dispatcher interface {
	Dispatch(ctx context.Context, ev InboundEvent)
}

// MessageBroker 入站事件代理接口
type MessageBroker interface {
	// Publish 发布一条入站事件
	Publish(ctx context.Context, ev InboundEvent) error
	// Start 启动消费循环（阻塞，应在独立协程中调用）
	Start()
	// Close 关闭代理资源
	Close()
}
