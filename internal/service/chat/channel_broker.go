// channel_broker.go
// 核心职责：单机模式下的入站事件代理
// 1. 进程内有界通道中转，不依赖外部消息队列
// 2. 单一消费协程顺序分发，适合小规模或开发环境
package chat

import (
	"context"

	"whisper_chat_server/pkg/constants"
	"whisper_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

// ChannelBroker 进程内通道实现的事件代理
type ChannelBroker struct {
	// Transmit 事件中转通道
	Transmit chan InboundEvent

	dispatcher Dispatcher
	done       chan struct{}
}

// NewChannelBroker 创建单机事件代理
func NewChannelBroker(dispatcher Dispatcher) *ChannelBroker {
	return &ChannelBroker{
		Transmit:   make(chan InboundEvent, constants.CHANNEL_SIZE),
		dispatcher: dispatcher,
		done:       make(chan struct{}),
	}
}

// Publish 发布事件到中转通道
// 通道已满说明同一时间发送过多，返回服务繁忙，由读协程决定是否回执
func (b *ChannelBroker) Publish(ctx context.Context, ev InboundEvent) error {
	select {
	case <-b.done:
		return errorx.New(errorx.CodeServerBusy, "聊天服务已关闭")
	case b.Transmit <- ev:
		return nil
	default:
		return errorx.New(errorx.CodeServerBusy, "同一时间发送消息过多，请稍后重试")
	}
}

// Start 启动消费循环，顺序分发中转通道里的事件
func (b *ChannelBroker) Start() {
	zap.L().Info("channel broker started")
	ctx := context.Background()
	for {
		select {
		case <-b.done:
			return
		case ev := <-b.Transmit:
			b.dispatcher.Dispatch(ctx, ev)
		}
	}
}

// Close 停止消费循环
func (b *ChannelBroker) Close() {
	close(b.done)
}
