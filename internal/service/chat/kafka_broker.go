// kafka_broker.go
// 核心职责：分布式模式下的入站事件代理
// 1. Publish 将事件序列化后写入 Kafka 主题
// 2. 消费循环从 Kafka 读取全量事件并交给分发器
// 3. 事件信封携带发送者身份，消费侧不再依赖连接上下文
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	myconfig "whisper_chat_server/internal/config"
	"whisper_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

// KafkaBroker 基于 Kafka 的事件代理
type KafkaBroker struct {
	client     *KafkaClient
	dispatcher Dispatcher
	done       chan struct{}
}

// NewKafkaBroker 创建 Kafka 事件代理
func NewKafkaBroker(client *KafkaClient, dispatcher Dispatcher) *KafkaBroker {
	return &KafkaBroker{
		client:     client,
		dispatcher: dispatcher,
		done:       make(chan struct{}),
	}
}

// Publish 序列化事件并写入 Kafka
func (b *KafkaBroker) Publish(ctx context.Context, ev InboundEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "序列化入站事件失败")
	}
	key := []byte(strconv.Itoa(myconfig.GetConfig().KafkaConfig.Partition))
	if err := b.client.SendMessage(ctx, key, value); err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "写入 Kafka 失败")
	}
	return nil
}

// Start 启动 Kafka 消费循环
func (b *KafkaBroker) Start() {
	zap.L().Info("kafka broker started")
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error(fmt.Sprintf("kafka broker panic: %v", r))
		}
	}()
	ctx := context.Background()
	for {
		select {
		case <-b.done:
			return
		default:
		}
		kafkaMessage, err := b.client.Consumer.ReadMessage(ctx)
		if err != nil {
			zap.L().Error(err.Error())
			continue // 读取失败，重试
		}
		var ev InboundEvent
		if err := json.Unmarshal(kafkaMessage.Value, &ev); err != nil {
			zap.L().Error("unmarshal kafka event failed", zap.Error(err))
			continue
		}
		b.dispatcher.Dispatch(ctx, ev)
	}
}

// Close 停止消费循环并关闭 Kafka 连接
func (b *KafkaBroker) Close() {
	close(b.done)
	b.client.KafkaClose()
}
