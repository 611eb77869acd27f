// Package message 提供消息历史相关的业务逻辑
// 实时投递不经过本包，见 internal/service/chat
package message

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"whisper_chat_server/internal/dao/mysql/repository"
	myredis "whisper_chat_server/internal/dao/redis"
	"whisper_chat_server/internal/dto/respond"
	"whisper_chat_server/pkg/constants"
	"whisper_chat_server/pkg/errorx"
)

// messageService 消息业务逻辑实现
type messageService struct {
	repos *repository.Repositories
}

// NewMessageService 构造函数
func NewMessageService(repos *repository.Repositories) *messageService {
	return &messageService{repos: repos}
}

// conversationCacheKey 会话缓存 Key
// ID 排序后拼接，保证同一对用户无论查询方向 Key 唯一
func conversationCacheKey(userOneId, userTwoId string) string {
	if userOneId > userTwoId {
		userOneId, userTwoId = userTwoId, userOneId
	}
	return "conversation_" + userOneId + "_" + userTwoId
}

// GetConversation 获取两个用户之间的双向历史消息，按创建时间升序
// 先查 Redis 缓存，未命中再查数据库并异步回填缓存
func (m *messageService) GetConversation(ownerId, otherId string) ([]respond.PrivateMessageRespond, error) {
	cacheKey := conversationCacheKey(ownerId, otherId)

	rspString, err := myredis.GetKeyNilIsErr(context.Background(), cacheKey)
	if err == nil {
		var rsp []respond.PrivateMessageRespond
		if err := json.Unmarshal([]byte(rspString), &rsp); err != nil {
			zap.L().Error("json unmarshal cache error", zap.Error(err))
			// 缓存解析失败，降级查数据库
		} else {
			return rsp, nil
		}
	} else if !errors.Is(err, redis.Nil) && errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error("redis get key error", zap.Error(err))
	}

	messageList, err := m.repos.Message.FindConversation(ownerId, otherId)
	if err != nil {
		zap.L().Error("find conversation error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rspList := make([]respond.PrivateMessageRespond, 0, len(messageList))
	for _, message := range messageList {
		rspList = append(rspList, respond.PrivateMessageRespond{
			Id:               strconv.FormatInt(message.Uuid, 10),
			Sender:           message.SendId,
			SenderUsername:   message.SendName,
			Receiver:         message.ReceiveId,
			ReceiverUsername: message.ReceiveName,
			Text:             message.Content,
			CreatedAt:        message.CreatedAt.Format(time.RFC3339),
		})
	}

	// 异步回填缓存
	myredis.SubmitCacheTask(func() {
		jsonBytes, err := json.Marshal(rspList)
		if err != nil {
			zap.L().Error("json marshal error", zap.Error(err))
			return
		}
		if err := myredis.SetKeyEx(context.Background(), cacheKey, string(jsonBytes),
			time.Duration(constants.REDIS_TIMEOUT)*time.Minute); err != nil {
			zap.L().Error("redis set key error", zap.Error(err))
		}
	})

	return rspList, nil
}

// InvalidateConversation 失效会话历史缓存
// 实时层在新消息入库后调用，保证 REST 历史查询不读到旧列表
func (m *messageService) InvalidateConversation(userOneId, userTwoId string) {
	cacheKey := conversationCacheKey(userOneId, userTwoId)
	myredis.SubmitCacheTask(func() {
		if err := myredis.DelKey(context.Background(), cacheKey); err != nil {
			zap.L().Error("redis del key error", zap.Error(err))
		}
	})
}
