// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"whisper_chat_server/internal/model"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	// Create 创建用户
	Create(user *model.UserInfo) error
	// FindByUuid 按用户 UUID 查找
	FindByUuid(uuid string) (*model.UserInfo, error)
	// FindByUsername 按用户名查找
	FindByUsername(username string) (*model.UserInfo, error)
	// ListExcept 列出除指定用户以外的所有用户，按用户名排序
	ListExcept(uuid string) ([]model.UserInfo, error)
	// UpdateOnlineTime 更新上线/离线时间
	UpdateOnlineTime(uuid string, column string) error
}

// MessageRepository 消息数据访问接口
// 实时层只依赖此接口持久化消息，不关心底层存储
type MessageRepository interface {
	// Create 创建消息，入库时由 GORM 分配 CreatedAt
	Create(message *model.Message) error
	// FindConversation 按两个用户查找双向会话消息，按创建时间升序
	FindConversation(userOneId, userTwoId string) ([]model.Message, error)
}

// Repositories 聚合所有 Repository 实例
type Repositories struct {
	User    UserRepository
	Message MessageRepository
}

// NewRepositories 创建 Repository 聚合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Message: NewMessageRepository(db),
	}
}
