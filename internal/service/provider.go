// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"whisper_chat_server/internal/dao/mysql/repository"
	"whisper_chat_server/internal/service/auth"
	"whisper_chat_server/internal/service/message"
	"whisper_chat_server/internal/service/user"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此结构访问各个 Service
type Services struct {
	User    UserService
	Auth    AuthService
	Message MessageService
}

// NewServices 创建并注入所有 Service 实例
// repos: Repository 层聚合实例
func NewServices(repos *repository.Repositories) *Services {
	return &Services{
		User:    user.NewUserService(repos),
		Auth:    auth.NewAuthService(),
		Message: message.NewMessageService(repos),
	}
}
