// Package service 提供业务逻辑层
// 本文件定义 Service 层接口，Handler 层只依赖接口
package service

import (
	"whisper_chat_server/internal/dto/request"
	"whisper_chat_server/internal/dto/respond"
)

// UserService 用户业务接口
type UserService interface {
	// Register 注册新用户并签发双 Token
	Register(req request.RegisterRequest) (*respond.RegisterRespond, error)
	// Login 用户名密码登录并签发双 Token
	Login(req request.LoginRequest) (*respond.LoginRespond, error)
	// GetUserList 获取除自己外的全部用户（联系人侧边栏）
	GetUserList(ownerId string) ([]respond.GetUserListRespond, error)
}

// AuthService 认证业务接口
type AuthService interface {
	// RefreshAccessToken 用有效的 Refresh Token 换取新的 Access Token
	RefreshAccessToken(refreshToken string) (accessToken string, err error)
}

// MessageService 消息业务接口
type MessageService interface {
	// GetConversation 获取两个用户之间的双向历史消息，按时间升序
	GetConversation(ownerId, otherId string) ([]respond.PrivateMessageRespond, error)
	// InvalidateConversation 失效会话历史缓存（供实时层在新消息入库后调用）
	InvalidateConversation(userOneId, userTwoId string)
}
