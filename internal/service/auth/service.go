// Package auth 提供认证相关的业务逻辑
// 处理 Refresh Token 验证与 Access Token 刷新
package auth

import (
	"context"

	"go.uber.org/zap"

	myredis "whisper_chat_server/internal/dao/redis"
	"whisper_chat_server/pkg/errorx"
	"whisper_chat_server/pkg/util/jwt"
)

// Service 认证服务实现
type Service struct{}

// NewAuthService 创建认证服务实例
func NewAuthService() *Service {
	return &Service{}
}

// RefreshAccessToken 用有效的 Refresh Token 换取新的 Access Token
// Token ID 必须与 Redis 中记录的一致：重新登录会覆盖记录，旧 Refresh Token 随即失效（单点互踢）
func (s *Service) RefreshAccessToken(refreshToken string) (string, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil {
		return "", errorx.New(errorx.CodeUnauthorized, "Refresh Token 已过期或无效")
	}
	if claims.Subject != "refresh_token" {
		return "", errorx.New(errorx.CodeUnauthorized, "请使用 Refresh Token 刷新")
	}

	redisKey := "user_token:" + claims.UserID
	validTokenID, err := myredis.GetKey(context.Background(), redisKey)
	if err != nil {
		zap.L().Error(err.Error())
		return "", errorx.ErrServerBusy
	}
	if validTokenID == "" || validTokenID != claims.TokenID {
		return "", errorx.New(errorx.CodeUnauthorized, "登录状态已失效，请重新登录")
	}

	accessToken, err := jwt.GenerateAccessToken(claims.UserID, claims.Username)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return "", errorx.ErrServerBusy
	}
	return accessToken, nil
}
