// Package user 提供用户相关的业务逻辑
// 注册、登录、用户列表
package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"whisper_chat_server/internal/dao/mysql/repository"
	myredis "whisper_chat_server/internal/dao/redis"
	"whisper_chat_server/internal/dto/request"
	"whisper_chat_server/internal/dto/respond"
	"whisper_chat_server/internal/model"
	"whisper_chat_server/pkg/constants"
	"whisper_chat_server/pkg/errorx"
	"whisper_chat_server/pkg/util/jwt"
	"whisper_chat_server/pkg/util/random"
)

// userInfoService 用户业务逻辑实现
// 通过构造函数注入 Repository 依赖
type userInfoService struct {
	repos *repository.Repositories
}

// NewUserService 构造函数，注入所有依赖的 Repository
func NewUserService(repos *repository.Repositories) *userInfoService {
	return &userInfoService{repos: repos}
}

// Register 注册新用户
// 用户名全局唯一；注册成功直接签发双 Token，免去一次登录
func (u *userInfoService) Register(req request.RegisterRequest) (*respond.RegisterRespond, error) {
	if _, err := u.repos.User.FindByUsername(req.Username); err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "用户名已被占用")
	} else if errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	newUser := model.UserInfo{
		Uuid:        "U" + random.GetNowAndLenRandomString(13),
		Username:    req.Username,
		Email:       req.Email,
		RawPassword: req.Password, // BeforeSave Hook 负责 bcrypt 加密
	}
	if err := u.repos.User.Create(&newUser); err != nil {
		zap.L().Error("创建用户失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	accessToken, refreshToken, err := u.issueTokens(newUser.Uuid, newUser.Username)
	if err != nil {
		return nil, err
	}
	return &respond.RegisterRespond{
		Uuid:         newUser.Uuid,
		Username:     newUser.Username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Login 登录
func (u *userInfoService) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := u.repos.User.FindByUsername(req.Username)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在，请注册")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "密码不正确，请重试")
	}

	accessToken, refreshToken, err := u.issueTokens(user.Uuid, user.Username)
	if err != nil {
		return nil, err
	}
	return &respond.LoginRespond{
		Uuid:         user.Uuid,
		Username:     user.Username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// issueTokens 签发双 Token，并把 Refresh Token ID 存入 Redis 实现单点互踢
func (u *userInfoService) issueTokens(uuid, username string) (string, string, error) {
	accessToken, err := jwt.GenerateAccessToken(uuid, username)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return "", "", errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(uuid, username)
	if err != nil {
		zap.L().Error("生成 Refresh Token 失败", zap.Error(err))
		return "", "", errorx.ErrServerBusy
	}

	redisKey := "user_token:" + uuid
	expiry := time.Duration(constants.REFRESH_TOKEN_EXPIRY_HOURS) * time.Hour
	if err := myredis.SetKeyEx(context.Background(), redisKey, tokenID, expiry); err != nil {
		zap.L().Error("存储 Refresh Token ID 失败", zap.Error(err))
		return "", "", errorx.ErrServerBusy
	}
	return accessToken, refreshToken, nil
}

// GetUserList 获取除自己以外的全部用户，按用户名排序
func (u *userInfoService) GetUserList(ownerId string) ([]respond.GetUserListRespond, error) {
	users, err := u.repos.User.ListExcept(ownerId)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rspList := make([]respond.GetUserListRespond, 0, len(users))
	for _, one := range users {
		rspList = append(rspList, respond.GetUserListRespond{
			Uuid:     one.Uuid,
			Username: one.Username,
			Email:    one.Email,
		})
	}
	return rspList, nil
}
