package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"whisper_chat_server/internal/config"
	dao "whisper_chat_server/internal/dao/mysql"
	myredis "whisper_chat_server/internal/dao/redis"
	"whisper_chat_server/internal/handler"
	"whisper_chat_server/internal/https_server"
	"whisper_chat_server/internal/infrastructure/logger"
	"whisper_chat_server/internal/service"
	"whisper_chat_server/internal/service/chat"
	"whisper_chat_server/pkg/util/jwt"
	"whisper_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis
	myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化 JWT
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	zap.L().Info("JWT 初始化成功")

	// 6. 初始化雪花算法 ID 生成器
	snowflake.Init()
	zap.L().Info("雪花算法初始化成功")

	// 7. 初始化 validator 翻译器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("validator 翻译器初始化失败", zap.Error(err))
	}
	zap.L().Info("validator 翻译器初始化成功")

	// 8. 初始化 Service 层 (依赖注入)
	services := service.NewServices(repos)
	zap.L().Info("Service 层初始化成功")

	// 9. 初始化 ChatServer
	chatServer := chat.NewChatServer(chat.ChatServerConfig{
		Mode:        conf.KafkaConfig.MessageMode,
		MessageRepo: repos.Message,
		UserRepo:    repos.User,
		Cache:       services.Message,
	})
	if conf.KafkaConfig.MessageMode == "kafka" {
		chatServer.InitKafka()
	}
	zap.L().Info("ChatServer 初始化成功", zap.String("mode", conf.KafkaConfig.MessageMode))

	// 10. 初始化 HTTP 服务器
	handlers := handler.NewHandlers(services, chatServer)
	engine := https_server.Init(handlers)
	zap.L().Info("HTTP 服务器初始化成功")

	// 11. 启动服务
	go chatServer.Start()

	go func() {
		addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
		if err := engine.Run(addr); err != nil {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 等待信号
	<-quit

	zap.L().Info("关闭服务器...")

	chatServer.Close()

	zap.L().Info("服务器已关闭")
}
