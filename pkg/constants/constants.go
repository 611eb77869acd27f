package constants

const (
	CHANNEL_SIZE               = 100 // 每个连接的出站通道大小，满了直接丢弃该条推送
	REDIS_TIMEOUT              = 1   // redis 缓存过期时间 (分钟)
	REFRESH_TOKEN_EXPIRY_HOURS = 168 // Refresh Token 有效期（小时），168小时 = 7天
)
