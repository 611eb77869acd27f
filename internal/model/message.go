// Package model 定义数据库实体模型
// 本文件定义私聊消息模型
package model

import (
	"gorm.io/gorm"
)

// Message 私聊消息模型
// 对应数据库 message 表
// Uuid 和 CreatedAt 均由服务端在入库时分配，客户端不可指定
type Message struct {
	gorm.Model

	// Uuid 消息唯一标识，雪花算法生成的 int64
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	// SendId 发送者 UUID，关联到 UserInfo 表
	SendId string `gorm:"column:send_id;index;type:char(20);not null;comment:发送者uuid"`

	// SendName 发送者用户名
	// 冗余存储，避免每次查询消息时都要关联用户表
	SendName string `gorm:"column:send_name;type:varchar(20);not null;comment:发送者用户名"`

	// ReceiveId 接收者 UUID
	ReceiveId string `gorm:"column:receive_id;index;type:char(20);not null;comment:接收者uuid"`

	// ReceiveName 接收者用户名，同样冗余存储
	ReceiveName string `gorm:"column:receive_name;type:varchar(20);not null;comment:接收者用户名"`

	// Content 消息文本内容
	Content string `gorm:"column:content;type:TEXT;not null;comment:消息内容"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}
