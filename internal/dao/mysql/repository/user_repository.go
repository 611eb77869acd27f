package repository

import (
	"time"

	"whisper_chat_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(user *model.UserInfo) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}

// FindByUuid 按用户 UUID 查找
func (r *userRepository) FindByUuid(uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.Where("uuid = ?", uuid).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 uuid=%s", uuid)
	}
	return &user, nil
}

// FindByUsername 按用户名查找
func (r *userRepository) FindByUsername(username string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 username=%s", username)
	}
	return &user, nil
}

// ListExcept 列出除指定用户以外的所有用户，按用户名排序
// 对应前端联系人侧边栏
func (r *userRepository) ListExcept(uuid string) ([]model.UserInfo, error) {
	var users []model.UserInfo
	if err := r.db.Where("uuid <> ?", uuid).Order("username ASC").Find(&users).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户列表 except=%s", uuid)
	}
	return users, nil
}

// UpdateOnlineTime 更新上线/离线时间
// column 取 "last_online_at" 或 "last_offline_at"
func (r *userRepository) UpdateOnlineTime(uuid string, column string) error {
	if err := r.db.Model(&model.UserInfo{}).Where("uuid = ?", uuid).
		Update(column, time.Now()).Error; err != nil {
		return wrapDBErrorf(err, "更新用户在线时间 uuid=%s", uuid)
	}
	return nil
}
