package repository

import (
	"Vega_Estate/internal/model"
	"time"

	"gorm.io/gorm"
)

// 用户仓库接口：1、将用户插入用户表 2、根据用户名查找用户 3、登录时间戳 4、活跃用户统计
type UserRepository interface {
	Create(user *model.User) error
	FindByUsername(username string) (*model.User, error)
	UpdateLastLogin(userID uint64, at time.Time) error
	CountActiveSince(since time.Time) (int64, error)
}

// 数据库接口封装
type userRepository struct {
	db *gorm.DB
}

// 封装函数
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// 用户插入表
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// 根据用户名找用户
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var result model.User
	err := r.db.Where("username = ?", username).First(&result).Error
	if err != nil {
		return nil, err // 如果有错（包括没找到），直接返回
	}
	return &result, err
}

// 登录成功后刷一下最后登录时间，平台统计“30天活跃用户”就靠这一列
func (r *userRepository) UpdateLastLogin(userID uint64, at time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).UpdateColumn("last_login_at", at).Error
}

func (r *userRepository) CountActiveSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("last_login_at >= ?", since).Count(&count).Error
	return count, err
}
