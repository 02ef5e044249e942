package model

import "time"

type User struct {
	BaseModel // 包括 ID, CreatedAt, UpdatedAt, DeletedAt
	Username  string `gorm:"unique;not null"`
	Password  string `gorm:"not null"`
	// 指针*time.Time的零值是nil，这样能区分“从未登录过”和“登录过”，平台统计活跃用户时要用
	LastLoginAt *time.Time
}
