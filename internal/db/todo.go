package db

import (
	"time"

	"gorm.io/gorm"
)

// Todo 定义了待办事项模型
// CompletedAt 在 IsCompleted 翻转为 true 时写入，翻回 false 时清空
type Todo struct {
	gorm.Model
	UserID      uint   `gorm:"index;not null"`
	User        User   `gorm:"constraint:OnDelete:CASCADE"`
	TaskName    string `gorm:"not null"`
	IsCompleted bool   `gorm:"default:false"`
	CompletedAt *time.Time
}
