package db

import (
	"time"

	"gorm.io/gorm"
)

// 番茄钟会话类型，与前端计时器的三种间隔一一对应
const (
	SessionTypeWork       = "work"
	SessionTypeShortBreak = "short_break"
	SessionTypeLongBreak  = "long_break"
)

// PomodoroSession 记录一次完成的计时间隔
// DurationMinutes 由客户端上报，服务端不与 EndTime-StartTime 交叉校验
// 创建后不可修改，正常流程中也不会删除
type PomodoroSession struct {
	gorm.Model
	UserID          uint      `gorm:"index;not null"`
	User            User      `gorm:"constraint:OnDelete:CASCADE"`
	StartTime       time.Time `gorm:"index;not null"`
	EndTime         time.Time `gorm:"not null"`
	DurationMinutes int       `gorm:"not null"`
	SessionType     string    `gorm:"index;not null"`
	TaskAssociated  string
}
