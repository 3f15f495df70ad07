package db

import (
	"time"

	"gorm.io/gorm"
)

// Habit 定义了习惯模型
// TargetFrequency 描述打卡目标（daily/weekly/specific_days，x_times_a_week 为保留值）
// SpecificDays 仅在 specific_days 模式下有意义，存储 0=周日..6=周六 的下标集合
// CurrentStreak/LongestStreak 由 MarkComplete 维护，编辑接口不会触碰
// LastCompletedDate 仅保留到日期粒度，用于"今天是否已打卡"判断
type Habit struct {
	gorm.Model
	UserID            uint   `gorm:"index;not null"`
	User              User   `gorm:"constraint:OnDelete:CASCADE"`
	Name              string `gorm:"not null"`
	TargetFrequency   string `gorm:"default:daily"`
	SpecificDays      []int  `gorm:"serializer:json"`
	CurrentStreak     int
	LongestStreak     int
	LastCompletedDate *time.Time
	// Completions 为只增不减的打卡流水，每次成功打卡追加一条
	Completions []HabitCompletion `gorm:"constraint:OnDelete:CASCADE"`
}

// HabitCompletion 记录单次打卡的时间戳
// 永不修改、永不删除（随习惯级联删除除外），用于一致性统计
type HabitCompletion struct {
	gorm.Model
	HabitID     uint      `gorm:"index;not null"`
	CompletedAt time.Time `gorm:"index;not null"`
}

// TableName 保持与既有数据的表名一致
func (HabitCompletion) TableName() string {
	return "habit_completions"
}
