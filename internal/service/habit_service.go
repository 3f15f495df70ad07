package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/focusup/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrHabitNotFound 在习惯不存在或不属于当前用户时返回，两种情况对调用方不可区分
	ErrHabitNotFound = errors.New("habit not found")
	// ErrHabitAlreadyCompleted 表示今天已经打过卡
	ErrHabitAlreadyCompleted = errors.New("habit already marked complete for today")
	// ErrHabitInvalidInput 在创建/更新参数不合法时返回
	ErrHabitInvalidInput = errors.New("invalid habit input")
)

// HabitService 负责习惯的增删改查、打卡连胜与一致性统计
// 连胜规则：仅严格连续的日历天可以延长连胜，隔天打卡会回落到 1

type HabitService struct {
	db *gorm.DB
}

// HabitInput 定义创建/更新习惯时可配置字段
// 打卡衍生字段（连胜、最近完成日）不在此列，编辑接口永不触碰它们
type HabitInput struct {
	Name            string
	TargetFrequency string
	SpecificDays    []int
}

// NewHabitService 构造 HabitService
func NewHabitService(gdb *gorm.DB) *HabitService {
	return &HabitService{db: gdb}
}

// List 返回指定用户的全部习惯，按创建时间倒序，附带打卡流水
func (s *HabitService) List(userID uint) ([]db.Habit, error) {
	var habits []db.Habit
	if err := s.db.Where("user_id = ?", userID).
		Preload("Completions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("completed_at ASC")
		}).
		Order("created_at DESC").
		Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

// Get 按 ID 加载习惯并校验归属，查不到与归属不符统一返回 ErrHabitNotFound
func (s *HabitService) Get(id, userID uint) (*db.Habit, error) {
	var habit db.Habit
	if err := s.db.Preload("Completions", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("completed_at ASC")
	}).First(&habit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}
	if habit.UserID != userID {
		return nil, ErrHabitNotFound
	}
	return &habit, nil
}

// Create 新建习惯，specific_days 之外的频率会清空 SpecificDays
func (s *HabitService) Create(userID uint, input HabitInput) (*db.Habit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: habit name is required", ErrHabitInvalidInput)
	}

	frequency, err := ParseTargetFrequency(input.TargetFrequency)
	if err != nil {
		return nil, err
	}

	days, err := normalizeSpecificDays(frequency, input.SpecificDays)
	if err != nil {
		return nil, err
	}

	habit := db.Habit{
		UserID:          userID,
		Name:            name,
		TargetFrequency: string(frequency),
		SpecificDays:    days,
	}

	if err := s.db.Create(&habit).Error; err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}
	return &habit, nil
}

// Update 更新名称/频率/指定日，空名称或空频率保留原值
func (s *HabitService) Update(id, userID uint, input HabitInput) (*db.Habit, error) {
	habit, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		habit.Name = name
	}

	frequency := TargetFrequency(habit.TargetFrequency)
	if strings.TrimSpace(input.TargetFrequency) != "" {
		frequency, err = ParseTargetFrequency(input.TargetFrequency)
		if err != nil {
			return nil, err
		}
		habit.TargetFrequency = string(frequency)
	}

	days, err := normalizeSpecificDays(frequency, input.SpecificDays)
	if err != nil {
		return nil, err
	}
	habit.SpecificDays = days

	if err := s.db.Save(habit).Error; err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	return habit, nil
}

// Delete 删除习惯及其打卡流水
func (s *HabitService) Delete(id, userID uint) error {
	habit, err := s.Get(id, userID)
	if err != nil {
		return err
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", habit.ID).Delete(&db.HabitCompletion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Habit{}, habit.ID).Error
	}); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

// MarkComplete 处理打卡：同一天重复打卡被拒绝，昨天打过则连胜 +1，否则回落到 1
// 整行保存加追加流水在一个事务内完成；并发双击仍可能双双通过当日检查，
// 依赖存储层最后写入生效，属于已知并接受的竞态
func (s *HabitService) MarkComplete(id, userID uint, now time.Time) (*db.Habit, error) {
	habit, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	if habit.LastCompletedDate != nil && isSameDay(*habit.LastCompletedDate, now) {
		return nil, ErrHabitAlreadyCompleted
	}

	today := normalizeToDate(now)
	yesterday := today.AddDate(0, 0, -1)

	newStreak := 1
	if habit.LastCompletedDate != nil && isSameDay(*habit.LastCompletedDate, yesterday) {
		newStreak = habit.CurrentStreak + 1
	}

	habit.LastCompletedDate = &today
	habit.CurrentStreak = newStreak
	if newStreak > habit.LongestStreak {
		habit.LongestStreak = newStreak
	}

	completion := db.HabitCompletion{HabitID: habit.ID, CompletedAt: now}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Completions").Save(habit).Error; err != nil {
			return err
		}
		return tx.Create(&completion).Error
	}); err != nil {
		return nil, fmt.Errorf("mark habit complete: %w", err)
	}

	habit.Completions = append(habit.Completions, completion)
	return habit, nil
}

// ComputeConsistency 生成窗口内的一致性描述，纯函数，不触碰存储
// 保留频率（x_times_a_week）与未知取值返回空串
func (s *HabitService) ComputeConsistency(habit db.Habit, windowStart, windowEnd time.Time) string {
	completions := 0
	for _, c := range habit.Completions {
		if !c.CompletedAt.Before(windowStart) && !c.CompletedAt.After(windowEnd) {
			completions++
		}
	}

	daysInPeriod := wholeDaysBetween(windowStart, windowEnd)

	switch TargetFrequency(habit.TargetFrequency) {
	case FrequencyDaily:
		return fmt.Sprintf("Completed %d out of %d days (daily target).", completions, daysInPeriod)
	case FrequencyWeekly:
		return fmt.Sprintf("Completed %d times in last %d days (weekly target).", completions, daysInPeriod)
	case FrequencySpecificDays:
		targetDays := len(habit.SpecificDays) * ceilDiv(daysInPeriod, 7)
		return fmt.Sprintf("Completed %d times out of approximately %d target days (specific days target).", completions, targetDays)
	case FrequencyXTimesAWeek:
		return ""
	default:
		return ""
	}
}

func normalizeSpecificDays(frequency TargetFrequency, days []int) ([]int, error) {
	if frequency != FrequencySpecificDays {
		return []int{}, nil
	}
	for _, day := range days {
		if day < 0 || day > 6 {
			return nil, fmt.Errorf("%w: weekday index %d out of range", ErrHabitInvalidInput, day)
		}
	}
	if days == nil {
		days = []int{}
	}
	return days, nil
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
