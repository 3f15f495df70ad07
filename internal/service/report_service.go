package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// 周报的固定回溯窗口：过去 7 天，起点截断到本地零点
const weeklyReportLookbackDays = 7

// WeeklyReport 汇总过去一周的产出数据，字段名即对外 JSON 契约
type WeeklyReport struct {
	TotalWorkMinutes                int            `json:"totalWorkMinutes"`
	WorkMinutesByDay                map[string]int `json:"workMinutesByDay"`
	WorkMinutesByHour               [24]int        `json:"workMinutesByHour"`
	TotalHabitsCompletedInLast7Days int            `json:"totalHabitsCompletedInLast7Days"`
	HabitsCompletedToday            int            `json:"habitsCompletedToday"`
	HabitsCompletedLast7Days        map[string]int `json:"habitsCompletedLast7Days"`
	TotalTodosCompletedInLast7Days  int            `json:"totalTodosCompletedInLast7Days"`
}

// ReportService 组装周报：会话聚合 + 习惯打卡计数 + 待办完成数
type ReportService struct {
	db       *gorm.DB
	activity *ActivityService
	habits   *HabitService
	todos    *TodoService
}

// NewReportService 构造 ReportService
func NewReportService(gdb *gorm.DB) *ReportService {
	return &ReportService{
		db:       gdb,
		activity: NewActivityService(gdb),
		habits:   NewHabitService(gdb),
		todos:    NewTodoService(gdb),
	}
}

// Weekly 生成指定用户的周报
func (s *ReportService) Weekly(userID uint, now time.Time) (*WeeklyReport, error) {
	windowStart := lookbackStart(now, weeklyReportLookbackDays)

	sessions, err := s.activity.WorkSessionsSince(userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("weekly report sessions: %w", err)
	}
	agg := Aggregate(sessions, windowStart)

	report := &WeeklyReport{
		TotalWorkMinutes:         agg.TotalWorkMinutes,
		WorkMinutesByDay:         agg.MinutesByDate,
		WorkMinutesByHour:        agg.MinutesByHour,
		HabitsCompletedLast7Days: map[string]int{},
	}

	habits, err := s.habits.List(userID)
	if err != nil {
		return nil, fmt.Errorf("weekly report habits: %w", err)
	}

	for _, habit := range habits {
		if habit.LastCompletedDate != nil && isSameDay(*habit.LastCompletedDate, now) {
			report.HabitsCompletedToday++
		}
		for _, completion := range habit.Completions {
			if !completion.CompletedAt.Before(windowStart) {
				report.TotalHabitsCompletedInLast7Days++
				report.HabitsCompletedLast7Days[habit.Name]++
			}
		}
	}

	completedTodos, err := s.todos.CompletedCountSince(userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("weekly report todos: %w", err)
	}
	report.TotalTodosCompletedInLast7Days = completedTodos

	return report, nil
}
