package service

import (
	"fmt"
	"time"

	"github.com/focusup/internal/db"
	"gorm.io/gorm"
)

const dateKeyFormat = "2006-01-02"

// Aggregation 汇总一段回溯窗口内的工作时长分布
// 只统计 work 类型会话；MinutesByDate 只包含真实出现过的日期，不补零
type Aggregation struct {
	TotalWorkMinutes   int
	MinutesByHour      [24]int
	MinutesByDayOfWeek [7]int
	MinutesByDate      map[string]int
	PeakHours          []string
	PeakDaysOfWeek     []string
}

// ActivityService 负责番茄钟会话的窗口查询与聚合
type ActivityService struct {
	db *gorm.DB
}

// NewActivityService 构造 ActivityService
func NewActivityService(gdb *gorm.DB) *ActivityService {
	return &ActivityService{db: gdb}
}

// WorkSessionsSince 返回窗口起点之后的 work 会话，按开始时间升序
func (s *ActivityService) WorkSessionsSince(userID uint, windowStart time.Time) ([]db.PomodoroSession, error) {
	var sessions []db.PomodoroSession
	if err := s.db.Where("user_id = ? AND session_type = ? AND start_time >= ?",
		userID, db.SessionTypeWork, windowStart).
		Order("start_time ASC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list work sessions: %w", err)
	}
	return sessions, nil
}

// Aggregate 对会话列表做单遍聚合，纯函数，输入相同则输出相同
// 峰值并列时全部保留，不做隐式裁剪
func Aggregate(sessions []db.PomodoroSession, windowStart time.Time) Aggregation {
	agg := Aggregation{MinutesByDate: map[string]int{}}

	for _, session := range sessions {
		if session.SessionType != db.SessionTypeWork {
			continue
		}
		if session.StartTime.Before(windowStart) {
			continue
		}

		start := session.StartTime.In(time.Local)
		agg.TotalWorkMinutes += session.DurationMinutes
		agg.MinutesByHour[start.Hour()] += session.DurationMinutes
		agg.MinutesByDayOfWeek[int(start.Weekday())] += session.DurationMinutes
		agg.MinutesByDate[start.Format(dateKeyFormat)] += session.DurationMinutes
	}

	agg.PeakHours = peakHourLabels(agg.MinutesByHour)
	agg.PeakDaysOfWeek = peakDayLabels(agg.MinutesByDayOfWeek)

	return agg
}

func peakHourLabels(byHour [24]int) []string {
	maxMinutes := 0
	for _, minutes := range byHour {
		if minutes > maxMinutes {
			maxMinutes = minutes
		}
	}
	if maxMinutes == 0 {
		return nil
	}

	labels := make([]string, 0, 1)
	for hour, minutes := range byHour {
		if minutes == maxMinutes {
			labels = append(labels, fmt.Sprintf("%d:00 - %d:00", hour, hour+1))
		}
	}
	return labels
}

func peakDayLabels(byDay [7]int) []string {
	maxMinutes := 0
	for _, minutes := range byDay {
		if minutes > maxMinutes {
			maxMinutes = minutes
		}
	}
	if maxMinutes == 0 {
		return nil
	}

	labels := make([]string, 0, 1)
	for day, minutes := range byDay {
		if minutes == maxMinutes {
			labels = append(labels, time.Weekday(day).String())
		}
	}
	return labels
}
