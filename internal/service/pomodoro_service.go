package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/focusup/internal/db"
	"gorm.io/gorm"
)

// ErrSessionInvalid 在会话记录缺少必填字段或取值非法时返回
var ErrSessionInvalid = errors.New("invalid pomodoro session")

// PomodoroService 负责计时会话的记录与查询
// 会话创建后不可变，也没有删除路径

type PomodoroService struct {
	db *gorm.DB
}

// SessionInput 定义记录会话所需字段
// DurationMinutes 由客户端上报，服务端信任该值，不与起止时间交叉校验
type SessionInput struct {
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	SessionType     string
	TaskAssociated  string
}

// NewPomodoroService 构造 PomodoroService
func NewPomodoroService(gdb *gorm.DB) *PomodoroService {
	return &PomodoroService{db: gdb}
}

// Log 记录一次完成的计时间隔
func (s *PomodoroService) Log(userID uint, input SessionInput) (*db.PomodoroSession, error) {
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return nil, fmt.Errorf("%w: start and end time are required", ErrSessionInvalid)
	}
	if input.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrSessionInvalid)
	}

	sessionType := strings.TrimSpace(strings.ToLower(input.SessionType))
	switch sessionType {
	case db.SessionTypeWork, db.SessionTypeShortBreak, db.SessionTypeLongBreak:
	default:
		return nil, fmt.Errorf("%w: unsupported session type %q", ErrSessionInvalid, input.SessionType)
	}

	session := db.PomodoroSession{
		UserID:          userID,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		DurationMinutes: input.DurationMinutes,
		SessionType:     sessionType,
		TaskAssociated:  strings.TrimSpace(input.TaskAssociated),
	}

	if err := s.db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("log pomodoro session: %w", err)
	}
	return &session, nil
}

// List 返回用户的全部会话，按开始时间倒序
func (s *PomodoroService) List(userID uint) ([]db.PomodoroSession, error) {
	var sessions []db.PomodoroSession
	if err := s.db.Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list pomodoro sessions: %w", err)
	}
	return sessions, nil
}
