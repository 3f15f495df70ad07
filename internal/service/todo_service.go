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
	// ErrTodoNotFound 在待办不存在或不属于当前用户时返回
	ErrTodoNotFound = errors.New("todo not found")
	// ErrTodoInvalidInput 在缺少必填字段时返回
	ErrTodoInvalidInput = errors.New("invalid todo input")
)

// TodoService 负责待办事项的增删改查
type TodoService struct {
	db *gorm.DB
}

// TodoInput 定义创建/更新待办的字段
// IsCompleted 使用指针以区分"未提交"与"显式置否"
type TodoInput struct {
	TaskName    string
	IsCompleted *bool
}

// NewTodoService 构造 TodoService
func NewTodoService(gdb *gorm.DB) *TodoService {
	return &TodoService{db: gdb}
}

// List 返回用户的全部待办，按创建时间倒序
func (s *TodoService) List(userID uint) ([]db.Todo, error) {
	var todos []db.Todo
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Create 新建待办
func (s *TodoService) Create(userID uint, input TodoInput) (*db.Todo, error) {
	name := strings.TrimSpace(input.TaskName)
	if name == "" {
		return nil, fmt.Errorf("%w: task name is required", ErrTodoInvalidInput)
	}

	todo := db.Todo{UserID: userID, TaskName: name}
	if err := s.db.Create(&todo).Error; err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return &todo, nil
}

// Update 更新待办：空名称保留原值，完成状态翻转时同步维护 CompletedAt
func (s *TodoService) Update(id, userID uint, input TodoInput, now time.Time) (*db.Todo, error) {
	todo, err := s.get(id, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.TaskName); name != "" {
		todo.TaskName = name
	}

	if input.IsCompleted != nil {
		todo.IsCompleted = *input.IsCompleted
		if todo.IsCompleted {
			completedAt := now
			todo.CompletedAt = &completedAt
		} else {
			todo.CompletedAt = nil
		}
	}

	if err := s.db.Save(todo).Error; err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

// Delete 删除待办
func (s *TodoService) Delete(id, userID uint) error {
	todo, err := s.get(id, userID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&db.Todo{}, todo.ID).Error; err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

// CompletedCountSince 统计窗口起点之后完成的待办数量
func (s *TodoService) CompletedCountSince(userID uint, windowStart time.Time) (int, error) {
	var count int64
	if err := s.db.Model(&db.Todo{}).
		Where("user_id = ? AND is_completed = ? AND completed_at >= ?", userID, true, windowStart).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count completed todos: %w", err)
	}
	return int(count), nil
}

func (s *TodoService) get(id, userID uint) (*db.Todo, error) {
	var todo db.Todo
	if err := s.db.First(&todo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	if todo.UserID != userID {
		return nil, ErrTodoNotFound
	}
	return &todo, nil
}
