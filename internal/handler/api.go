package handler

import (
	"github.com/focusup/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	habits    *service.HabitService
	pomodoros *service.PomodoroService
	todos     *service.TodoService
	reports   *service.ReportService
	coach     *service.AICoachService
	system    *service.SystemSettingService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB) *API {
	systemService := service.NewSystemSettingService(db)

	return &API{
		db:        db,
		habits:    service.NewHabitService(db),
		pomodoros: service.NewPomodoroService(db),
		todos:     service.NewTodoService(db),
		reports:   service.NewReportService(db),
		coach:     service.NewAICoachService(db, systemService),
		system:    systemService,
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Coach 暴露教练服务，便于测试注入假的 HTTP 客户端。
func (a *API) Coach() *service.AICoachService {
	return a.coach
}
