package router

import (
	"github.com/focusup/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("focusup_session", store))
	r.Use(requestID())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	{
		users := apiGroup.Group("/users")
		{
			users.POST("/register", api.Register)
			users.POST("/login", api.Login)
			users.POST("/logout", api.Logout)
			users.GET("/me", handler.AuthRequired(), api.Me)
		}

		// 需要认证的业务路由
		auth := apiGroup.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/todos", api.ListTodos)
			auth.POST("/todos", api.CreateTodo)
			auth.PUT("/todos/:id", api.UpdateTodo)
			auth.DELETE("/todos/:id", api.DeleteTodo)

			auth.GET("/habits", api.ListHabits)
			auth.POST("/habits", api.CreateHabit)
			auth.PUT("/habits/:id", api.UpdateHabit)
			auth.DELETE("/habits/:id", api.DeleteHabit)
			auth.POST("/habits/:id/complete", api.CompleteHabit)

			auth.POST("/pomodoro-sessions", api.LogSession)
			auth.GET("/pomodoro-sessions", api.ListSessions)

			auth.GET("/reports/weekly", api.GetWeeklyReport)
			auth.GET("/ai/habit-suggestions", api.GetHabitSuggestions)

			auth.GET("/settings/ai", api.GetAISettings)
			auth.PUT("/settings/ai", api.UpdateAISettings)
		}
	}

	return r
}

// requestID 为每个请求附加可追踪的 ID，便于串联日志
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set("request_id", id)
		c.Next()
	}
}
