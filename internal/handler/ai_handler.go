package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/focusup/internal/service"
	"github.com/gin-gonic/gin"
)

// GetHabitSuggestions 基于过去 30 天数据生成 AI 洞察与习惯建议
// 模型调用失败返回统一的 500 文案，不重试、不降级
func (a *API) GetHabitSuggestions(c *gin.Context) {
	userID, _ := currentUserID(c)

	result, err := a.coach.GetSuggestions(c.Request.Context(), userID, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrAIAPIKeyMissing) {
			respondError(c, http.StatusServiceUnavailable, "AI provider is not configured")
			return
		}
		respondError(c, http.StatusInternalServerError,
			"Error generating AI suggestions. Please ensure you have sufficient productivity data logged.")
		return
	}

	c.JSON(http.StatusOK, result)
}
