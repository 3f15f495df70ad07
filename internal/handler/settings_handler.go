package handler

import (
	"net/http"
	"strings"

	"github.com/focusup/internal/service"
	"github.com/gin-gonic/gin"
)

type aiSettingsPayload struct {
	AIProvider     string `json:"aiProvider"`
	OpenAIAPIKey   string `json:"openaiApiKey"`
	DeepSeekAPIKey string `json:"deepseekApiKey"`
	AIModel        string `json:"aiModel"`
	AICoachPrompt  string `json:"aiCoachPrompt"`
}

// GetAISettings 返回 AI 配置，密钥只回显掩码
func (a *API) GetAISettings(c *gin.Context) {
	settings, err := a.system.GetSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error fetching settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"aiProvider":     settings.AIProvider,
		"openaiApiKey":   maskSecret(settings.OpenAIAPIKey),
		"deepseekApiKey": maskSecret(settings.DeepSeekAPIKey),
		"aiModel":        settings.AIModel,
		"aiCoachPrompt":  settings.AICoachPrompt,
	})
}

// UpdateAISettings 保存 AI 配置
func (a *API) UpdateAISettings(c *gin.Context) {
	var payload aiSettingsPayload
	if !bindJSON(c, &payload, "Invalid settings payload") {
		return
	}

	updated, err := a.system.UpdateSettings(service.SystemSettingsInput{
		AIProvider:     payload.AIProvider,
		OpenAIAPIKey:   payload.OpenAIAPIKey,
		DeepSeekAPIKey: payload.DeepSeekAPIKey,
		AIModel:        payload.AIModel,
		AICoachPrompt:  payload.AICoachPrompt,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error updating settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"aiProvider":     updated.AIProvider,
		"openaiApiKey":   maskSecret(updated.OpenAIAPIKey),
		"deepseekApiKey": maskSecret(updated.DeepSeekAPIKey),
		"aiModel":        updated.AIModel,
		"aiCoachPrompt":  updated.AICoachPrompt,
	})
}

func maskSecret(secret string) string {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) <= 8 {
		return "********"
	}
	return trimmed[:4] + "****" + trimmed[len(trimmed)-4:]
}
