package db

import "gorm.io/gorm"

// SystemSetting 存储可在运行期配置的系统级键值对。
type SystemSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (SystemSetting) TableName() string {
	return "system_settings"
}

const (
	// SettingKeyAIProvider 表示当前启用的 AI 平台。
	SettingKeyAIProvider = "ai_provider"
	// SettingKeyOpenAIAPIKey 表示 OpenAI API Key。
	SettingKeyOpenAIAPIKey = "openai_api_key"
	// SettingKeyDeepSeekAPIKey 表示 DeepSeek API Key。
	SettingKeyDeepSeekAPIKey = "deepseek_api_key"
	// SettingKeyAIModel 表示覆盖默认模型的名称。
	SettingKeyAIModel = "ai_model"
	// SettingKeyAICoachPrompt 表示教练建议的系统提示词。
	SettingKeyAICoachPrompt = "ai_coach_prompt"
)
