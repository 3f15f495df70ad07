package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/focusup/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// AIProviderOpenAI 表示使用 OpenAI 能力。
	AIProviderOpenAI = "openai"
	// AIProviderDeepSeek 表示使用 DeepSeek 能力。
	AIProviderDeepSeek = "deepseek"
)

// ErrAIAPIKeyMissing 表示未提供必需的 AI 平台 API Key。
var ErrAIAPIKeyMissing = errors.New("api key is required")

// SystemSettings 描述运行期可配置的 AI 相关信息。
type SystemSettings struct {
	AIProvider     string
	OpenAIAPIKey   string
	DeepSeekAPIKey string
	AIModel        string
	AICoachPrompt  string
}

// SystemSettingsInput 用于更新系统设置。
type SystemSettingsInput struct {
	AIProvider     string
	OpenAIAPIKey   string
	DeepSeekAPIKey string
	AIModel        string
	AICoachPrompt  string
}

// SystemSettingService 提供系统设置的读取与更新能力。
type SystemSettingService struct {
	db *gorm.DB
}

// NewSystemSettingService 构造 SystemSettingService。
func NewSystemSettingService(gdb *gorm.DB) *SystemSettingService {
	return &SystemSettingService{db: gdb}
}

var settingKeys = []string{
	db.SettingKeyAIProvider,
	db.SettingKeyOpenAIAPIKey,
	db.SettingKeyDeepSeekAPIKey,
	db.SettingKeyAIModel,
	db.SettingKeyAICoachPrompt,
}

// GetSettings 读取系统设置，如未设置将返回默认值。
func (s *SystemSettingService) GetSettings() (SystemSettings, error) {
	result := SystemSettings{AIProvider: AIProviderOpenAI}

	var records []db.SystemSetting
	if err := s.db.Where("key IN ?", settingKeys).Find(&records).Error; err != nil {
		return result, fmt.Errorf("load system settings: %w", err)
	}

	for _, record := range records {
		switch record.Key {
		case db.SettingKeyAIProvider:
			if provider := normalizeAIProvider(record.Value); provider != "" {
				result.AIProvider = provider
			}
		case db.SettingKeyOpenAIAPIKey:
			result.OpenAIAPIKey = record.Value
		case db.SettingKeyDeepSeekAPIKey:
			result.DeepSeekAPIKey = record.Value
		case db.SettingKeyAIModel:
			result.AIModel = record.Value
		case db.SettingKeyAICoachPrompt:
			result.AICoachPrompt = record.Value
		}
	}

	return result, nil
}

// UpdateSettings 保存系统设置，未识别的平台取值回退到 OpenAI。
func (s *SystemSettingService) UpdateSettings(input SystemSettingsInput) (SystemSettings, error) {
	provider := normalizeAIProvider(input.AIProvider)
	if provider == "" {
		provider = AIProviderOpenAI
	}

	sanitized := SystemSettings{
		AIProvider:     provider,
		OpenAIAPIKey:   strings.TrimSpace(input.OpenAIAPIKey),
		DeepSeekAPIKey: strings.TrimSpace(input.DeepSeekAPIKey),
		AIModel:        strings.TrimSpace(input.AIModel),
		AICoachPrompt:  strings.TrimSpace(input.AICoachPrompt),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		pairs := map[string]string{
			db.SettingKeyAIProvider:     sanitized.AIProvider,
			db.SettingKeyOpenAIAPIKey:   sanitized.OpenAIAPIKey,
			db.SettingKeyDeepSeekAPIKey: sanitized.DeepSeekAPIKey,
			db.SettingKeyAIModel:        sanitized.AIModel,
			db.SettingKeyAICoachPrompt:  sanitized.AICoachPrompt,
		}
		for _, key := range settingKeys {
			if err := upsertSetting(tx, key, pairs[key]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return SystemSettings{}, fmt.Errorf("update system settings: %w", err)
	}

	return sanitized, nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SystemSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

func normalizeAIProvider(raw string) string {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case AIProviderOpenAI:
		return AIProviderOpenAI
	case AIProviderDeepSeek:
		return AIProviderDeepSeek
	default:
		return ""
	}
}
