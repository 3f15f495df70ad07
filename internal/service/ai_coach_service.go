package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/focusup/internal/db"
	"gorm.io/gorm"
)

const (
	defaultOpenAICoachModel   = "gpt-4o-mini"
	defaultDeepSeekCoachModel = "deepseek-chat"
	defaultCoachMaxTokens     = 900
	defaultCoachTemperature   = 0.6

	// 教练建议的固定回溯窗口：过去 30 天
	coachLookbackDays = 30

	// 模型回复的两个分节标记，解析端按字面匹配
	insightsMarker    = "Insights:"
	suggestionsMarker = "Suggestions:"

	defaultCoachSystemPrompt = "You are an expert productivity and habit formation coach. Ground every observation in the data you are given."
)

// numberedLinePattern 匹配 "1." 开头的建议行
var numberedLinePattern = regexp.MustCompile(`^\d+\.`)

// CoachSuggestions 是 AI 建议接口的结构化结果
// Raw 字段保持模型原文行，HTML 字段为消毒后的渲染结果
type CoachSuggestions struct {
	Insights        []string `json:"insights"`
	Suggestions     []string `json:"suggestions"`
	InsightsHTML    []string `json:"insightsHtml"`
	SuggestionsHTML []string `json:"suggestionsHtml"`
}

// AICoachService 汇总 30 天活动数据，交给大模型生成洞察与习惯建议
type AICoachService struct {
	settings *SystemSettingService
	activity *ActivityService
	habits   *HabitService
	todos    *TodoService
	client   *aiChatClient
}

// NewAICoachService 构造默认的 AICoachService
func NewAICoachService(gdb *gorm.DB, settings *SystemSettingService) *AICoachService {
	return &AICoachService{
		settings: settings,
		activity: NewActivityService(gdb),
		habits:   NewHabitService(gdb),
		todos:    NewTodoService(gdb),
		client:   newAIChatClient(defaultOpenAICoachModel, defaultDeepSeekCoachModel),
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AICoachService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetOpenAIBaseURL 覆盖默认的 OpenAI API 地址。
func (s *AICoachService) SetOpenAIBaseURL(base string) {
	s.client.SetOpenAIBaseURL(base)
}

// SetDeepSeekBaseURL 覆盖默认的 DeepSeek API 地址。
func (s *AICoachService) SetDeepSeekBaseURL(base string) {
	s.client.SetDeepSeekBaseURL(base)
}

// GetSuggestions 生成个性化习惯建议：聚合数据、组装提示词、调用模型并解析回复
// 模型调用失败原样上抛（包括 ErrAIAPIKeyMissing），不重试、不返回半截结果
func (s *AICoachService) GetSuggestions(ctx context.Context, userID uint, now time.Time) (*CoachSuggestions, error) {
	windowStart := lookbackStart(now, coachLookbackDays)

	sessions, err := s.activity.WorkSessionsSince(userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("coach sessions: %w", err)
	}
	agg := Aggregate(sessions, windowStart)

	habits, err := s.habits.List(userID)
	if err != nil {
		return nil, fmt.Errorf("coach habits: %w", err)
	}

	summaries := make([]string, 0, len(habits))
	for _, habit := range habits {
		summaries = append(summaries, s.habitSummaryLine(habit, windowStart, now))
	}

	todosCompleted, err := s.todos.CompletedCountSince(userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("coach todos: %w", err)
	}

	prompt := BuildPrompt(agg, summaries, todosCompleted)
	logAIExchange("COACH", "prompt", prompt)

	settings, err := s.settings.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("读取系统设置失败: %w", err)
	}

	systemPrompt := strings.TrimSpace(settings.AICoachPrompt)
	if systemPrompt == "" {
		systemPrompt = defaultCoachSystemPrompt
	}

	result, err := s.client.callWithSettings(ctx, settings, aiChatRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   prompt,
		MaxTokens:    defaultCoachMaxTokens,
		Temperature:  defaultCoachTemperature,
	})
	if err != nil {
		return nil, err
	}

	logAIExchange("COACH", "response", result.Content)

	insights, suggestions := ParseResponse(result.Content)
	return &CoachSuggestions{
		Insights:        insights,
		Suggestions:     suggestions,
		InsightsHTML:    renderCoachHTML(insights),
		SuggestionsHTML: renderCoachHTML(suggestions),
	}, nil
}

func (s *AICoachService) habitSummaryLine(habit db.Habit, windowStart, now time.Time) string {
	consistency := s.habits.ComputeConsistency(habit, windowStart, now)
	target := strings.ReplaceAll(habit.TargetFrequency, "_", " ")
	line := fmt.Sprintf("- %q (Target: %s): Current Streak: %d, Longest Streak: %d.",
		habit.Name, target, habit.CurrentStreak, habit.LongestStreak)
	if consistency != "" {
		line += " " + consistency
	}
	return line
}

// BuildPrompt 将聚合结果渲染为固定模板的提示词，本函数只做插值，不做任何数值计算
func BuildPrompt(agg Aggregation, habitSummaries []string, todosCompleted int) string {
	peakHours := "No clear peak hours observed."
	if len(agg.PeakHours) > 0 {
		peakHours = strings.Join(agg.PeakHours, ", ")
	}

	peakDays := "No clear peak days observed."
	if len(agg.PeakDaysOfWeek) > 0 {
		peakDays = strings.Join(agg.PeakDaysOfWeek, ", ")
	}

	habitSection := "- No habits tracked or data insufficient."
	if len(habitSummaries) > 0 {
		habitSection = strings.Join(habitSummaries, "\n")
	}

	var builder strings.Builder
	builder.WriteString("As an expert productivity and habit formation coach, analyze the following summarized user data from the last 30 days. ")
	builder.WriteString("First, provide 2-3 concise, actionable insights about their current productivity patterns. ")
	builder.WriteString("Then, based on these insights, provide 3-5 highly personalized and actionable habit suggestions.\n\n")
	builder.WriteString("---\n")
	builder.WriteString("User Productivity Summary (Last 30 Days):\n\n")
	builder.WriteString("Pomodoro Work Sessions:\n")
	fmt.Fprintf(&builder, "- Total Work Minutes Recorded: %d minutes.\n", agg.TotalWorkMinutes)
	fmt.Fprintf(&builder, "- Peak Productivity Hours (based on work sessions): %s\n", peakHours)
	fmt.Fprintf(&builder, "- Peak Productivity Days (based on work sessions): %s\n\n", peakDays)
	builder.WriteString("Habit Tracking Consistency:\n")
	builder.WriteString(habitSection)
	builder.WriteString("\n\n")
	builder.WriteString("To-Do Completion:\n")
	fmt.Fprintf(&builder, "- Total To-Dos Completed: %d\n\n", todosCompleted)
	builder.WriteString("---\n")
	builder.WriteString("Instructions for your response:\n\n")
	fmt.Fprintf(&builder, "1. Insights (2-3 concise bullet points): Identify specific patterns, strengths, or areas for improvement based on the summary. Start this section with %q.\n", insightsMarker)
	fmt.Fprintf(&builder, "2. Habit Suggestions (3-5 numbered list): Each suggestion must be directly linked to an insight, specific, actionable and personalized, and include a practical tip on how to implement it. Focus on improving focus, consistency, energy management, or work-life balance. Start this section with %q.\n\n", suggestionsMarker)
	builder.WriteString("Do not give your output with some text in bold.\n")
	return builder.String()
}

// ParseResponse 把模型的自由文本拆成洞察与建议两个列表
// 对格式问题保持最大容忍：缺标记、缺条目、夹杂散文都只会得到更短的结果，绝不报错
func ParseResponse(text string) (insights, suggestions []string) {
	insights = []string{}
	suggestions = []string{}

	sections := strings.SplitN(text, suggestionsMarker, 2)

	head := strings.Replace(sections[0], insightsMarker, "", 1)
	for _, line := range strings.Split(head, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
			insights = append(insights, trimmed)
		}
	}

	if len(sections) > 1 {
		for _, line := range strings.Split(sections[1], "\n") {
			if numberedLinePattern.MatchString(line) {
				suggestions = append(suggestions, strings.TrimSpace(line))
			}
		}
	}

	return insights, suggestions
}
