package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/focusup/internal/db"
)

type fakeHTTPClient struct {
	handler func(*http.Request) (*http.Response, error)
}

func (f fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if f.handler == nil {
		return nil, errors.New("no handler configured")
	}
	return f.handler(req)
}

func chatResponseBody(t *testing.T, content string) io.ReadCloser {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
		"usage": map[string]int{"prompt_tokens": 120, "completion_tokens": 60},
	})
	if err != nil {
		t.Fatalf("failed to marshal fake response: %v", err)
	}
	return io.NopCloser(bytes.NewReader(body))
}

func TestParseResponse(t *testing.T) {
	insights, suggestions := ParseResponse("Insights:\n- A\n- B\nSuggestions:\n1. X\n2. Y")
	if !reflect.DeepEqual(insights, []string{"- A", "- B"}) {
		t.Fatalf("unexpected insights: %v", insights)
	}
	if !reflect.DeepEqual(suggestions, []string{"1. X", "2. Y"}) {
		t.Fatalf("unexpected suggestions: %v", suggestions)
	}
}

func TestParseResponseTolerance(t *testing.T) {
	// 没有任何标记：两个列表都为空，不报错
	insights, suggestions := ParseResponse("no markers here")
	if len(insights) != 0 || len(suggestions) != 0 {
		t.Fatalf("expected empty results, got %v / %v", insights, suggestions)
	}

	// 星号列表同样被识别，夹杂的散文被静默丢弃
	insights, suggestions = ParseResponse(
		"Some preamble.\nInsights:\nhere is prose\n* first\n- second\nmore prose\nSuggestions:\nintro line\n1. do this\nrandom\n2. do that\n")
	if !reflect.DeepEqual(insights, []string{"* first", "- second"}) {
		t.Fatalf("unexpected insights: %v", insights)
	}
	if !reflect.DeepEqual(suggestions, []string{"1. do this", "2. do that"}) {
		t.Fatalf("unexpected suggestions: %v", suggestions)
	}

	// 只有建议段
	insights, suggestions = ParseResponse("Suggestions:\n1. only this")
	if len(insights) != 0 {
		t.Fatalf("expected no insights, got %v", insights)
	}
	if !reflect.DeepEqual(suggestions, []string{"1. only this"}) {
		t.Fatalf("unexpected suggestions: %v", suggestions)
	}
}

func TestBuildPromptFallbacks(t *testing.T) {
	prompt := BuildPrompt(Aggregate(nil, time.Now()), nil, 0)

	if !strings.Contains(prompt, "No clear peak hours observed.") {
		t.Fatalf("missing peak hours fallback:\n%s", prompt)
	}
	if !strings.Contains(prompt, "No clear peak days observed.") {
		t.Fatalf("missing peak days fallback:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- No habits tracked or data insufficient.") {
		t.Fatalf("missing habit fallback:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Total To-Dos Completed: 0") {
		t.Fatalf("missing todo count:\n%s", prompt)
	}
}

func TestBuildPromptInterpolation(t *testing.T) {
	day := time.Date(2025, 7, 8, 0, 0, 0, 0, time.Local)
	agg := Aggregate([]db.PomodoroSession{
		workSession(day.Add(9*time.Hour), 25),
		workSession(day.Add(15*time.Hour), 25),
	}, day)

	summaries := []string{`- "晨跑" (Target: daily): Current Streak: 5, Longest Streak: 7. Completed 20 out of 30 days (daily target).`}
	prompt := BuildPrompt(agg, summaries, 4)

	if !strings.Contains(prompt, "Total Work Minutes Recorded: 50 minutes.") {
		t.Fatalf("missing total minutes:\n%s", prompt)
	}
	if !strings.Contains(prompt, "9:00 - 10:00, 15:00 - 16:00") {
		t.Fatalf("missing tied peak hours:\n%s", prompt)
	}
	if !strings.Contains(prompt, summaries[0]) {
		t.Fatalf("missing habit summary:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Total To-Dos Completed: 4") {
		t.Fatalf("missing todo count:\n%s", prompt)
	}
}

func TestCoachSuggestionsRoundTrip(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	system := NewSystemSettingService(db.DB)
	if _, err := system.UpdateSettings(SystemSettingsInput{
		AIProvider:   AIProviderOpenAI,
		OpenAIAPIKey: "sk-test",
	}); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}

	now := time.Date(2025, 7, 10, 18, 0, 0, 0, time.Local)

	habits := NewHabitService(db.DB)
	habit, err := habits.Create(1, HabitInput{Name: "晨跑", TargetFrequency: "daily"})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	if _, err := habits.MarkComplete(habit.ID, 1, now.AddDate(0, 0, -1)); err != nil {
		t.Fatalf("failed to mark habit: %v", err)
	}

	reply := "Insights:\n- A\n- B\nSuggestions:\n1. X\n2. Y"

	svc := NewAICoachService(db.DB, system)
	svc.SetOpenAIBaseURL("https://openai.test/v1")
	svc.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected authorization header %s", got)
		}

		var payload chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(payload.Messages) != 2 {
			t.Fatalf("expected system+user messages, got %d", len(payload.Messages))
		}
		userPrompt := payload.Messages[1].Content
		if !strings.Contains(userPrompt, `"晨跑" (Target: daily)`) {
			t.Fatalf("prompt missing habit summary:\n%s", userPrompt)
		}

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       chatResponseBody(t, reply),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
		}, nil
	}})

	result, err := svc.GetSuggestions(context.Background(), 1, now)
	if err != nil {
		t.Fatalf("GetSuggestions returned error: %v", err)
	}

	if !reflect.DeepEqual(result.Insights, []string{"- A", "- B"}) {
		t.Fatalf("unexpected insights: %v", result.Insights)
	}
	if !reflect.DeepEqual(result.Suggestions, []string{"1. X", "2. Y"}) {
		t.Fatalf("unexpected suggestions: %v", result.Suggestions)
	}
	if len(result.InsightsHTML) != 2 || !strings.Contains(result.InsightsHTML[0], "A") {
		t.Fatalf("unexpected insights html: %v", result.InsightsHTML)
	}
}

func TestCoachSuggestionsMissingAPIKey(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	system := NewSystemSettingService(db.DB)
	svc := NewAICoachService(db.DB, system)
	svc.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		t.Fatal("no request expected without api key")
		return nil, nil
	}})

	if _, err := svc.GetSuggestions(context.Background(), 1, time.Now()); !errors.Is(err, ErrAIAPIKeyMissing) {
		t.Fatalf("expected ErrAIAPIKeyMissing, got %v", err)
	}
}

func TestCoachSuggestionsProviderError(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	system := NewSystemSettingService(db.DB)
	if _, err := system.UpdateSettings(SystemSettingsInput{
		AIProvider:     AIProviderDeepSeek,
		DeepSeekAPIKey: "ds-test",
	}); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}

	svc := NewAICoachService(db.DB, system)
	svc.SetDeepSeekBaseURL("https://deepseek.test/v1")
	svc.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Status:     "429 Too Many Requests",
			Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"rate limited"}}`)),
		}, nil
	}})

	_, err := svc.GetSuggestions(context.Background(), 1, time.Now())
	if err == nil {
		t.Fatal("expected provider error")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected provider message surfaced, got %v", err)
	}
}
