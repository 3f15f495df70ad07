package service

import (
	"reflect"
	"testing"
	"time"

	"github.com/focusup/internal/db"
)

func workSession(start time.Time, minutes int) db.PomodoroSession {
	return db.PomodoroSession{
		StartTime:       start,
		EndTime:         start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		SessionType:     db.SessionTypeWork,
	}
}

func TestAggregateEmpty(t *testing.T) {
	agg := Aggregate(nil, time.Now())

	if agg.TotalWorkMinutes != 0 {
		t.Fatalf("expected 0 total minutes, got %d", agg.TotalWorkMinutes)
	}
	if len(agg.PeakHours) != 0 {
		t.Fatalf("expected no peak hours, got %v", agg.PeakHours)
	}
	if len(agg.PeakDaysOfWeek) != 0 {
		t.Fatalf("expected no peak days, got %v", agg.PeakDaysOfWeek)
	}
	if len(agg.MinutesByDate) != 0 {
		t.Fatalf("expected empty date map, got %v", agg.MinutesByDate)
	}
}

func TestAggregateBucketsAndTotal(t *testing.T) {
	// 2025-07-06 是周日
	sunday := time.Date(2025, 7, 6, 9, 0, 0, 0, time.Local)
	monday := sunday.AddDate(0, 0, 1)
	windowStart := sunday.AddDate(0, 0, -1)

	sessions := []db.PomodoroSession{
		workSession(sunday, 25),
		workSession(sunday.Add(30*time.Minute), 25),
		workSession(monday.Add(5*time.Hour), 10),
	}

	agg := Aggregate(sessions, windowStart)

	if agg.TotalWorkMinutes != 60 {
		t.Fatalf("expected 60 total minutes, got %d", agg.TotalWorkMinutes)
	}
	if agg.MinutesByHour[9] != 50 || agg.MinutesByHour[14] != 10 {
		t.Fatalf("unexpected hour buckets: %v", agg.MinutesByHour)
	}
	if agg.MinutesByDayOfWeek[0] != 50 || agg.MinutesByDayOfWeek[1] != 10 {
		t.Fatalf("unexpected weekday buckets: %v", agg.MinutesByDayOfWeek)
	}

	wantDates := map[string]int{"2025-07-06": 50, "2025-07-07": 10}
	if !reflect.DeepEqual(agg.MinutesByDate, wantDates) {
		t.Fatalf("unexpected date map: %v", agg.MinutesByDate)
	}

	if !reflect.DeepEqual(agg.PeakHours, []string{"9:00 - 10:00"}) {
		t.Fatalf("unexpected peak hours: %v", agg.PeakHours)
	}
	if !reflect.DeepEqual(agg.PeakDaysOfWeek, []string{"Sunday"}) {
		t.Fatalf("unexpected peak days: %v", agg.PeakDaysOfWeek)
	}
}

func TestAggregateKeepsPeakTies(t *testing.T) {
	day := time.Date(2025, 7, 8, 0, 0, 0, 0, time.Local)
	sessions := []db.PomodoroSession{
		workSession(day.Add(9*time.Hour), 25),
		workSession(day.Add(15*time.Hour), 25),
	}

	agg := Aggregate(sessions, day)

	// 并列峰值全部保留，不做裁剪
	if !reflect.DeepEqual(agg.PeakHours, []string{"9:00 - 10:00", "15:00 - 16:00"}) {
		t.Fatalf("expected both tied hours, got %v", agg.PeakHours)
	}
}

func TestAggregateFiltersInput(t *testing.T) {
	day := time.Date(2025, 7, 8, 10, 0, 0, 0, time.Local)
	windowStart := day.AddDate(0, 0, -7)

	breakSession := workSession(day, 5)
	breakSession.SessionType = db.SessionTypeShortBreak

	sessions := []db.PomodoroSession{
		workSession(day, 25),
		breakSession,
		workSession(windowStart.AddDate(0, 0, -1), 50), // 窗口之前
	}

	agg := Aggregate(sessions, windowStart)

	if agg.TotalWorkMinutes != 25 {
		t.Fatalf("expected only in-window work minutes, got %d", agg.TotalWorkMinutes)
	}
}

func TestWorkSessionsSince(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewActivityService(db.DB)
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.Local)
	windowStart := lookbackStart(now, 7)

	inWindow := workSession(now.AddDate(0, 0, -2), 25)
	inWindow.UserID = 1
	outOfWindow := workSession(now.AddDate(0, 0, -10), 25)
	outOfWindow.UserID = 1
	otherUser := workSession(now.AddDate(0, 0, -1), 25)
	otherUser.UserID = 2
	pause := workSession(now.AddDate(0, 0, -1), 5)
	pause.UserID = 1
	pause.SessionType = db.SessionTypeLongBreak

	for _, s := range []db.PomodoroSession{inWindow, outOfWindow, otherUser, pause} {
		record := s
		if err := db.DB.Create(&record).Error; err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}
	}

	sessions, err := svc.WorkSessionsSince(1, windowStart)
	if err != nil {
		t.Fatalf("WorkSessionsSince returned error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if !sessions[0].StartTime.Equal(inWindow.StartTime) {
		t.Fatalf("unexpected session returned: %v", sessions[0].StartTime)
	}
}
