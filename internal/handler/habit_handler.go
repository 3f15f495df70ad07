package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/focusup/internal/db"
	"github.com/focusup/internal/service"
	"github.com/gin-gonic/gin"
)

const dateFormat = "2006-01-02"

type habitPayload struct {
	HabitName       string `json:"habitName"`
	TargetFrequency string `json:"targetFrequency"`
	SpecificDays    []int  `json:"specificDays"`
}

// ListHabits 返回当前用户的习惯列表 JSON
func (a *API) ListHabits(c *gin.Context) {
	userID, _ := currentUserID(c)

	habits, err := a.habits.List(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error fetching habits")
		return
	}

	items := make([]gin.H, 0, len(habits))
	for _, habit := range habits {
		items = append(items, habitToJSON(habit))
	}
	c.JSON(http.StatusOK, items)
}

// CreateHabit 新建习惯
func (a *API) CreateHabit(c *gin.Context) {
	userID, _ := currentUserID(c)

	var payload habitPayload
	if !bindJSON(c, &payload, "Please add habit name and target frequency") {
		return
	}

	habit, err := a.habits.Create(userID, service.HabitInput{
		Name:            payload.HabitName,
		TargetFrequency: payload.TargetFrequency,
		SpecificDays:    payload.SpecificDays,
	})
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habitToJSON(*habit))
}

// UpdateHabit 更新名称/频率/指定日，不会触碰连胜字段
func (a *API) UpdateHabit(c *gin.Context) {
	userID, _ := currentUserID(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid habit id")
		return
	}

	var payload habitPayload
	if !bindJSON(c, &payload, "Invalid habit payload") {
		return
	}

	habit, err := a.habits.Update(id, userID, service.HabitInput{
		Name:            payload.HabitName,
		TargetFrequency: payload.TargetFrequency,
		SpecificDays:    payload.SpecificDays,
	})
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, habitToJSON(*habit))
}

// CompleteHabit 处理当日打卡
func (a *API) CompleteHabit(c *gin.Context) {
	userID, _ := currentUserID(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid habit id")
		return
	}

	habit, err := a.habits.MarkComplete(id, userID, time.Now())
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, habitToJSON(*habit))
}

// DeleteHabit 删除习惯
func (a *API) DeleteHabit(c *gin.Context) {
	userID, _ := currentUserID(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid habit id")
		return
	}

	if err := a.habits.Delete(id, userID); err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Habit removed"})
}

func habitToJSON(habit db.Habit) gin.H {
	completions := make([]time.Time, 0, len(habit.Completions))
	for _, completion := range habit.Completions {
		completions = append(completions, completion.CompletedAt)
	}

	var lastCompleted interface{}
	if habit.LastCompletedDate != nil {
		lastCompleted = habit.LastCompletedDate.Format(dateFormat)
	}

	days := habit.SpecificDays
	if days == nil {
		days = []int{}
	}

	return gin.H{
		"id":                habit.ID,
		"habitName":         habit.Name,
		"targetFrequency":   habit.TargetFrequency,
		"specificDays":      days,
		"currentStreak":     habit.CurrentStreak,
		"longestStreak":     habit.LongestStreak,
		"lastCompletedDate": lastCompleted,
		"completionDates":   completions,
		"createdAt":         habit.CreatedAt,
	}
}

func handleHabitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHabitNotFound):
		respondError(c, http.StatusNotFound, "Habit not found or not authorized")
	case errors.Is(err, service.ErrHabitAlreadyCompleted):
		respondError(c, http.StatusBadRequest, "Habit already marked complete for today")
	case errors.Is(err, service.ErrHabitInvalidInput):
		respondError(c, http.StatusBadRequest, "Please add habit name and target frequency")
	default:
		respondError(c, http.StatusInternalServerError, "Server error")
	}
}
