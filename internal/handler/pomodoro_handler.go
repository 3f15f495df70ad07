package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/focusup/internal/db"
	"github.com/focusup/internal/service"
	"github.com/gin-gonic/gin"
)

type sessionPayload struct {
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	SessionType     string    `json:"sessionType"`
	TaskAssociated  string    `json:"taskAssociated"`
}

// LogSession 记录一次完成的计时间隔
func (a *API) LogSession(c *gin.Context) {
	userID, _ := currentUserID(c)

	var payload sessionPayload
	if !bindJSON(c, &payload, "Missing required fields for Pomodoro session") {
		return
	}

	session, err := a.pomodoros.Log(userID, service.SessionInput{
		StartTime:       payload.StartTime,
		EndTime:         payload.EndTime,
		DurationMinutes: payload.DurationMinutes,
		SessionType:     payload.SessionType,
		TaskAssociated:  payload.TaskAssociated,
	})
	if err != nil {
		if errors.Is(err, service.ErrSessionInvalid) {
			respondError(c, http.StatusBadRequest, "Missing required fields for Pomodoro session")
			return
		}
		respondError(c, http.StatusInternalServerError, "Server error logging session")
		return
	}

	c.JSON(http.StatusCreated, sessionToJSON(*session))
}

// ListSessions 返回当前用户的会话历史，按开始时间倒序
func (a *API) ListSessions(c *gin.Context) {
	userID, _ := currentUserID(c)

	sessions, err := a.pomodoros.List(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error fetching sessions")
		return
	}

	items := make([]gin.H, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, sessionToJSON(session))
	}
	c.JSON(http.StatusOK, items)
}

func sessionToJSON(session db.PomodoroSession) gin.H {
	return gin.H{
		"id":              session.ID,
		"startTime":       session.StartTime,
		"endTime":         session.EndTime,
		"durationMinutes": session.DurationMinutes,
		"sessionType":     session.SessionType,
		"taskAssociated":  session.TaskAssociated,
		"createdAt":       session.CreatedAt,
	}
}
