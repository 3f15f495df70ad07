package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetWeeklyReport 返回过去 7 天的产出周报
func (a *API) GetWeeklyReport(c *gin.Context) {
	userID, _ := currentUserID(c)

	report, err := a.reports.Weekly(userID, time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error fetching report")
		return
	}

	c.JSON(http.StatusOK, report)
}
