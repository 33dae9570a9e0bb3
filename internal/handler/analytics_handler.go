package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"todotracker/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Dashboard returns task counts, period points, and upcoming/overdue tasks
// for today.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.analytics.Dashboard(c.Request.Context(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}

	upcoming := make([]TaskResponse, 0, len(dashboard.UpcomingTasks))
	for i := range dashboard.UpcomingTasks {
		upcoming = append(upcoming, taskResponse(&dashboard.UpcomingTasks[i]))
	}
	overdue := make([]TaskResponse, 0, len(dashboard.OverdueTasks))
	for i := range dashboard.OverdueTasks {
		overdue = append(overdue, taskResponse(&dashboard.OverdueTasks[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"effort_points":  dashboard.EffortPoints,
		"task_counts":    dashboard.TaskCounts,
		"upcoming_tasks": upcoming,
		"overdue_tasks":  overdue,
	})
}

// EffortPoints returns point totals for period=today|week|month|year|all.
func (h *AnalyticsHandler) EffortPoints(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.analytics.PeriodSummary(c.Request.Context(), userID, c.Query("period"), time.Now())
	if err != nil {
		if errors.Is(err, service.ErrUnknownPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Period must be one of today, week, month, year, all"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build analytics"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CategoryBreakdown returns all-time points grouped by category name.
func (h *AnalyticsHandler) CategoryBreakdown(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	breakdown, err := h.analytics.CategoryBreakdown(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build category breakdown"})
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// CompletionHistory returns the user's recent completions, newest first.
func (h *AnalyticsHandler) CompletionHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := 10
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	history, err := h.analytics.CompletionHistory(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve completion history"})
		return
	}
	c.JSON(http.StatusOK, history)
}
