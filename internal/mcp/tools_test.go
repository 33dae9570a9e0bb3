package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"todotracker/internal/mcp"
	"todotracker/internal/model"
	"todotracker/internal/repository"
	"todotracker/internal/service"
)

func setupTools(t *testing.T) (*mcp.Tools, *gorm.DB, *model.User) {
	t.Helper()

	// Uniquely named shared-cache database so every pooled connection sees
	// the same data.
	db, err := repository.NewDB("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)

	user := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: "hashed_password",
		Name:           "Test User",
	}
	require.NoError(t, db.Create(user).Error)

	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	analytics := service.NewAnalyticsService(taskRepo, completionRepo)

	return mcp.NewTools(user.ID, taskRepo, categoryRepo, analytics), db, user
}

func callRequest(name string, args map[string]interface{}) mcpproto.CallToolRequest {
	req := mcpproto.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcpproto.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcpproto.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestTools_CreateAndListTasks(t *testing.T) {
	// Arrange
	tools, _, _ := setupTools(t)
	ctx := context.Background()

	// Act
	created, err := tools.HandleCreateTask(ctx, callRequest("create_task", map[string]interface{}{
		"title":         "Write report",
		"category":      "Work",
		"effort_points": float64(5),
		"priority":      float64(3),
	}))
	require.NoError(t, err)
	require.False(t, created.IsError, resultText(t, created))

	// Assert
	var task struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		Status       string `json:"status"`
		Priority     string `json:"priority"`
		EffortPoints int    `json:"effort_points"`
		Category     string `json:"category"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, created)), &task))
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, "todo", task.Status)
	assert.Equal(t, "High", task.Priority)
	assert.Equal(t, 5, task.EffortPoints)
	assert.Equal(t, "Work", task.Category)

	listed, err := tools.HandleListTasks(ctx, callRequest("list_tasks", map[string]interface{}{
		"status": "todo",
	}))
	require.NoError(t, err)
	require.False(t, listed.IsError)

	var tasks []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, listed)), &tasks))
	require.Len(t, tasks, 1)
}

func TestTools_ListTasks_InvalidStatus(t *testing.T) {
	tools, _, _ := setupTools(t)

	result, err := tools.HandleListTasks(context.Background(), callRequest("list_tasks", map[string]interface{}{
		"status": "done",
	}))

	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestTools_CompleteTask(t *testing.T) {
	// Arrange
	tools, db, user := setupTools(t)
	ctx := context.Background()
	task := &model.Task{
		ID: uuid.New(), Title: "Write report", Status: model.StatusTodo,
		Priority: model.PriorityMedium, EffortPoints: 5, UserID: user.ID,
	}
	require.NoError(t, db.Create(task).Error)

	// Act
	result, err := tools.HandleCompleteTask(ctx, callRequest("complete_task", map[string]interface{}{
		"task_id": task.ID.String(),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	// Assert
	var response struct {
		Message      string `json:"message"`
		EffortPoints int    `json:"effort_points"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, `Task "Write report" completed! Earned 5 effort points.`, response.Message)
	assert.Equal(t, 5, response.EffortPoints)

	// Completing twice is rejected and leaves a single completion row.
	again, err := tools.HandleCompleteTask(ctx, callRequest("complete_task", map[string]interface{}{
		"task_id": task.ID.String(),
	}))
	require.NoError(t, err)
	assert.True(t, again.IsError)

	var count int64
	require.NoError(t, db.Model(&model.TaskCompletion{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTools_GetDashboardAndAnalytics(t *testing.T) {
	// Arrange
	tools, db, user := setupTools(t)
	ctx := context.Background()
	task := &model.Task{
		ID: uuid.New(), Title: "Write report", Status: model.StatusTodo,
		Priority: model.PriorityMedium, EffortPoints: 5, UserID: user.ID,
	}
	require.NoError(t, db.Create(task).Error)
	_, err := repository.NewTaskRepository(db).Complete(ctx, user.ID, task.ID, time.Now())
	require.NoError(t, err)

	// Act & Assert: dashboard reflects today's completion.
	dashboard, err := tools.HandleGetDashboard(ctx, callRequest("get_dashboard", nil))
	require.NoError(t, err)
	require.False(t, dashboard.IsError)

	var overview struct {
		EffortPoints struct {
			Today int `json:"today"`
		} `json:"effort_points"`
		TaskCounts struct {
			CompletedToday int64 `json:"completed_today"`
		} `json:"task_counts"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, dashboard)), &overview))
	assert.Equal(t, 5, overview.EffortPoints.Today)
	assert.Equal(t, int64(1), overview.TaskCounts.CompletedToday)

	// Period analytics agree with the dashboard.
	analytics, err := tools.HandleGetAnalytics(ctx, callRequest("get_analytics", map[string]interface{}{
		"period": "today",
	}))
	require.NoError(t, err)
	require.False(t, analytics.IsError)

	var summary struct {
		Period      string `json:"period"`
		PointsToday *int   `json:"points_today"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, analytics)), &summary))
	assert.Equal(t, "today", summary.Period)
	require.NotNil(t, summary.PointsToday)
	assert.Equal(t, 5, *summary.PointsToday)

	// Unknown periods are rejected.
	bad, err := tools.HandleGetAnalytics(ctx, callRequest("get_analytics", map[string]interface{}{
		"period": "fortnight",
	}))
	require.NoError(t, err)
	assert.True(t, bad.IsError)
}

func TestTools_ListCategories(t *testing.T) {
	// Arrange
	tools, _, _ := setupTools(t)
	ctx := context.Background()

	for _, args := range []map[string]interface{}{
		{"title": "Report", "category": "Work"},
		{"title": "Groceries", "category": "Home"},
	} {
		result, err := tools.HandleCreateTask(ctx, callRequest("create_task", args))
		require.NoError(t, err)
		require.False(t, result.IsError, resultText(t, result))
	}

	// Act
	result, err := tools.HandleListCategories(ctx, callRequest("list_categories", nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	// Assert: alphabetical, with per-user task counts.
	var categories []struct {
		Name      string `json:"name"`
		TaskCount int64  `json:"task_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &categories))
	require.Len(t, categories, 2)
	assert.Equal(t, "Home", categories[0].Name)
	assert.Equal(t, int64(1), categories[0].TaskCount)
	assert.Equal(t, "Work", categories[1].Name)
}
