package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"todotracker/internal/model"
	"todotracker/internal/repository"
	"todotracker/internal/service"
)

// Tools exposes task tracking operations to an MCP client. Every tool acts
// on behalf of the single user the server was started for.
type Tools struct {
	userID       uuid.UUID
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	analytics    *service.AnalyticsService
}

func NewTools(
	userID uuid.UUID,
	taskRepo *repository.TaskRepository,
	categoryRepo *repository.CategoryRepository,
	analytics *service.AnalyticsService,
) *Tools {
	return &Tools{
		userID:       userID,
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		analytics:    analytics,
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to encode result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

type taskSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	EffortPoints int    `json:"effort_points"`
	Category     string `json:"category,omitempty"`
	DueDate      string `json:"due_date,omitempty"`
}

func summarize(t *model.Task) taskSummary {
	s := taskSummary{
		ID:           t.ID.String(),
		Title:        t.Title,
		Status:       t.Status,
		Priority:     model.PriorityLabel(t.Priority),
		EffortPoints: t.EffortPoints,
	}
	if t.Category != nil {
		s.Category = t.Category.Name
	}
	if t.DueDate != nil {
		s.DueDate = t.DueDate.Format("2006-01-02")
	}
	return s
}

// GetDashboardTool reports task counts and effort points for the current
// periods.
func (t *Tools) GetDashboardTool() mcp.Tool {
	return mcp.NewTool("get_dashboard",
		mcp.WithDescription("Get an overview of the user's tasks: counts by status, effort points earned today, this week, this month, and this year, plus upcoming and overdue tasks."),
	)
}

func (t *Tools) HandleGetDashboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dashboard, err := t.analytics.Dashboard(ctx, t.userID, time.Now())
	if err != nil {
		return mcp.NewToolResultError("failed to build dashboard: " + err.Error()), nil
	}

	upcoming := make([]taskSummary, 0, len(dashboard.UpcomingTasks))
	for i := range dashboard.UpcomingTasks {
		upcoming = append(upcoming, summarize(&dashboard.UpcomingTasks[i]))
	}
	overdue := make([]taskSummary, 0, len(dashboard.OverdueTasks))
	for i := range dashboard.OverdueTasks {
		overdue = append(overdue, summarize(&dashboard.OverdueTasks[i]))
	}

	return jsonResult(map[string]interface{}{
		"effort_points":  dashboard.EffortPoints,
		"task_counts":    dashboard.TaskCounts,
		"upcoming_tasks": upcoming,
		"overdue_tasks":  overdue,
	})
}

// ListTasksTool lists tasks with an optional status filter.
func (t *Tools) ListTasksTool() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription("List the user's tasks, most urgent first. Optionally filter by status."),
		mcp.WithString("status",
			mcp.Description("Filter by status: todo, in_progress, completed, or archived."),
		),
	)
}

func (t *Tools) HandleListTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := req.GetString("status", "")
	if status != "" && !model.ValidStatus(status) {
		return mcp.NewToolResultError("status must be one of todo, in_progress, completed, archived"), nil
	}

	tasks, err := t.taskRepo.List(ctx, t.userID, repository.TaskFilter{Status: status})
	if err != nil {
		return mcp.NewToolResultError("failed to list tasks: " + err.Error()), nil
	}

	summaries := make([]taskSummary, 0, len(tasks))
	for i := range tasks {
		summaries = append(summaries, summarize(&tasks[i]))
	}
	return jsonResult(summaries)
}

// CreateTaskTool creates a task, resolving the category by name.
func (t *Tools) CreateTaskTool() mcp.Tool {
	return mcp.NewTool("create_task",
		mcp.WithDescription("Create a new task. The category is created on first use if it does not exist yet."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Task title.")),
		mcp.WithString("description", mcp.Description("Longer task description.")),
		mcp.WithString("category", mcp.Description("Category name.")),
		mcp.WithNumber("priority", mcp.Description("Priority from 1 (low) to 4 (urgent). Defaults to 2.")),
		mcp.WithNumber("effort_points", mcp.Description("Effort points from 1 to 10. Defaults to 1.")),
		mcp.WithString("due_date", mcp.Description("Due date in YYYY-MM-DD format.")),
	)
}

func (t *Tools) HandleCreateTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required"), nil
	}

	priority := req.GetInt("priority", model.PriorityMedium)
	if priority < model.PriorityLow || priority > model.PriorityUrgent {
		return mcp.NewToolResultError("priority must be between 1 and 4"), nil
	}
	effortPoints := req.GetInt("effort_points", 1)
	if effortPoints < 1 || effortPoints > 10 {
		return mcp.NewToolResultError("effort_points must be between 1 and 10"), nil
	}

	task := &model.Task{
		ID:           uuid.New(),
		Title:        title,
		Description:  req.GetString("description", ""),
		Status:       model.StatusTodo,
		Priority:     priority,
		EffortPoints: effortPoints,
		UserID:       t.userID,
	}

	if d := req.GetString("due_date", ""); d != "" {
		due, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			return mcp.NewToolResultError("due_date must be in YYYY-MM-DD format"), nil
		}
		task.DueDate = &due
	}

	if name := req.GetString("category", ""); name != "" {
		category, err := t.categoryRepo.GetOrCreateByName(ctx, name)
		if err != nil {
			return mcp.NewToolResultError("failed to resolve category: " + err.Error()), nil
		}
		task.CategoryID = &category.ID
	}

	if err := t.taskRepo.Create(ctx, task); err != nil {
		return mcp.NewToolResultError("failed to create task: " + err.Error()), nil
	}

	created, err := t.taskRepo.GetByID(ctx, t.userID, task.ID)
	if err != nil {
		return mcp.NewToolResultError("failed to load created task: " + err.Error()), nil
	}
	return jsonResult(summarize(created))
}

// CompleteTaskTool marks a task completed and reports the earned points.
func (t *Tools) CompleteTaskTool() mcp.Tool {
	return mcp.NewTool("complete_task",
		mcp.WithDescription("Mark a task as completed and record the earned effort points. Completing an already-completed task is rejected."),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("ID of the task to complete.")),
	)
}

func (t *Tools) HandleCompleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idParam, err := req.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required"), nil
	}
	taskID, err := uuid.Parse(idParam)
	if err != nil {
		return mcp.NewToolResultError("task_id must be a valid UUID"), nil
	}

	task, err := t.taskRepo.GetByID(ctx, t.userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return mcp.NewToolResultError("task not found"), nil
		}
		return mcp.NewToolResultError("failed to load task: " + err.Error()), nil
	}

	completion, err := t.taskRepo.Complete(ctx, t.userID, taskID, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrTaskAlreadyCompleted) {
			return mcp.NewToolResultError(fmt.Sprintf("Task %q is already completed.", task.Title)), nil
		}
		return mcp.NewToolResultError("failed to complete task: " + err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"message":       fmt.Sprintf("Task %q completed! Earned %d effort points.", task.Title, completion.EffortPoints),
		"task_id":       task.ID.String(),
		"effort_points": completion.EffortPoints,
	})
}

// GetAnalyticsTool reports effort point totals for a period.
func (t *Tools) GetAnalyticsTool() mcp.Tool {
	return mcp.NewTool("get_analytics",
		mcp.WithDescription("Get effort point analytics. The period parameter selects today, week, month, year, or all; all includes the category breakdown."),
		mcp.WithString("period",
			mcp.Description("One of today, week, month, year, all. Defaults to all."),
		),
	)
}

func (t *Tools) HandleGetAnalytics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := t.analytics.PeriodSummary(ctx, t.userID, req.GetString("period", "all"), time.Now())
	if err != nil {
		if errors.Is(err, service.ErrUnknownPeriod) {
			return mcp.NewToolResultError("period must be one of today, week, month, year, all"), nil
		}
		return mcp.NewToolResultError("failed to build analytics: " + err.Error()), nil
	}
	return jsonResult(summary)
}

// ListCategoriesTool lists all categories.
func (t *Tools) ListCategoriesTool() mcp.Tool {
	return mcp.NewTool("list_categories",
		mcp.WithDescription("List all task categories with the user's task count in each."),
	)
}

func (t *Tools) HandleListCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := t.categoryRepo.GetAll(ctx)
	if err != nil {
		return mcp.NewToolResultError("failed to list categories: " + err.Error()), nil
	}

	type categorySummary struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Color     string `json:"color"`
		TaskCount int64  `json:"task_count"`
	}

	summaries := make([]categorySummary, 0, len(categories))
	for i := range categories {
		count, err := t.categoryRepo.CountTasks(ctx, categories[i].ID, t.userID)
		if err != nil {
			return mcp.NewToolResultError("failed to count tasks: " + err.Error()), nil
		}
		summaries = append(summaries, categorySummary{
			ID:        categories[i].ID.String(),
			Name:      categories[i].Name,
			Color:     categories[i].Color,
			TaskCount: count,
		})
	}
	return jsonResult(summaries)
}
