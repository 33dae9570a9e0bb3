package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"todotracker/internal/model"
	"todotracker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	noteRepo     *repository.NoteRepository
}

func NewTaskHandler(
	taskRepo *repository.TaskRepository,
	categoryRepo *repository.CategoryRepository,
	noteRepo *repository.NoteRepository,
) *TaskHandler {
	return &TaskHandler{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		noteRepo:     noteRepo,
	}
}

// TaskRequest creates or updates a task. Status "completed" is not accepted
// here: the completion transition has its own endpoint so the completion
// record is written exactly once.
type TaskRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	CategoryName *string `json:"category_name"`
	Status       string  `json:"status" binding:"omitempty,oneof=todo in_progress archived"`
	Priority     int     `json:"priority" binding:"omitempty,min=1,max=4"`
	EffortPoints int     `json:"effort_points" binding:"omitempty,min=1,max=10"`
	DueDate      *string `json:"due_date"` // YYYY-MM-DD
	Tags         string  `json:"tags"`
}

// ReopenRequest moves a completed task back to an active status.
type ReopenRequest struct {
	Status string `json:"status" binding:"omitempty,oneof=todo in_progress"`
}

type CategoryBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type TaskResponse struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Category        *CategoryBrief `json:"category,omitempty"`
	Status          string         `json:"status"`
	StatusDisplay   string         `json:"status_display"`
	Priority        int            `json:"priority"`
	PriorityDisplay string         `json:"priority_display"`
	EffortPoints    int            `json:"effort_points"`
	DueDate         *string        `json:"due_date,omitempty"`
	Tags            string         `json:"tags,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	Notes           []NoteResponse `json:"notes,omitempty"`
}

func taskResponse(task *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:              task.ID.String(),
		Title:           task.Title,
		Description:     task.Description,
		Status:          task.Status,
		StatusDisplay:   model.StatusLabel(task.Status),
		Priority:        task.Priority,
		PriorityDisplay: model.PriorityLabel(task.Priority),
		EffortPoints:    task.EffortPoints,
		Tags:            task.Tags,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
		CompletedAt:     task.CompletedAt,
	}
	if task.Category != nil {
		resp.Category = &CategoryBrief{
			ID:    task.Category.ID.String(),
			Name:  task.Category.Name,
			Color: task.Category.Color,
		}
	}
	if task.DueDate != nil {
		due := task.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	return resp
}

func parseDueDate(c *gin.Context, raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	due, err := time.ParseInLocation("2006-01-02", *raw, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be in YYYY-MM-DD format"})
		return nil, false
	}
	return &due, true
}

func (h *TaskHandler) resolveCategory(c *gin.Context, name *string) (*uuid.UUID, bool) {
	if name == nil || *name == "" {
		return nil, true
	}
	category, err := h.categoryRepo.GetOrCreateByName(c.Request.Context(), *name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve category"})
		return nil, false
	}
	return &category.ID, true
}

// Create adds a new task for the authenticated user.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	dueDate, ok := parseDueDate(c, req.DueDate)
	if !ok {
		return
	}
	categoryID, ok := h.resolveCategory(c, req.CategoryName)
	if !ok {
		return
	}

	task := &model.Task{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		CategoryID:   categoryID,
		Status:       model.StatusTodo,
		Priority:     model.PriorityMedium,
		EffortPoints: 1,
		DueDate:      dueDate,
		Tags:         req.Tags,
		UserID:       userID,
	}
	if req.Status != "" {
		task.Status = req.Status
	}
	if req.Priority != 0 {
		task.Priority = req.Priority
	}
	if req.EffortPoints != 0 {
		task.EffortPoints = req.EffortPoints
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	created, err := h.taskRepo.GetByID(c.Request.Context(), userID, task.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	c.JSON(http.StatusCreated, taskResponse(created))
}

// List retrieves the user's tasks with optional status, category, priority,
// and search filters.
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filter := repository.TaskFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("q"),
	}
	if filter.Status != "" && !model.ValidStatus(filter.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}
	if p := c.Query("priority"); p != "" {
		priority, err := strconv.Atoi(p)
		if err != nil || priority < model.PriorityLow || priority > model.PriorityUrgent {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Priority must be between 1 and 4"})
			return
		}
		filter.Priority = priority
	}

	tasks, err := h.taskRepo.List(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, taskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// Search retrieves the user's tasks matching q in title, description, or tags.
func (h *TaskHandler) Search(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query parameter \"q\" is required"})
		return
	}

	tasks, err := h.taskRepo.List(c.Request.Context(), userID, repository.TaskFilter{Search: query})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search tasks"})
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, taskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetByID retrieves one task with its notes.
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	notes, err := h.noteRepo.ListByTask(c.Request.Context(), userID, taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notes"})
		return
	}

	resp := taskResponse(task)
	for i := range notes {
		resp.Notes = append(resp.Notes, noteResponse(&notes[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Update edits a task's fields. A status change away from completed goes
// through the reopen transition so completed_at is cleared alongside it.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	dueDate, ok := parseDueDate(c, req.DueDate)
	if !ok {
		return
	}
	categoryID, ok := h.resolveCategory(c, req.CategoryName)
	if !ok {
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.Tags = req.Tags
	task.DueDate = dueDate
	if categoryID != nil {
		task.CategoryID = categoryID
	}
	if req.Priority != 0 {
		task.Priority = req.Priority
	}
	if req.EffortPoints != 0 {
		task.EffortPoints = req.EffortPoints
	}

	reopening := req.Status != "" && task.Status == model.StatusCompleted
	if req.Status != "" && !reopening {
		task.Status = req.Status
	}

	// Drop the preloaded association so Save only writes task columns.
	task.Category = nil
	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	if reopening {
		if err := h.taskRepo.Reopen(c.Request.Context(), userID, taskID, req.Status); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reopen task"})
			return
		}
	}

	updated, err := h.taskRepo.GetByID(c.Request.Context(), userID, taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}
	c.JSON(http.StatusOK, taskResponse(updated))
}

// Delete removes a task.
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), userID, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// Complete marks a task as completed and records its effort points.
// Completing an already-completed task is a benign no-op answered with 400
// and no second completion record.
func (h *TaskHandler) Complete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	completion, err := h.taskRepo.Complete(c.Request.Context(), userID, taskID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTaskAlreadyCompleted):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": fmt.Sprintf("Task %q is already completed.", task.Title),
			})
		case errors.Is(err, repository.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Task %q completed! Earned %d effort points.",
			task.Title, completion.EffortPoints),
		"task_id":       task.ID.String(),
		"effort_points": completion.EffortPoints,
	})
}

// Reopen moves a task back to an active status, clearing completed_at.
// Completion history stays untouched.
func (h *TaskHandler) Reopen(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ReopenRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.taskRepo.Reopen(c.Request.Context(), userID, taskID, req.Status); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reopen task"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), userID, taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}
	c.JSON(http.StatusOK, taskResponse(task))
}
