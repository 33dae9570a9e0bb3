// Package web serves the server-rendered UI: login, dashboard, task pages,
// and analytics. It reuses the same repositories and analytics service as
// the REST API; only the presentation differs.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"todotracker/internal/auth"
	"todotracker/internal/middleware"
	"todotracker/internal/model"
	"todotracker/internal/repository"
	"todotracker/internal/service"
)

type Handler struct {
	userRepo     repository.UserRepositoryInterface
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	noteRepo     *repository.NoteRepository
	analytics    *service.AnalyticsService
}

func NewHandler(
	userRepo repository.UserRepositoryInterface,
	taskRepo *repository.TaskRepository,
	categoryRepo *repository.CategoryRepository,
	noteRepo *repository.NoteRepository,
	analytics *service.AnalyticsService,
) *Handler {
	return &Handler{
		userRepo:     userRepo,
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		noteRepo:     noteRepo,
		analytics:    analytics,
	}
}

// TaskView is a template-ready projection of a task.
type TaskView struct {
	ID            string
	Title         string
	Description   string
	Category      string
	CategoryColor string
	Status        string
	StatusLabel   string
	Priority      int
	PriorityLabel string
	PriorityColor string
	EffortPoints  int
	DueDate       string
	Tags          string
	CompletedAt   string
}

func taskView(t *model.Task) TaskView {
	v := TaskView{
		ID:            t.ID.String(),
		Title:         t.Title,
		Description:   t.Description,
		Status:        t.Status,
		StatusLabel:   model.StatusLabel(t.Status),
		Priority:      t.Priority,
		PriorityLabel: model.PriorityLabel(t.Priority),
		PriorityColor: model.PriorityColor(t.Priority),
		EffortPoints:  t.EffortPoints,
		Tags:          t.Tags,
	}
	if t.Category != nil {
		v.Category = t.Category.Name
		v.CategoryColor = t.Category.Color
	}
	if t.DueDate != nil {
		v.DueDate = t.DueDate.Format("2006-01-02")
	}
	if t.CompletedAt != nil {
		v.CompletedAt = t.CompletedAt.Format("2006-01-02 15:04")
	}
	return v
}

func taskViews(tasks []model.Task) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, taskView(&tasks[i]))
	}
	return views
}

func webUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return uuid.Nil, false
	}
	return id, true
}

// LoginPage renders the login form.
func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Error": c.Query("error"),
	})
}

// Login checks credentials, sets the auth cookie, and sends the user to the
// dashboard.
func (h *Handler) Login(c *gin.Context) {
	email := strings.ToLower(c.PostForm("email"))
	password := c.PostForm("password")

	user, err := h.userRepo.FindByEmail(c.Request.Context(), email)
	if err != nil || user == nil {
		c.Redirect(http.StatusFound, "/login?error=Invalid+credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		c.Redirect(http.StatusFound, "/login?error=Invalid+credentials")
		return
	}

	token, err := auth.GenerateToken(user.ID.String())
	if err != nil {
		c.Redirect(http.StatusFound, "/login?error=Login+failed")
		return
	}

	c.SetCookie(middleware.AuthCookieName, token, int((24 * time.Hour).Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the auth cookie.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

// Dashboard renders the overview: counts, period points, upcoming and
// overdue tasks, and the day's completions.
func (h *Handler) Dashboard(c *gin.Context) {
	userID, ok := webUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	dashboard, err := h.analytics.Dashboard(ctx, userID, time.Now())
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to build dashboard")
		return
	}

	todoTasks, err := h.taskRepo.List(ctx, userID, repository.TaskFilter{Status: model.StatusTodo})
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load tasks")
		return
	}
	if len(todoTasks) > 5 {
		todoTasks = todoTasks[:5]
	}
	inProgress, err := h.taskRepo.List(ctx, userID, repository.TaskFilter{Status: model.StatusInProgress})
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load tasks")
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Message":       c.Query("msg"),
		"Points":        dashboard.EffortPoints,
		"Counts":        dashboard.TaskCounts,
		"TodoTasks":     taskViews(todoTasks),
		"InProgress":    taskViews(inProgress),
		"UpcomingTasks": taskViews(dashboard.UpcomingTasks),
		"OverdueTasks":  taskViews(dashboard.OverdueTasks),
	})
}

// TaskList renders the filterable task list.
func (h *Handler) TaskList(c *gin.Context) {
	userID, ok := webUserID(c)
	if !ok {
		return
	}

	filter := repository.TaskFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("q"),
	}
	if p := c.Query("priority"); p != "" {
		priority, err := strconv.Atoi(p)
		if err != nil || priority < model.PriorityLow || priority > model.PriorityUrgent {
			c.String(http.StatusBadRequest, "Priority must be between 1 and 4")
			return
		}
		filter.Priority = priority
	}

	tasks, err := h.taskRepo.List(c.Request.Context(), userID, filter)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load tasks")
		return
	}
	categories, err := h.categoryRepo.GetAll(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load categories")
		return
	}

	c.HTML(http.StatusOK, "tasks.html", gin.H{
		"Message":    c.Query("msg"),
		"Tasks":      taskViews(tasks),
		"Categories": categories,
		"Status":     filter.Status,
		"Category":   filter.Category,
		"Priority":   c.Query("priority"),
		"Search":     filter.Search,
	})
}

// TaskDetail renders one task with its notes.
func (h *Handler) TaskDetail(c *gin.Context) {
	userID, ok := webUserID(c)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Task not found")
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), userID, taskID)
	if err != nil {
		c.String(http.StatusNotFound, "Task not found")
		return
	}
	notes, err := h.noteRepo.ListByTask(c.Request.Context(), userID, taskID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load notes")
		return
	}

	c.HTML(http.StatusOK, "task_detail.html", gin.H{
		"Message": c.Query("msg"),
		"Task":    taskView(task),
		"Notes":   notes,
	})
}

// TaskForm renders the create or edit form.
func (h *Handler) TaskForm(c *gin.Context) {
	userID, ok := webUserID(c)
	if !ok {
		return
	}

	categories, err := h.categoryRepo.GetAll(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load categories")
		return
	}

	data := gin.H{
		"Categories": categories,
		"Error":      c.Query("error"),
	}

	if idParam := c.Param("id"); idParam != "" {
		taskID, err := uuid.Parse(idParam)
		if err != nil {
			c.String(http.StatusNotFound, "Task not found")
			return
		}
		task, err := h.taskRepo.GetByID(c.Request.Context(), userID, taskID)
		if err != nil {
			c.String(http.StatusNotFound, "Task not found")
			return
		}
		data["Task"] = taskView(task)
	}

	c.HTML(http.StatusOK, "task_form.html", data)
}

type taskForm struct {
	title        string
	description  string
	category     string
	status       string
	priority     int
	effortPoints int
	dueDate      *time.Time
	tags         string
}

// parseTaskForm applies the same field rules as the API: effort points 1-10,
// priority 1-4, due date YYYY-MM-DD, before any state changes.
func parseTaskForm(c *gin.Context) (taskForm, error) {
	form := taskForm{
		title:       strings.TrimSpace(c.PostForm("title")),
		description: c.PostForm("description"),
		category:    strings.TrimSpace(c.PostForm("category")),
		status:      c.PostForm("status"),
		tags:        c.PostForm("tags"),
	}
	if form.title == "" {
		return form, errors.New("Title is required")
	}

	form.priority = model.PriorityMedium
	if p := c.PostForm("priority"); p != "" {
		priority, err := strconv.Atoi(p)
		if err != nil || priority < model.PriorityLow || priority > model.PriorityUrgent {
			return form, errors.New("Priority must be between 1 and 4")
		}
		form.priority = priority
	}

	form.effortPoints = 1
	if e := c.PostForm("effort_points"); e != "" {
		points, err := strconv.Atoi(e)
		if err != nil || points < 1 || points > 10 {
			return form, errors.New("Effort points must be between 1 and 10")
		}
		form.effortPoints = points
	}

	if form.status != "" && form.status != model.StatusTodo &&
		form.status != model.StatusInProgress && form.status != model.StatusArchived {
		return form, errors.New("Invalid status")
	}

	if d := c.PostForm("due_date"); d != "" {
		due, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			return form, errors.New("Due date must be in YYYY-MM-DD format")
		}
		form.dueDate = &due
	}

	return form, nil
}

// TaskCreate handles the new-task form post.
func (h *Handler) TaskCreate(c *gin.Context) {
	userID, ok := webUserID(c)
	if !ok {
		return
	}

	form, err := parseTaskForm(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/tasks/new?error="+url.QueryEscape(err.Error()))
		return
	}

	task := &model.Task{
		ID:           uuid.New(),
		Title:        form.title,
		Description:  form.description,
		Status:       model.StatusTodo,
		Priority:     form.priority,
		EffortPoints: form.effortPoints,
		DueDate:      form.dueDate,
		Tags:         form.tags,
		UserID:       userID,
	}
	if form.status != "" {
		task.Status = form.status
	}
	if form.category != "" {
		category, err := h.categoryRepo.GetOrCreateByName(c.Request.Context(), form.category)
		if err != nil {
			c.String(http.StatusInternalServerError, "Failed to resolve category")
			return
		}
		task.CategoryID = &category.ID
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		c.String(http.StatusInternalServerError, "Failed to create task")
		return
	}
	c.Redirect(http.StatusFound, "/tasks")
}

// TaskUpdate handles the edit form post.
func (h *Handler) TaskUpdate(c *gin.Context) {
	userID, ok := webUserID(c)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Task not found")
		return
	}

	form, err := parseTaskForm(c)
	if err != nil {
		c.Redirect(http.StatusFound, fmt.Sprintf("/tasks/%s/edit?error=%s", taskID, url.QueryEscape(err.Error())))
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), userID, taskID)
	if err != nil {
		c.String(http.StatusNotFound, "Task not found")
		return
	}

	task.Title = form.title
	task.Description = form.description
	task.Priority = form.priority
	task.EffortPoints = form.effortPoints
	task.DueDate = form.dueDate
	task.Tags = form.tags
	if form.category != "" {
		category, err := h.categoryRepo.GetOrCreateByName(c.Request.Context(), form.category)
		if err != nil {
			c.String(http.StatusInternalServerError, "Failed to resolve category")
			return
		}
		task.CategoryID = &category.ID
	} else {
		task.CategoryID = nil
	}

	reopening := form.status != "" && task.Status == model.StatusCompleted
	if form.status != "" && !reopening {
		task.Status = form.status
	}

	task.Category = nil
	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		c.String(http.StatusInternalServerError, "Failed to update task")
		return
	}
	if reopening {
		if err := h.taskRepo.Reopen(c.Request.Context(), userID, taskID, form.status); err != nil {
			c.String(http.StatusInternalServerError, "Failed to reopen task")
			return
		}
	}

	c.Redirect(http.StatusFound, "/tasks/"+taskID.String())
}

// TaskDelete handles the delete form post.
func (h *Handler) TaskDelete(c *gin.Context) {
	userID, ok := webUserID(c)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Task not found")
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), userID, taskID); err != nil {
		c.String(http.StatusNotFound, "Task not found")
		return
	}
	c.Redirect(http.StatusFound, "/tasks")
}

// TaskComplete marks a task completed and returns to the referring page.
// Completing an already-completed task shows a notice instead of failing.
func (h *Handler) TaskComplete(c *gin.Context) {
	userID, ok := webUserID(c)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Task not found")
		return
	}

	var msg string
	completion, err := h.taskRepo.Complete(c.Request.Context(), userID, taskID, time.Now())
	switch {
	case err == nil:
		msg = fmt.Sprintf("Completed! Earned %d effort points.", completion.EffortPoints)
	case errors.Is(err, repository.ErrTaskAlreadyCompleted):
		msg = "Task is already completed."
	case errors.Is(err, repository.ErrTaskNotFound):
		c.String(http.StatusNotFound, "Task not found")
		return
	default:
		c.String(http.StatusInternalServerError, "Failed to complete task")
		return
	}

	c.Redirect(http.StatusFound, withMessage(c.Request.Referer(), msg))
}

// NoteCreate appends a note to a task from the detail page.
func (h *Handler) NoteCreate(c *gin.Context) {
	userID, ok := webUserID(c)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Task not found")
		return
	}

	content := strings.TrimSpace(c.PostForm("content"))
	if content != "" {
		if _, err := h.taskRepo.GetByID(c.Request.Context(), userID, taskID); err != nil {
			c.String(http.StatusNotFound, "Task not found")
			return
		}
		note := &model.Note{
			ID:      uuid.New(),
			TaskID:  taskID,
			UserID:  userID,
			Content: content,
		}
		if err := h.noteRepo.Create(c.Request.Context(), note); err != nil {
			c.String(http.StatusInternalServerError, "Failed to add note")
			return
		}
	}
	c.Redirect(http.StatusFound, "/tasks/"+taskID.String())
}

// Analytics renders effort points over time plus the category breakdown.
func (h *Handler) Analytics(c *gin.Context) {
	userID, ok := webUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	now := time.Now()

	daily, err := h.analytics.DailySeries(ctx, userID, now, 30)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to build analytics")
		return
	}
	weekly, err := h.analytics.WeeklySeries(ctx, userID, now, 12)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to build analytics")
		return
	}
	monthly, err := h.analytics.MonthlySeries(ctx, userID, now, 12)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to build analytics")
		return
	}
	breakdown, err := h.analytics.CategoryBreakdown(ctx, userID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to build analytics")
		return
	}
	history, err := h.analytics.CompletionHistory(ctx, userID, 10)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to build analytics")
		return
	}
	summary, err := h.analytics.PeriodSummary(ctx, userID, "all", now)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to build analytics")
		return
	}

	c.HTML(http.StatusOK, "analytics.html", gin.H{
		"Daily":     daily,
		"Weekly":    weekly,
		"Monthly":   monthly,
		"Breakdown": breakdown,
		"History":   history,
		"Summary":   summary,
	})
}

// withMessage appends msg to the referring URL, falling back to the
// dashboard when the referer is empty.
func withMessage(referer, msg string) string {
	if referer == "" {
		referer = "/"
	}
	sep := "?"
	if strings.Contains(referer, "?") {
		sep = "&"
	}
	return referer + sep + "msg=" + url.QueryEscape(msg)
}
