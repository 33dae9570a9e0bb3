package handler

import (
	"errors"
	"net/http"
	"time"

	"todotracker/internal/model"
	"todotracker/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	categoryRepo *repository.CategoryRepository
	taskRepo     *repository.TaskRepository
}

func NewCategoryHandler(categoryRepo *repository.CategoryRepository, taskRepo *repository.TaskRepository) *CategoryHandler {
	return &CategoryHandler{categoryRepo: categoryRepo, taskRepo: taskRepo}
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
}

type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	TaskCount   int64     `json:"task_count"`
}

func (h *CategoryHandler) categoryResponse(c *gin.Context, category *model.Category, userID uuid.UUID) (CategoryResponse, error) {
	count, err := h.categoryRepo.CountTasks(c.Request.Context(), category.ID, userID)
	if err != nil {
		return CategoryResponse{}, err
	}
	return CategoryResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		Description: category.Description,
		Color:       category.Color,
		CreatedAt:   category.CreatedAt,
		TaskCount:   count,
	}, nil
}

// Create adds a new category.
func (h *CategoryHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	category := &model.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}
	if category.Color == "" {
		category.Color = "#3498db"
	}

	if err := h.categoryRepo.Create(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Category with this name already exists"})
		return
	}

	resp, err := h.categoryResponse(c, category, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetAll lists categories alphabetically with the user's task counts.
func (h *CategoryHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	categories, err := h.categoryRepo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		resp, err := h.categoryResponse(c, &categories[i], userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
			return
		}
		responses = append(responses, resp)
	}
	c.JSON(http.StatusOK, responses)
}

// GetByID retrieves one category.
func (h *CategoryHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryRepo.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		return
	}

	resp, err := h.categoryResponse(c, category, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update edits a category.
func (h *CategoryHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	category, err := h.categoryRepo.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		return
	}

	category.Name = req.Name
	category.Description = req.Description
	if req.Color != "" {
		category.Color = req.Color
	}

	if err := h.categoryRepo.Update(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	resp, err := h.categoryResponse(c, category, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a category. Its tasks are detached, not deleted, and past
// completions fall into the null-category analytics bucket.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.categoryRepo.Delete(c.Request.Context(), categoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// Tasks lists the user's tasks in one category.
func (h *CategoryHandler) Tasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.categoryRepo.GetByID(c.Request.Context(), categoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		return
	}

	tasks, err := h.taskRepo.ListByCategory(c.Request.Context(), userID, categoryID)
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
