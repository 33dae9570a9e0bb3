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

type NoteHandler struct {
	noteRepo *repository.NoteRepository
	taskRepo *repository.TaskRepository
}

func NewNoteHandler(noteRepo *repository.NoteRepository, taskRepo *repository.TaskRepository) *NoteHandler {
	return &NoteHandler{noteRepo: noteRepo, taskRepo: taskRepo}
}

type NoteRequest struct {
	TaskID  string `json:"task_id" binding:"required,uuid"`
	Content string `json:"content" binding:"required"`
}

type NoteResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func noteResponse(note *model.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID.String(),
		TaskID:    note.TaskID.String(),
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
	}
}

// Create attaches a note to one of the user's tasks. Adding a note to
// another user's task is rejected the same way as a missing task.
func (h *NoteHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	if _, err := h.taskRepo.GetByID(c.Request.Context(), userID, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	note := &model.Note{
		ID:      uuid.New(),
		TaskID:  taskID,
		UserID:  userID,
		Content: req.Content,
	}

	if err := h.noteRepo.Create(c.Request.Context(), note); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
		return
	}

	c.JSON(http.StatusCreated, noteResponse(note))
}

// List retrieves the user's notes, optionally narrowed to one task, newest
// first.
func (h *NoteHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var (
		notes []model.Note
		err   error
	)
	if taskParam := c.Query("task_id"); taskParam != "" {
		taskID, parseErr := uuid.Parse(taskParam)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
			return
		}
		notes, err = h.noteRepo.ListByTask(c.Request.Context(), userID, taskID)
	} else {
		notes, err = h.noteRepo.ListByUser(c.Request.Context(), userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notes"})
		return
	}

	responses := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		responses = append(responses, noteResponse(&notes[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetByID retrieves one of the user's notes.
func (h *NoteHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	note, err := h.noteRepo.GetByID(c.Request.Context(), userID, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve note"})
		return
	}
	c.JSON(http.StatusOK, noteResponse(note))
}

// Delete removes one of the user's notes.
func (h *NoteHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.noteRepo.Delete(c.Request.Context(), userID, noteID); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}
