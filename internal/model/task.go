package model

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusArchived   = "archived"
)

// Priorities, ordered lowest to highest
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
)

type Task struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title        string     `gorm:"not null"`
	Description  string
	CategoryID   *uuid.UUID `gorm:"type:uuid;index"`
	Status       string     `gorm:"not null;default:'todo';index"`
	Priority     int        `gorm:"not null;default:2"`
	EffortPoints int        `gorm:"not null;default:1"`
	DueDate      *time.Time `gorm:"index"`
	Tags         string     // comma-separated
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time // set only by the completion transition

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	User     User      `gorm:"foreignKey:UserID"`
}

// PriorityLabel returns the display name for a priority value.
func PriorityLabel(p int) string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityUrgent:
		return "Urgent"
	}
	return "Medium"
}

// PriorityColor returns a display color for a priority value.
func PriorityColor(p int) string {
	switch p {
	case PriorityLow:
		return "#95a5a6"
	case PriorityHigh:
		return "#f39c12"
	case PriorityUrgent:
		return "#e74c3c"
	}
	return "#3498db"
}

// StatusLabel returns the display name for a status value.
func StatusLabel(s string) string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusArchived:
		return "Archived"
	}
	return s
}

// ValidStatus reports whether s is one of the four task statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Active reports whether the task is still actionable (todo or in progress).
func (t *Task) Active() bool {
	return t.Status == StatusTodo || t.Status == StatusInProgress
}
