package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskCompletion is an append-only record created exactly once when a task
// transitions into the completed status. EffortPoints and CompletedAt are
// snapshots taken at that moment; later edits to the task do not touch them.
type TaskCompletion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaskID       uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	EffortPoints int       `gorm:"not null"`
	CompletedAt  time.Time `gorm:"not null;index"`

	Task Task `gorm:"foreignKey:TaskID"`
	User User `gorm:"foreignKey:UserID"`
}
