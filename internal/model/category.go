package model

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description string
	Color       string    `gorm:"not null;default:'#3498db'"` // hex display hint
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}
