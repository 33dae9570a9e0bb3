package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todotracker/internal/model"
)

type CompletionRepository struct {
	db *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// CategoryPoints is one row of the category breakdown. Category is nil for
// completions whose task has no category (including detached ones).
type CategoryPoints struct {
	Category    *string `json:"category"`
	TotalPoints int     `json:"total_points"`
	TaskCount   int     `json:"task_count"`
}

// PointsForPeriod sums the user's snapshotted effort points over completions
// with completed_at in the half-open interval [start, end). Returns 0, not
// an error, when nothing matches.
func (r *CompletionRepository) PointsForPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.TaskCompletion{}).
		Where("user_id = ? AND completed_at >= ? AND completed_at < ?", userID, start, end).
		Select("COALESCE(SUM(effort_points), 0)").
		Scan(&total).Error
	return int(total), err
}

// TotalPoints sums all effort points the user has ever earned.
func (r *CompletionRepository) TotalPoints(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.TaskCompletion{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(effort_points), 0)").
		Scan(&total).Error
	return int(total), err
}

// Count counts all of the user's completions.
func (r *CompletionRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TaskCompletion{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CategoryBreakdown groups the user's all-time completions by the completed
// task's category name, ordered by total points descending. Tasks without a
// category land in the nil bucket.
func (r *CompletionRepository) CategoryBreakdown(ctx context.Context, userID uuid.UUID) ([]CategoryPoints, error) {
	var rows []CategoryPoints
	err := r.db.WithContext(ctx).
		Table("task_completions").
		Select("categories.name AS category, SUM(task_completions.effort_points) AS total_points, COUNT(task_completions.id) AS task_count").
		Joins("LEFT JOIN tasks ON tasks.id = task_completions.task_id").
		Joins("LEFT JOIN categories ON categories.id = tasks.category_id").
		Where("task_completions.user_id = ?", userID).
		Group("categories.name").
		Order("total_points DESC").
		Scan(&rows).Error
	return rows, err
}

// Recent retrieves the user's latest completions, newest first.
func (r *CompletionRepository) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]model.TaskCompletion, error) {
	if limit <= 0 {
		limit = 10
	}
	var completions []model.TaskCompletion
	err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("Task.Category").
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&completions).Error
	return completions, err
}
