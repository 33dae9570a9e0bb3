package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todotracker/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskFilter narrows List results. Zero values mean "no filter".
type TaskFilter struct {
	Status   string
	Category string // category name, case-insensitive
	Priority int
	Search   string // matches title, description, or tags
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves one of the user's tasks by ID. Another user's task is
// indistinguishable from a missing one.
func (r *TaskRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&task, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// List retrieves the user's tasks, highest priority first, newest first
// within a priority.
func (r *TaskRepository) List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).
		Preload("Category").
		Where("tasks.user_id = ?", userID)

	if filter.Status != "" {
		q = q.Where("tasks.status = ?", filter.Status)
	}
	if filter.Priority != 0 {
		q = q.Where("tasks.priority = ?", filter.Priority)
	}
	if filter.Category != "" {
		q = q.Joins("LEFT JOIN categories ON categories.id = tasks.category_id").
			Where("lower(categories.name) = lower(?)", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(
			"lower(tasks.title) LIKE lower(?) OR lower(tasks.description) LIKE lower(?) OR lower(tasks.tags) LIKE lower(?)",
			pattern, pattern, pattern,
		)
	}

	var tasks []model.Task
	err := q.Order("tasks.priority DESC, tasks.created_at DESC").Find(&tasks).Error
	return tasks, err
}

// ListByCategory retrieves the user's tasks in one category.
func (r *TaskRepository) ListByCategory(ctx context.Context, userID, categoryID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Order("priority DESC, created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// Update updates an existing task
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes one of the user's tasks by ID
func (r *TaskRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Complete transitions a task into the completed status and appends the
// immutable TaskCompletion snapshot, as one all-or-nothing unit.
//
// The status update carries a `status <> completed` guard, so two racing
// calls cannot both pass the check: the loser sees zero affected rows and
// gets ErrTaskAlreadyCompleted, and exactly one completion record exists
// per transition.
func (r *TaskRepository) Complete(ctx context.Context, userID, taskID uuid.UUID, now time.Time) (*model.TaskCompletion, error) {
	var completion *model.TaskCompletion

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.Task
		if err := tx.First(&task, "id = ? AND user_id = ?", taskID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		result := tx.Model(&model.Task{}).
			Where("id = ? AND user_id = ? AND status <> ?", taskID, userID, model.StatusCompleted).
			Updates(map[string]interface{}{
				"status":       model.StatusCompleted,
				"completed_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskAlreadyCompleted
		}

		completion = &model.TaskCompletion{
			ID:           uuid.New(),
			TaskID:       task.ID,
			UserID:       userID,
			EffortPoints: task.EffortPoints,
			CompletedAt:  now,
		}
		return tx.Create(completion).Error
	})
	if err != nil {
		return nil, err
	}
	return completion, nil
}

// Reopen moves a task back to an active status and clears its completion
// timestamp. Completion history is never deleted.
func (r *TaskRepository) Reopen(ctx context.Context, userID, taskID uuid.UUID, status string) error {
	if status != model.StatusTodo && status != model.StatusInProgress {
		status = model.StatusTodo
	}

	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND user_id = ?", taskID, userID).
		Updates(map[string]interface{}{
			"status":       status,
			"completed_at": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// CountByStatus counts the user's tasks in a given status.
func (r *TaskRepository) CountByStatus(ctx context.Context, userID uuid.UUID, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}

// Count counts all of the user's tasks.
func (r *TaskRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountCompletedBetween counts the user's tasks completed within the
// half-open interval [start, end).
func (r *TaskRepository) CountCompletedBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			userID, model.StatusCompleted, start, end).
		Count(&count).Error
	return count, err
}

// Upcoming retrieves active tasks due within [from, to], soonest first.
func (r *TaskRepository) Upcoming(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND status IN ? AND due_date >= ? AND due_date <= ?",
			userID, []string{model.StatusTodo, model.StatusInProgress}, from, to).
		Order("due_date").
		Find(&tasks).Error
	return tasks, err
}

// Overdue retrieves active tasks due strictly before the given date,
// soonest first.
func (r *TaskRepository) Overdue(ctx context.Context, userID uuid.UUID, before time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND status IN ? AND due_date < ?",
			userID, []string{model.StatusTodo, model.StatusInProgress}, before).
		Order("due_date").
		Find(&tasks).Error
	return tasks, err
}
