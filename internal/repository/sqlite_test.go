package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"todotracker/internal/model"
	"todotracker/internal/repository"
)

// setupSQLiteDB opens a fresh in-memory database per test. Transactional
// behavior like the completion guard needs a real database, so these tests
// run against sqlite instead of sqlmock. The uniquely named shared-cache
// DSN keeps every pooled connection on the same database; a plain
// ":memory:" DSN would hand each new connection an empty one.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := repository.NewDB("sqlite", testDSN())
	require.NoError(t, err)

	return db
}

func testDSN() string {
	return "file:" + uuid.NewString() + "?mode=memory&cache=shared"
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: "hashed_password",
		Name:           "Test User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()

	category := &model.Category{
		ID:    uuid.New(),
		Name:  name,
		Color: "#3498db",
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestTask(t *testing.T, db *gorm.DB, userID uuid.UUID, title string, effortPoints int) *model.Task {
	t.Helper()

	task := &model.Task{
		ID:           uuid.New(),
		Title:        title,
		Status:       model.StatusTodo,
		Priority:     model.PriorityMedium,
		EffortPoints: effortPoints,
		UserID:       userID,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func completeAt(t *testing.T, db *gorm.DB, userID, taskID uuid.UUID, at time.Time) *model.TaskCompletion {
	t.Helper()

	completion, err := repository.NewTaskRepository(db).Complete(context.Background(), userID, taskID, at)
	require.NoError(t, err)
	return completion
}
