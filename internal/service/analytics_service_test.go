package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"todotracker/internal/model"
	"todotracker/internal/repository"
	"todotracker/internal/service"
)

func setupAnalytics(t *testing.T) (*gorm.DB, *service.AnalyticsService, *model.User) {
	t.Helper()

	// Uniquely named shared-cache database so every pooled connection sees
	// the same data.
	db, err := repository.NewDB("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)

	user := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: "hashed_password",
		Name:           "Test User",
	}
	require.NoError(t, db.Create(user).Error)

	taskRepo := repository.NewTaskRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	return db, service.NewAnalyticsService(taskRepo, completionRepo), user
}

func completeTask(t *testing.T, db *gorm.DB, userID uuid.UUID, title string, points int, at time.Time) *model.Task {
	t.Helper()

	task := &model.Task{
		ID:           uuid.New(),
		Title:        title,
		Status:       model.StatusTodo,
		Priority:     model.PriorityMedium,
		EffortPoints: points,
		UserID:       userID,
	}
	require.NoError(t, db.Create(task).Error)

	_, err := repository.NewTaskRepository(db).Complete(context.Background(), userID, task.ID, at)
	require.NoError(t, err)
	return task
}

func TestAnalyticsService_PointsAcrossPeriods(t *testing.T) {
	// Arrange: one 5-point completion on a Wednesday.
	db, analytics, user := setupAnalytics(t)
	wednesday := time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC)
	completeTask(t, db, user.ID, "Write report", 5, wednesday)

	ctx := context.Background()

	// Assert: the same completion shows up in every containing period.
	daily, err := analytics.DailyPoints(ctx, user.ID, wednesday)
	require.NoError(t, err)
	assert.Equal(t, 5, daily)

	weekly, err := analytics.WeeklyPoints(ctx, user.ID, wednesday)
	require.NoError(t, err)
	assert.Equal(t, 5, weekly)

	monthly, err := analytics.MonthlyPoints(ctx, user.ID, wednesday)
	require.NoError(t, err)
	assert.Equal(t, 5, monthly)

	yearly, err := analytics.YearlyPoints(ctx, user.ID, wednesday)
	require.NoError(t, err)
	assert.Equal(t, 5, yearly)

	// The following Monday starts a new week but stays in the same month.
	nextMonday := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)
	weekly, err = analytics.WeeklyPoints(ctx, user.ID, nextMonday)
	require.NoError(t, err)
	assert.Equal(t, 0, weekly)

	monthly, err = analytics.MonthlyPoints(ctx, user.ID, nextMonday)
	require.NoError(t, err)
	assert.Equal(t, 5, monthly)
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	// Arrange
	db, analytics, user := setupAnalytics(t)
	today := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	todo := &model.Task{
		ID: uuid.New(), Title: "Todo task", Status: model.StatusTodo,
		Priority: model.PriorityMedium, EffortPoints: 1, UserID: user.ID,
	}
	require.NoError(t, db.Create(todo).Error)
	dueSoon := today.AddDate(0, 0, 2)
	require.NoError(t, db.Model(todo).Update("due_date", dueSoon).Error)

	inProgress := &model.Task{
		ID: uuid.New(), Title: "Started task", Status: model.StatusInProgress,
		Priority: model.PriorityMedium, EffortPoints: 1, UserID: user.ID,
	}
	require.NoError(t, db.Create(inProgress).Error)
	pastDue := today.AddDate(0, 0, -3)
	require.NoError(t, db.Model(inProgress).Update("due_date", pastDue).Error)

	completeTask(t, db, user.ID, "Done this morning", 4, today.Add(-2*time.Hour))
	completeTask(t, db, user.ID, "Done last month", 7, today.AddDate(0, -1, 0))

	// Act
	dashboard, err := analytics.Dashboard(context.Background(), user.ID, today)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), dashboard.TaskCounts.Todo)
	assert.Equal(t, int64(1), dashboard.TaskCounts.InProgress)
	assert.Equal(t, int64(1), dashboard.TaskCounts.CompletedToday)

	assert.Equal(t, 4, dashboard.EffortPoints.Today)
	assert.Equal(t, 4, dashboard.EffortPoints.ThisMonth)
	assert.Equal(t, 11, dashboard.EffortPoints.ThisYear)

	require.Len(t, dashboard.UpcomingTasks, 1)
	assert.Equal(t, "Todo task", dashboard.UpcomingTasks[0].Title)
	require.Len(t, dashboard.OverdueTasks, 1)
	assert.Equal(t, "Started task", dashboard.OverdueTasks[0].Title)
}

func TestAnalyticsService_PeriodSummary_Today(t *testing.T) {
	// Arrange
	db, analytics, user := setupAnalytics(t)
	today := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	completeTask(t, db, user.ID, "Done today", 3, today)

	// Act
	summary, err := analytics.PeriodSummary(context.Background(), user.ID, "today", today)

	// Assert: only the requested period is present.
	require.NoError(t, err)
	assert.Equal(t, "today", summary.Period)
	require.NotNil(t, summary.PointsToday)
	assert.Equal(t, 3, *summary.PointsToday)
	assert.Nil(t, summary.PointsThisWeek)
	assert.Nil(t, summary.TotalPointsEarned)
	assert.Nil(t, summary.CategoryBreakdown)
}

func TestAnalyticsService_PeriodSummary_DefaultsToAll(t *testing.T) {
	// Arrange
	db, analytics, user := setupAnalytics(t)
	today := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	completeTask(t, db, user.ID, "Done today", 3, today)

	// Act
	summary, err := analytics.PeriodSummary(context.Background(), user.ID, "", today)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "all", summary.Period)
	assert.Equal(t, int64(1), summary.TotalTasks)
	assert.Equal(t, int64(1), summary.CompletedTasks)
	require.NotNil(t, summary.TotalPointsEarned)
	assert.Equal(t, 3, *summary.TotalPointsEarned)
	require.Len(t, summary.CategoryBreakdown, 1)
}

func TestAnalyticsService_PeriodSummary_UnknownPeriod(t *testing.T) {
	_, analytics, user := setupAnalytics(t)

	summary, err := analytics.PeriodSummary(context.Background(), user.ID, "fortnight", time.Now())

	assert.ErrorIs(t, err, service.ErrUnknownPeriod)
	assert.Nil(t, summary)
}

func TestAnalyticsService_DailySeries(t *testing.T) {
	// Arrange
	db, analytics, user := setupAnalytics(t)
	today := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	completeTask(t, db, user.ID, "Done today", 2, today)
	completeTask(t, db, user.ID, "Done a week ago", 6, today.AddDate(0, 0, -7))
	completeTask(t, db, user.ID, "Too old for the window", 9, today.AddDate(0, 0, -30))

	// Act
	series, err := analytics.DailySeries(context.Background(), user.ID, today, 30)

	// Assert: 30 buckets, oldest first, today last.
	require.NoError(t, err)
	require.Len(t, series, 30)
	assert.Equal(t, "05/13", series[0].Label)
	assert.Equal(t, "06/11", series[29].Label)
	assert.Equal(t, 2, series[29].Points)
	assert.Equal(t, 6, series[22].Points)
	assert.Equal(t, 0, series[0].Points)
}

func TestAnalyticsService_WeeklySeries(t *testing.T) {
	// Arrange
	db, analytics, user := setupAnalytics(t)
	wednesday := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	completeTask(t, db, user.ID, "This week", 4, wednesday)
	completeTask(t, db, user.ID, "Last week", 2, wednesday.AddDate(0, 0, -7))

	// Act
	series, err := analytics.WeeklySeries(context.Background(), user.ID, wednesday, 12)

	// Assert: labeled by Monday week start.
	require.NoError(t, err)
	require.Len(t, series, 12)
	assert.Equal(t, "06/09", series[11].Label)
	assert.Equal(t, 4, series[11].Points)
	assert.Equal(t, "06/02", series[10].Label)
	assert.Equal(t, 2, series[10].Points)
}

func TestAnalyticsService_MonthlySeries_YearRollover(t *testing.T) {
	// Arrange
	db, analytics, user := setupAnalytics(t)
	january := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	completeTask(t, db, user.ID, "This January", 5, january)
	completeTask(t, db, user.ID, "Last December", 3, time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC))

	// Act
	series, err := analytics.MonthlySeries(context.Background(), user.ID, january, 12)

	// Assert: the window spans the year boundary without losing December.
	require.NoError(t, err)
	require.Len(t, series, 12)
	assert.Equal(t, "Feb 2024", series[0].Label)
	assert.Equal(t, "Jan 2025", series[11].Label)
	assert.Equal(t, 5, series[11].Points)
	assert.Equal(t, "Dec 2024", series[10].Label)
	assert.Equal(t, 3, series[10].Points)
}

func TestAnalyticsService_CompletionHistory(t *testing.T) {
	// Arrange
	db, analytics, user := setupAnalytics(t)
	base := time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)
	completeTask(t, db, user.ID, "First", 1, base)
	completeTask(t, db, user.ID, "Second", 2, base.Add(time.Hour))

	// Act
	history, err := analytics.CompletionHistory(context.Background(), user.ID, 10)

	// Assert
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Second", history[0].TaskTitle)
	assert.Equal(t, 2, history[0].EffortPoints)
	assert.Equal(t, "First", history[1].TaskTitle)
	assert.Nil(t, history[0].Category)
}
