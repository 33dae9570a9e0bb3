package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"todotracker/internal/model"
	"todotracker/internal/period"
	"todotracker/internal/repository"
)

// ErrUnknownPeriod is returned for a period parameter outside
// today/week/month/year/all.
var ErrUnknownPeriod = errors.New("unknown period")

// AnalyticsService composes period intervals, point sums, and task queries
// into the dashboard and analytics view models. Nothing is cached: every
// call recomputes from current data.
type AnalyticsService struct {
	taskRepo       *repository.TaskRepository
	completionRepo *repository.CompletionRepository
}

func NewAnalyticsService(taskRepo *repository.TaskRepository, completionRepo *repository.CompletionRepository) *AnalyticsService {
	return &AnalyticsService{taskRepo: taskRepo, completionRepo: completionRepo}
}

type EffortPoints struct {
	Today     int `json:"today"`
	ThisWeek  int `json:"this_week"`
	ThisMonth int `json:"this_month"`
	ThisYear  int `json:"this_year"`
}

type TaskCounts struct {
	Todo           int64 `json:"todo"`
	InProgress     int64 `json:"in_progress"`
	CompletedToday int64 `json:"completed_today"`
}

type Dashboard struct {
	EffortPoints  EffortPoints `json:"effort_points"`
	TaskCounts    TaskCounts   `json:"task_counts"`
	UpcomingTasks []model.Task `json:"upcoming_tasks"`
	OverdueTasks  []model.Task `json:"overdue_tasks"`
}

// PeriodSummary is the effort-points analytics payload. Pointer fields are
// present only for the periods the caller asked for.
type PeriodSummary struct {
	Period            string                      `json:"period"`
	TotalTasks        int64                       `json:"total_tasks"`
	CompletedTasks    int64                       `json:"completed_tasks"`
	PointsToday       *int                        `json:"points_today,omitempty"`
	PointsThisWeek    *int                        `json:"points_this_week,omitempty"`
	PointsThisMonth   *int                        `json:"points_this_month,omitempty"`
	PointsThisYear    *int                        `json:"points_this_year,omitempty"`
	TotalPointsEarned *int                        `json:"total_points_earned,omitempty"`
	CategoryBreakdown []repository.CategoryPoints `json:"category_breakdown,omitempty"`
}

// SeriesPoint is one bucket of a time series, oldest first in the slice.
type SeriesPoint struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// CompletionEntry is one row of the completion history view.
type CompletionEntry struct {
	ID           uuid.UUID `json:"id"`
	TaskID       uuid.UUID `json:"task_id"`
	TaskTitle    string    `json:"task_title"`
	Category     *string   `json:"category"`
	EffortPoints int       `json:"effort_points"`
	CompletedAt  time.Time `json:"completed_at"`
}

// DailyPoints returns the user's points for the day containing date.
func (s *AnalyticsService) DailyPoints(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	start, end := period.Day(date)
	return s.completionRepo.PointsForPeriod(ctx, userID, start, end)
}

// WeeklyPoints returns the user's points for the week containing date.
func (s *AnalyticsService) WeeklyPoints(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	start, end := period.Week(date)
	return s.completionRepo.PointsForPeriod(ctx, userID, start, end)
}

// MonthlyPoints returns the user's points for the month containing date.
func (s *AnalyticsService) MonthlyPoints(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	start, end := period.Month(date)
	return s.completionRepo.PointsForPeriod(ctx, userID, start, end)
}

// YearlyPoints returns the user's points for the year containing date.
func (s *AnalyticsService) YearlyPoints(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	start, end := period.Year(date)
	return s.completionRepo.PointsForPeriod(ctx, userID, start, end)
}

func (s *AnalyticsService) effortPoints(ctx context.Context, userID uuid.UUID, today time.Time) (EffortPoints, error) {
	var ep EffortPoints
	var err error

	if ep.Today, err = s.DailyPoints(ctx, userID, today); err != nil {
		return ep, err
	}
	if ep.ThisWeek, err = s.WeeklyPoints(ctx, userID, today); err != nil {
		return ep, err
	}
	if ep.ThisMonth, err = s.MonthlyPoints(ctx, userID, today); err != nil {
		return ep, err
	}
	ep.ThisYear, err = s.YearlyPoints(ctx, userID, today)
	return ep, err
}

// Dashboard builds the overview for the given reference date: counts by
// status, points per period, tasks due within the next 7 days, and overdue
// tasks.
func (s *AnalyticsService) Dashboard(ctx context.Context, userID uuid.UUID, today time.Time) (*Dashboard, error) {
	dayStart, dayEnd := period.Day(today)

	todo, err := s.taskRepo.CountByStatus(ctx, userID, model.StatusTodo)
	if err != nil {
		return nil, err
	}
	inProgress, err := s.taskRepo.CountByStatus(ctx, userID, model.StatusInProgress)
	if err != nil {
		return nil, err
	}
	completedToday, err := s.taskRepo.CountCompletedBetween(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	points, err := s.effortPoints(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.taskRepo.Upcoming(ctx, userID, dayStart, dayStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}
	overdue, err := s.taskRepo.Overdue(ctx, userID, dayStart)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		EffortPoints: points,
		TaskCounts: TaskCounts{
			Todo:           todo,
			InProgress:     inProgress,
			CompletedToday: completedToday,
		},
		UpcomingTasks: upcoming,
		OverdueTasks:  overdue,
	}, nil
}

// PeriodSummary builds the effort-points payload for one of
// today/week/month/year/all. "all" includes every period plus lifetime
// totals and the category breakdown.
func (s *AnalyticsService) PeriodSummary(ctx context.Context, userID uuid.UUID, periodName string, today time.Time) (*PeriodSummary, error) {
	switch periodName {
	case "today", "week", "month", "year", "all":
	case "":
		periodName = "all"
	default:
		return nil, ErrUnknownPeriod
	}

	totalTasks, err := s.taskRepo.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	completedTasks, err := s.taskRepo.CountByStatus(ctx, userID, model.StatusCompleted)
	if err != nil {
		return nil, err
	}

	summary := &PeriodSummary{
		Period:         periodName,
		TotalTasks:     totalTasks,
		CompletedTasks: completedTasks,
	}

	if periodName == "today" || periodName == "all" {
		points, err := s.DailyPoints(ctx, userID, today)
		if err != nil {
			return nil, err
		}
		summary.PointsToday = &points
	}
	if periodName == "week" || periodName == "all" {
		points, err := s.WeeklyPoints(ctx, userID, today)
		if err != nil {
			return nil, err
		}
		summary.PointsThisWeek = &points
	}
	if periodName == "month" || periodName == "all" {
		points, err := s.MonthlyPoints(ctx, userID, today)
		if err != nil {
			return nil, err
		}
		summary.PointsThisMonth = &points
	}
	if periodName == "year" || periodName == "all" {
		points, err := s.YearlyPoints(ctx, userID, today)
		if err != nil {
			return nil, err
		}
		summary.PointsThisYear = &points
	}

	if periodName == "all" {
		total, err := s.completionRepo.TotalPoints(ctx, userID)
		if err != nil {
			return nil, err
		}
		summary.TotalPointsEarned = &total

		breakdown, err := s.completionRepo.CategoryBreakdown(ctx, userID)
		if err != nil {
			return nil, err
		}
		summary.CategoryBreakdown = breakdown
	}

	return summary, nil
}

// CategoryBreakdown returns all-time points grouped by category name,
// highest total first.
func (s *AnalyticsService) CategoryBreakdown(ctx context.Context, userID uuid.UUID) ([]repository.CategoryPoints, error) {
	return s.completionRepo.CategoryBreakdown(ctx, userID)
}

// DailySeries returns one point total per day for the given number of days
// ending today, oldest first.
func (s *AnalyticsService) DailySeries(ctx context.Context, userID uuid.UUID, today time.Time, days int) ([]SeriesPoint, error) {
	series := make([]SeriesPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		points, err := s.DailyPoints(ctx, userID, date)
		if err != nil {
			return nil, err
		}
		series = append(series, SeriesPoint{Label: date.Format("01/02"), Points: points})
	}
	return series, nil
}

// WeeklySeries returns one point total per week for the given number of
// weeks ending this week, oldest first, labeled by week start.
func (s *AnalyticsService) WeeklySeries(ctx context.Context, userID uuid.UUID, today time.Time, weeks int) ([]SeriesPoint, error) {
	series := make([]SeriesPoint, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -7*i)
		points, err := s.WeeklyPoints(ctx, userID, date)
		if err != nil {
			return nil, err
		}
		weekStart, _ := period.Week(date)
		series = append(series, SeriesPoint{Label: weekStart.Format("01/02"), Points: points})
	}
	return series, nil
}

// MonthlySeries returns one point total per month for the given number of
// months ending this month, oldest first.
func (s *AnalyticsService) MonthlySeries(ctx context.Context, userID uuid.UUID, today time.Time, months int) ([]SeriesPoint, error) {
	monthStart, _ := period.Month(today)
	series := make([]SeriesPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		date := monthStart.AddDate(0, -i, 0)
		points, err := s.MonthlyPoints(ctx, userID, date)
		if err != nil {
			return nil, err
		}
		series = append(series, SeriesPoint{Label: date.Format("Jan 2006"), Points: points})
	}
	return series, nil
}

// CompletionHistory returns the user's most recent completions with task
// and category context, newest first.
func (s *AnalyticsService) CompletionHistory(ctx context.Context, userID uuid.UUID, limit int) ([]CompletionEntry, error) {
	completions, err := s.completionRepo.Recent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]CompletionEntry, 0, len(completions))
	for _, c := range completions {
		entry := CompletionEntry{
			ID:           c.ID,
			TaskID:       c.TaskID,
			TaskTitle:    c.Task.Title,
			EffortPoints: c.EffortPoints,
			CompletedAt:  c.CompletedAt,
		}
		if c.Task.Category != nil {
			name := c.Task.Category.Name
			entry.Category = &name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
