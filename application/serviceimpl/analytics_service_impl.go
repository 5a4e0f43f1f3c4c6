package serviceimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cold-17/smart-todo-app-sub000/domain/dto"
	"github.com/cold-17/smart-todo-app-sub000/domain/repositories"
	"github.com/cold-17/smart-todo-app-sub000/domain/services"
	"github.com/cold-17/smart-todo-app-sub000/infrastructure/redis"
	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
)

// summaryCacheTTL bounds how stale a cached summary can get; writes do not
// invalidate it.
const summaryCacheTTL = time.Minute

type AnalyticsServiceImpl struct {
	taskRepo repositories.TaskRepository
	cache    *redis.Client
	now      func() time.Time
}

func NewAnalyticsService(taskRepo repositories.TaskRepository, cache *redis.Client) services.AnalyticsService {
	return &AnalyticsServiceImpl{
		taskRepo: taskRepo,
		cache:    cache,
		now:      time.Now,
	}
}

func (s *AnalyticsServiceImpl) Summary(ctx context.Context, userID uuid.UUID) (*dto.AnalyticsSummary, error) {
	cacheKey := fmt.Sprintf("analytics:summary:%s", userID)
	if s.cache != nil {
		var cached dto.AnalyticsSummary
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	summary, err := s.buildSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, summary, summaryCacheTTL); err != nil {
			logger.WarnContext(ctx, "Failed to cache analytics summary", "user_id", userID, "error", err)
		}
	}

	return summary, nil
}

func (s *AnalyticsServiceImpl) buildSummary(ctx context.Context, userID uuid.UUID) (*dto.AnalyticsSummary, error) {
	now := s.now()

	total, err := s.taskRepo.CountAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed, err := s.taskRepo.CountByCompletion(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	overdue, err := s.taskRepo.CountOverdue(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	activeRecurring, err := s.taskRepo.CountActiveRecurring(ctx, userID)
	if err != nil {
		return nil, err
	}

	byCategory, err := s.taskRepo.GroupByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}

	byPriority, err := s.taskRepo.GroupByPriority(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &dto.AnalyticsSummary{
		TotalTasks:      total,
		CompletedTasks:  completed,
		OverdueTasks:    overdue,
		ActiveRecurring: activeRecurring,
		ByCategory:      make(map[string]int64, len(byCategory)),
		ByPriority:      make(map[string]int64, len(byPriority)),
	}
	if total > 0 {
		summary.CompletionRate = float64(completed) / float64(total)
	}
	for _, row := range byCategory {
		summary.ByCategory[row.Key] = row.Count
	}
	for _, row := range byPriority {
		summary.ByPriority[row.Key] = row.Count
	}

	summary.CompletedByDay, err = s.completedLastWeek(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// completedLastWeek returns one entry per day for the trailing 7 days,
// oldest first, with zero-filled gaps.
func (s *AnalyticsServiceImpl) completedLastWeek(ctx context.Context, userID uuid.UUID, now time.Time) ([]dto.DayCount, error) {
	start := now.UTC().AddDate(0, 0, -6)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	rows, err := s.taskRepo.CompletedPerDay(ctx, userID, start)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int64, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row.Count
	}

	days := make([]dto.DayCount, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		days[i] = dto.DayCount{Date: day, Count: byDay[day]}
	}
	return days, nil
}
