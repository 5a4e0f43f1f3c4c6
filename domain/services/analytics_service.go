package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/cold-17/smart-todo-app-sub000/domain/dto"
)

type AnalyticsService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*dto.AnalyticsSummary, error)
}
