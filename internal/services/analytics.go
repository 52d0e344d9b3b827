package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventpages/internal/domain"
)

// DefaultAnalyticsDays is the summary window when the caller does not ask for one.
const DefaultAnalyticsDays = 30

type analyticsService struct {
	eventRepo      domain.EventRepository
	views          domain.PageViewCounter
	contextTimeout time.Duration
}

func NewAnalyticsService(eventRepo domain.EventRepository, views domain.PageViewCounter, timeout time.Duration) domain.AnalyticsService {
	return &analyticsService{
		eventRepo:      eventRepo,
		views:          views,
		contextTimeout: timeout,
	}
}

func (s *analyticsService) Views(ctx context.Context, eventID, callerID string, days int) (*domain.PageViewSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != callerID {
		return nil, domain.ErrForbidden
	}

	if days <= 0 {
		days = DefaultAnalyticsDays
	}
	summary, err := s.views.Summary(ctx, eventID, days, time.Now())
	if err != nil {
		return nil, fmt.Errorf("view summary: %w", err)
	}
	return summary, nil
}
