package domain

import (
	"context"
	"time"
)

// DayCount is the number of public page views on one day.
type DayCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

// PageViewSummary is the owner-facing view analytics for an event.
type PageViewSummary struct {
	EventID string     `json:"event_id"`
	Total   int64      `json:"total"`
	Days    []DayCount `json:"days"`
}

// PageViewCounter records and summarizes public page views (infrastructure
// port, typically redis-backed). Recording is best-effort: implementations
// drop counts rather than fail a render.
type PageViewCounter interface {
	Record(ctx context.Context, eventID string, at time.Time) error
	Summary(ctx context.Context, eventID string, days int, now time.Time) (*PageViewSummary, error)
}

// AnalyticsService exposes page-view analytics to event owners.
type AnalyticsService interface {
	Views(ctx context.Context, eventID, callerID string, days int) (*PageViewSummary, error)
}
