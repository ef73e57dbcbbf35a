package ports

import (
	"context"
	"route-order-service/internal/domain"
)

// Port: persistent history of planned tours.
type PlanRepository interface {
	// Store a plan and return its assigned id.
	SavePlan(ctx context.Context, plan *domain.TourPlan) (int64, error)
	// Return the most recent plans, newest first.
	ListPlans(ctx context.Context, limit int) ([]*domain.TourPlan, error)
}
