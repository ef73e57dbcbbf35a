package ports

import (
	"context"
	"route-order-service/internal/domain"
)

// Receives finished plans for delivery outside the service (message bus, object store).
type PlanSink interface {
	Publish(ctx context.Context, plan *domain.TourPlan, report string) error
}
