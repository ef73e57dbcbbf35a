package services

import (
	"context"
	"log"
	"route-order-service/internal/domain"
	"route-order-service/internal/ports"
)

// PublishPlan hands a finished plan to every sink.
// Sink failures are logged and do not fail the plan; the caller already has
// a complete result.
func PublishPlan(ctx context.Context, sinks []ports.PlanSink, plan *domain.TourPlan, distanceUnit string) int {
	if len(sinks) == 0 {
		return 0
	}

	report := RenderPlan(plan, distanceUnit)
	failed := 0
	for _, s := range sinks {
		if err := s.Publish(ctx, plan, report); err != nil {
			failed++
			log.Printf("plan sink publish failed: plan_id=%d err=%v", plan.PlanID, err)
		}
	}
	return failed
}
