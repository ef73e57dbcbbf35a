package dto

import (
	"route-order-service/internal/domain"
	"route-order-service/internal/services"
	"time"
)

type PlanRequest struct {
	Addresses []string `json:"addresses"`
	APILimit  int      `json:"api_limit"`
}

type LocationResponse struct {
	Index   int    `json:"index"`
	Label   string `json:"label"`
	Address string `json:"address"`
}

type RouteResponse struct {
	OptimizedFor      string   `json:"optimized_for"`
	Order             []int    `json:"order"`
	Stops             []string `json:"stops"`
	TotalDistance     int      `json:"total_distance"`
	TotalDuration     int      `json:"total_duration_seconds"`
	TotalDurationText string   `json:"total_duration"`
}

type PlanResponse struct {
	PlanID        int64              `json:"plan_id,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	Locations     []LocationResponse `json:"locations"`
	DistanceRoute RouteResponse      `json:"distance_route"`
	DurationRoute RouteResponse      `json:"duration_route"`
}

type ListPlanResponse struct {
	Plans []PlanResponse `json:"plans"`
}

func FromPlan(p *domain.TourPlan) PlanResponse {
	locs := make([]LocationResponse, 0, len(p.Locations))
	for _, l := range p.Locations {
		locs = append(locs, LocationResponse{Index: l.Index, Label: l.Label, Address: l.Address})
	}

	return PlanResponse{
		PlanID:        p.PlanID,
		CreatedAt:     p.CreatedAt,
		Locations:     locs,
		DistanceRoute: fromSummary(p.Distance),
		DurationRoute: fromSummary(p.Duration),
	}
}

func fromSummary(s domain.RouteSummary) RouteResponse {
	return RouteResponse{
		OptimizedFor:      string(s.OptimizedFor),
		Order:             []int(s.Order),
		Stops:             s.Stops,
		TotalDistance:     s.TotalDistance,
		TotalDuration:     s.TotalDuration,
		TotalDurationText: services.FormatDuration(s.TotalDuration),
	}
}
