package services

import (
	"context"
	"errors"
	"fmt"
	"route-order-service/internal/domain"
	"route-order-service/internal/platform/obs"
	"route-order-service/internal/ports"
	"strings"
	"time"
)

type PlanRequest struct {
	// Raw address lines; the first one is the depot.
	Labels      []string
	APILimit    int
	Concurrency int
	Now         func() time.Time
}

// PlanRoutes runs the full pipeline for one set of addresses.
//
// The matrices are built once and then frozen; the distance and duration
// solves share nothing but those read-only matrices.
func PlanRoutes(
	ctx context.Context,
	req PlanRequest,
	provider ports.MatrixProvider,
) (_ *domain.TourPlan, err error) {
	defer obs.Time(ctx, "plan.Routes")(&err)

	labels := make([]string, 0, len(req.Labels))
	for i, l := range req.Labels {
		l = strings.TrimSpace(l)
		if l == "" {
			return nil, fmt.Errorf("plan routes: %w: address %d is empty", domain.ErrPrecondition, i+1)
		}
		labels = append(labels, l)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("plan routes: %w: at least one address is required", domain.ErrPrecondition)
	}

	locations := domain.NewLocations(labels)

	apiLimit := req.APILimit
	if apiLimit == 0 {
		apiLimit = DefaultAPILimit
	}

	distM, durM, err := BuildMatrices(ctx, provider, locations, MatrixOptions{
		APILimit:    apiLimit,
		Concurrency: req.Concurrency,
	})
	if err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	const depot = 0

	distRoute, err := SolveCheapestArc(distM, depot)
	if err != nil {
		return nil, fmt.Errorf("plan routes: distance: %w", err)
	}
	durRoute, err := SolveCheapestArc(durM, depot)
	if err != nil {
		return nil, fmt.Errorf("plan routes: duration: %w", err)
	}

	distSummary, err := Summarize(domain.DistanceRouteTitle, distRoute, distM, durM, labels)
	if err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}
	durSummary, err := Summarize(domain.DurationRouteTitle, durRoute, durM, distM, labels)
	if err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	now := time.Now
	if req.Now != nil {
		now = req.Now
	}

	return &domain.TourPlan{
		CreatedAt: now().UTC(),
		Locations: locations,
		Distance:  distSummary,
		Duration:  durSummary,
	}, nil
}

// IsClientError reports whether err was caused by the caller's input
// rather than by the matrix service or the process.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrPrecondition) || errors.Is(err, domain.ErrConfiguration)
}
