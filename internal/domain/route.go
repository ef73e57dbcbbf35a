package domain

import (
	"fmt"
	"time"
)

// Route is a closed tour over location indices.
// It has length N+1, starts and ends at the depot, and visits every
// other location exactly once.
type Route []int

// Validate checks the closed-tour invariant for n locations.
func (r Route) Validate(n, depot int) error {
	if len(r) != n+1 {
		return fmt.Errorf("%w: route has %d entries, want %d", ErrPrecondition, len(r), n+1)
	}
	if r[0] != depot || r[n] != depot {
		return fmt.Errorf("%w: route must start and end at depot %d", ErrPrecondition, depot)
	}

	seen := make([]bool, n)
	for _, idx := range r[:n] {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: route index %d out of range [0,%d)", ErrPrecondition, idx, n)
		}
		if seen[idx] {
			return fmt.Errorf("%w: route visits location %d twice", ErrPrecondition, idx)
		}
		seen[idx] = true
	}

	return nil
}

// Cost sums the matrix cost of every arc along the route.
// The same route can be scored against any matrix of matching size.
func (r Route) Cost(m CostMatrix) int {
	total := 0
	for k := 0; k+1 < len(r); k++ {
		total += m.Cost(r[k], r[k+1])
	}
	return total
}

// Report headings for the two optimization targets.
const (
	DistanceRouteTitle = "Route based on shortest distance"
	DurationRouteTitle = "Route based on shortest duration"
)

// Reporting view of one solved route.
// Totals are always recorded per metric regardless of which metric
// the route was optimized for.
type RouteSummary struct {
	Title         string
	OptimizedFor  Metric
	Order         Route
	Stops         []string
	TotalDistance int
	TotalDuration int
}

// Represents the result of planning one set of addresses.
// It holds the distance-optimal and duration-optimal tours side by side.
type TourPlan struct {
	PlanID    int64
	CreatedAt time.Time
	Locations []Location
	Distance  RouteSummary
	Duration  RouteSummary
}
