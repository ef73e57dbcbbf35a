package services

import (
	"fmt"
	"route-order-service/internal/domain"
	"strings"
)

// DefaultDistanceUnit is the label printed after distance totals.
// The value itself is the provider's native integer unit.
const DefaultDistanceUnit = "miles"

// Summarize walks route once and totals both matrices along the same arcs.
//
// primary is the metric the route was optimized for; secondary is scored
// along the identical path so the two routes can be compared on both metrics.
func Summarize(
	title string,
	route domain.Route,
	primary domain.CostMatrix,
	secondary domain.CostMatrix,
	labels []string,
) (domain.RouteSummary, error) {
	if err := checkMetrics(primary.Metric, secondary.Metric); err != nil {
		return domain.RouteSummary{}, fmt.Errorf("summarize route: %w", err)
	}

	n := primary.Size()
	if secondary.Size() != n {
		return domain.RouteSummary{}, fmt.Errorf(
			"summarize route: %w: %s matrix is %d wide, %s matrix is %d wide",
			domain.ErrPrecondition, primary.Metric, n, secondary.Metric, secondary.Size(),
		)
	}
	if len(labels) != n {
		return domain.RouteSummary{}, fmt.Errorf(
			"summarize route: %w: %d labels for %d locations",
			domain.ErrPrecondition, len(labels), n,
		)
	}
	if len(route) == 0 {
		return domain.RouteSummary{}, fmt.Errorf("summarize route: %w: route is empty", domain.ErrPrecondition)
	}
	if err := route.Validate(n, route[0]); err != nil {
		return domain.RouteSummary{}, fmt.Errorf("summarize route: %w", err)
	}

	var primaryTotal, secondaryTotal int
	stops := make([]string, 0, len(route))
	for k, idx := range route {
		stops = append(stops, labels[idx])
		if k+1 < len(route) {
			primaryTotal += primary.Cost(idx, route[k+1])
			secondaryTotal += secondary.Cost(idx, route[k+1])
		}
	}

	s := domain.RouteSummary{
		Title:        title,
		OptimizedFor: primary.Metric,
		Order:        route,
		Stops:        stops,
	}
	if primary.Metric == domain.MetricDistance {
		s.TotalDistance, s.TotalDuration = primaryTotal, secondaryTotal
	} else {
		s.TotalDistance, s.TotalDuration = secondaryTotal, primaryTotal
	}
	return s, nil
}

// checkMetrics requires one distance and one duration matrix, in either order.
func checkMetrics(primary, secondary domain.Metric) error {
	for _, m := range []domain.Metric{primary, secondary} {
		if m != domain.MetricDistance && m != domain.MetricDuration {
			return fmt.Errorf("%w: unknown matrix metric %q", domain.ErrPrecondition, m)
		}
	}
	if primary == secondary {
		return fmt.Errorf("%w: both matrices measure %s", domain.ErrPrecondition, primary)
	}
	return nil
}

// Render formats a summary as the plain-text console block.
func Render(s domain.RouteSummary, distanceUnit string) string {
	if distanceUnit == "" {
		distanceUnit = DefaultDistanceUnit
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", s.Title)
	fmt.Fprintf(&b, " %s\n", strings.Join(s.Stops, " -> "))
	fmt.Fprintf(&b, "Route distance: %d %s\n", s.TotalDistance, distanceUnit)
	fmt.Fprintf(&b, "Route duration: %s\n", FormatDuration(s.TotalDuration))
	return b.String()
}

// RenderPlan formats both routes of a plan, distance first.
func RenderPlan(p *domain.TourPlan, distanceUnit string) string {
	return Render(p.Distance, distanceUnit) + "\n" + Render(p.Duration, distanceUnit)
}

// FormatDuration renders seconds as H:MM:SS, prefixed with a day count
// once the span reaches 24 hours.
func FormatDuration(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}

	days := seconds / 86400
	rem := seconds % 86400
	clock := fmt.Sprintf("%d:%02d:%02d", rem/3600, rem%3600/60, rem%60)

	switch days {
	case 0:
		return sign + clock
	case 1:
		return fmt.Sprintf("%s1 day, %s", sign, clock)
	default:
		return fmt.Sprintf("%s%d days, %s", sign, days, clock)
	}
}
