package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-order-service/internal/domain"
	"route-order-service/internal/platform/obs"

	"github.com/jackc/pgx/v5/pgtype"
)

// Postgres-backed implementation of the PlanRepository port.
// Array columns are scanned through pgx's type map.
type PGPlanRepository struct {
	DB    *sql.DB
	types *pgtype.Map
}

func NewPGPlanRepository(db *sql.DB) *PGPlanRepository {
	return &PGPlanRepository{DB: db, types: pgtype.NewMap()}
}

// Store a plan and return the generated plan_id.
func (r *PGPlanRepository) SavePlan(ctx context.Context, plan *domain.TourPlan) (_ int64, err error) {
	defer obs.Time(ctx, "plans.Save")(&err)

	if r.DB == nil {
		return 0, errors.New("pg plan repository: DB is nil")
	}
	if plan == nil {
		return 0, errors.New("save plan: plan is nil")
	}

	q := `
	INSERT INTO route_plans (
		created_at,
		labels,
		distance_order,
		distance_route_distance,
		distance_route_duration,
		duration_order,
		duration_route_distance,
		duration_route_duration
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING plan_id;
	`

	var id int64
	err = r.DB.QueryRowContext(
		ctx, q,
		plan.CreatedAt,
		domain.Labels(plan.Locations),
		[]int(plan.Distance.Order),
		plan.Distance.TotalDistance,
		plan.Distance.TotalDuration,
		[]int(plan.Duration.Order),
		plan.Duration.TotalDistance,
		plan.Duration.TotalDuration,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save plan: insert route_plans: %w", err)
	}

	return id, nil
}

// Return up to limit plans, newest first.
func (r *PGPlanRepository) ListPlans(ctx context.Context, limit int) (_ []*domain.TourPlan, err error) {
	defer obs.Time(ctx, "plans.List")(&err)

	if r.DB == nil {
		return nil, errors.New("pg plan repository: DB is nil")
	}
	if limit <= 0 {
		limit = 20
	}

	q := `
	SELECT
		plan_id,
		created_at,
		labels,
		distance_order,
		distance_route_distance,
		distance_route_duration,
		duration_order,
		duration_route_distance,
		duration_route_duration
	FROM route_plans
	ORDER BY created_at DESC, plan_id DESC
	LIMIT $1;
	`

	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list plans: query route_plans table: %w", err)
	}
	defer rows.Close()

	plans := make([]*domain.TourPlan, 0, limit)
	for rows.Next() {
		var p domain.TourPlan
		var labels []string
		var distOrder, durOrder []int

		err := rows.Scan(
			&p.PlanID,
			&p.CreatedAt,
			r.types.SQLScanner(&labels),
			r.types.SQLScanner(&distOrder),
			&p.Distance.TotalDistance,
			&p.Distance.TotalDuration,
			r.types.SQLScanner(&durOrder),
			&p.Duration.TotalDistance,
			&p.Duration.TotalDuration,
		)
		if err != nil {
			return nil, fmt.Errorf("list plans: scan row: %w", err)
		}

		p.Locations = domain.NewLocations(labels)
		if err := fillSummary(&p.Distance, domain.DistanceRouteTitle, domain.MetricDistance, distOrder, labels); err != nil {
			return nil, fmt.Errorf("list plans: plan_id=%d: %w", p.PlanID, err)
		}
		if err := fillSummary(&p.Duration, domain.DurationRouteTitle, domain.MetricDuration, durOrder, labels); err != nil {
			return nil, fmt.Errorf("list plans: plan_id=%d: %w", p.PlanID, err)
		}

		plans = append(plans, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: row iteration: %w", err)
	}

	return plans, nil
}

// fillSummary restores the non-persisted parts of a summary from its order.
func fillSummary(s *domain.RouteSummary, title string, metric domain.Metric, order []int, labels []string) error {
	s.Title = title
	s.OptimizedFor = metric
	s.Order = domain.Route(order)
	s.Stops = make([]string, 0, len(order))
	for _, idx := range order {
		if idx < 0 || idx >= len(labels) {
			return fmt.Errorf("stored route index %d out of range", idx)
		}
		s.Stops = append(s.Stops, labels[idx])
	}
	return nil
}
