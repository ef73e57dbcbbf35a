package services

import (
	"context"
	"fmt"
	"route-order-service/internal/domain"
	"route-order-service/internal/platform/obs"
	"route-order-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

// DefaultAPILimit is the element cap of the Google Distance Matrix API.
const DefaultAPILimit = 100

type MatrixOptions struct {
	// Maximum origin×destination elements per provider request.
	APILimit int
	// Maximum batches in flight. Values below 1 mean sequential.
	Concurrency int
}

// A contiguous half-open range of origin rows sent in one request.
type BatchRange struct {
	Start int
	End   int
}

// Return the number of origin rows that fit in one request when every
// request carries all n destinations.
func MaxRows(n, apiLimit int) (int, error) {
	if apiLimit < 1 {
		return 0, fmt.Errorf("%w: api limit must be >= 1, got %d", domain.ErrPrecondition, apiLimit)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: location list must not be empty", domain.ErrPrecondition)
	}

	maxRows := apiLimit / n
	if maxRows == 0 {
		return 0, fmt.Errorf(
			"%w: %d locations exceed the per-request limit of %d elements",
			domain.ErrConfiguration, n, apiLimit,
		)
	}

	return maxRows, nil
}

// Split n origins into ceil(n/maxRows) batches; only the last may be shorter.
func BatchRanges(n, maxRows int) []BatchRange {
	if n <= 0 || maxRows <= 0 {
		return nil
	}

	out := make([]BatchRange, 0, (n+maxRows-1)/maxRows)
	for start := 0; start < n; start += maxRows {
		end := min(start+maxRows, n)
		out = append(out, BatchRange{Start: start, End: end})
	}
	return out
}

// BuildMatrices assembles the full distance and duration matrices for locations.
//
// Each batch queries a slice of origins against every location, so batching
// is invisible in the result: row i always belongs to locations[i]. Any failed
// or incomplete batch aborts the build and no matrix is returned.
func BuildMatrices(
	ctx context.Context,
	provider ports.MatrixProvider,
	locations []domain.Location,
	opts MatrixOptions,
) (distance domain.CostMatrix, duration domain.CostMatrix, err error) {
	defer obs.Time(ctx, "matrix.Build")(&err)

	if provider == nil {
		return domain.CostMatrix{}, domain.CostMatrix{}, fmt.Errorf("build matrices: %w: provider is nil", domain.ErrConfiguration)
	}

	n := len(locations)
	maxRows, err := MaxRows(n, opts.APILimit)
	if err != nil {
		return domain.CostMatrix{}, domain.CostMatrix{}, fmt.Errorf("build matrices: %w", err)
	}

	addresses := domain.Addresses(locations)
	batches := BatchRanges(n, maxRows)
	rows := make([][][]ports.DistanceResult, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))

	for bi, b := range batches {
		g.Go(func() error {
			res, err := provider.QueryMatrix(gctx, addresses[b.Start:b.End], addresses)
			if err != nil {
				return fmt.Errorf("%w: batch %d (origins %d-%d): %w", domain.ErrService, bi, b.Start, b.End-1, err)
			}
			if err := checkBatch(res, b, n); err != nil {
				return fmt.Errorf("batch %d: %w", bi, err)
			}

			// Each goroutine owns its slot; reassembly happens in batch order below.
			rows[bi] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.CostMatrix{}, domain.CostMatrix{}, fmt.Errorf("build matrices: %w", err)
	}

	distance = domain.CostMatrix{Metric: domain.MetricDistance, Cells: make([][]int, 0, n)}
	duration = domain.CostMatrix{Metric: domain.MetricDuration, Cells: make([][]int, 0, n)}
	for _, batch := range rows {
		for _, row := range batch {
			distRow := make([]int, n)
			durRow := make([]int, n)
			for j, el := range row {
				distRow[j] = el.DistanceMeters
				durRow[j] = el.DurationSeconds
			}
			distance.Cells = append(distance.Cells, distRow)
			duration.Cells = append(duration.Cells, durRow)
		}
	}

	return distance, duration, nil
}

// checkBatch rejects responses that do not cover every requested element.
func checkBatch(res [][]ports.DistanceResult, b BatchRange, n int) error {
	want := b.End - b.Start
	if len(res) != want {
		return fmt.Errorf("%w: expected %d rows, got %d", domain.ErrService, want, len(res))
	}

	for r, row := range res {
		origin := b.Start + r
		if len(row) != n {
			return fmt.Errorf(
				"%w: origin %d returned %d elements, want %d",
				domain.ErrService, origin, len(row), n,
			)
		}
		for j, el := range row {
			if el.Missing {
				return fmt.Errorf("%w: no distance/duration for %d -> %d", domain.ErrService, origin, j)
			}
			if el.DistanceMeters < 0 || el.DurationSeconds < 0 {
				return fmt.Errorf("%w: negative metrics for %d -> %d", domain.ErrService, origin, j)
			}
		}
	}

	return nil
}
