package services

import (
	"context"
	"errors"
	"fmt"
	"route-order-service/internal/adapters/distance"
	"route-order-service/internal/domain"
	"route-order-service/internal/ports"
	"slices"
	"testing"
)

// squareTables returns distance[i][j] = 100*i + j and duration = 10x that.
func squareTables(n int) ([]string, [][]int, [][]int) {
	addrs := make([]string, n)
	dist := make([][]int, n)
	dur := make([][]int, n)
	for i := 0; i < n; i++ {
		addrs[i] = fmt.Sprintf("Stop %d", i)
		dist[i] = make([]int, n)
		dur[i] = make([]int, n)
		for j := 0; j < n; j++ {
			if i != j {
				dist[i][j] = 100*i + j
				dur[i][j] = 10 * (100*i + j)
			}
		}
	}
	return addrs, dist, dur
}

func TestBatchRanges(t *testing.T) {
	got := BatchRanges(7, 2)
	want := []BatchRange{{0, 2}, {2, 4}, {4, 6}, {6, 7}}
	if !slices.Equal(got, want) {
		t.Fatalf("BatchRanges(7, 2) = %v, want %v", got, want)
	}

	if got := BatchRanges(6, 3); len(got) != 2 || got[1] != (BatchRange{3, 6}) {
		t.Fatalf("BatchRanges(6, 3) = %v", got)
	}
}

func TestMaxRows(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		limit   int
		want    int
		wantErr error
	}{
		{"seven of twenty", 7, 20, 2, nil},
		{"sixteen of hundred", 16, 100, 6, nil},
		{"exact fit", 10, 10, 1, nil},
		{"single location", 1, 1, 1, nil},
		{"over cap", 11, 10, 0, domain.ErrConfiguration},
		{"zero limit", 3, 0, 0, domain.ErrPrecondition},
		{"no locations", 0, 100, 0, domain.ErrPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MaxRows(tt.n, tt.limit)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("MaxRows(%d, %d) = %d, want %d", tt.n, tt.limit, got, tt.want)
			}
		})
	}
}

func TestBuildMatricesBatchesAreTransparent(t *testing.T) {
	for _, concurrency := range []int{1, 3} {
		t.Run(fmt.Sprintf("concurrency=%d", concurrency), func(t *testing.T) {
			addrs, dist, dur := squareTables(7)
			provider := distance.NewMockMatrixProviderFromMatrices(addrs, dist, dur)

			distM, durM, err := BuildMatrices(
				context.Background(),
				provider,
				domain.NewLocations(addrs),
				MatrixOptions{APILimit: 20, Concurrency: concurrency},
			)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			calls := provider.Calls()
			if len(calls) != 4 {
				t.Fatalf("queries = %d, want 4", len(calls))
			}
			sizes := make([]int, 0, len(calls))
			for _, c := range calls {
				sizes = append(sizes, len(c))
			}
			slices.Sort(sizes)
			if !slices.Equal(sizes, []int{1, 2, 2, 2}) {
				t.Fatalf("batch sizes = %v, want [1 2 2 2] in some order", sizes)
			}

			if distM.Size() != 7 || durM.Size() != 7 {
				t.Fatalf("sizes = %d/%d, want 7", distM.Size(), durM.Size())
			}
			for i := 0; i < 7; i++ {
				if !slices.Equal(distM.Cells[i], dist[i]) {
					t.Fatalf("distance row %d = %v, want %v", i, distM.Cells[i], dist[i])
				}
				if !slices.Equal(durM.Cells[i], dur[i]) {
					t.Fatalf("duration row %d = %v, want %v", i, durM.Cells[i], dur[i])
				}
			}
			if distM.Metric != domain.MetricDistance || durM.Metric != domain.MetricDuration {
				t.Fatalf("metrics = %q/%q", distM.Metric, durM.Metric)
			}
		})
	}
}

func TestBuildMatricesSequentialOrder(t *testing.T) {
	addrs, dist, dur := squareTables(5)
	provider := distance.NewMockMatrixProviderFromMatrices(addrs, dist, dur)

	_, _, err := BuildMatrices(context.Background(), provider, domain.NewLocations(addrs), MatrixOptions{APILimit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := provider.Calls()
	want := [][]string{addrs[0:2], addrs[2:4], addrs[4:5]}
	if len(calls) != len(want) {
		t.Fatalf("queries = %d, want %d", len(calls), len(want))
	}
	for i := range want {
		if !slices.Equal(calls[i], want[i]) {
			t.Fatalf("query %d origins = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestBuildMatricesConfigurationErrorSendsNothing(t *testing.T) {
	addrs, dist, dur := squareTables(5)
	provider := distance.NewMockMatrixProviderFromMatrices(addrs, dist, dur)

	_, _, err := BuildMatrices(context.Background(), provider, domain.NewLocations(addrs), MatrixOptions{APILimit: 4})
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	if n := len(provider.Calls()); n != 0 {
		t.Fatalf("queries = %d, want 0", n)
	}
}

func TestBuildMatricesEmptyLocations(t *testing.T) {
	provider := distance.NewMockMatrixProvider(nil)

	_, _, err := BuildMatrices(context.Background(), provider, nil, MatrixOptions{APILimit: 100})
	if !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("err = %v, want ErrPrecondition", err)
	}
}

func TestBuildMatricesNilProviderIsConfigurationError(t *testing.T) {
	locs := domain.NewLocations([]string{"A", "B"})

	_, _, err := BuildMatrices(context.Background(), nil, locs, MatrixOptions{APILimit: 100})
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestBuildMatricesMissingElement(t *testing.T) {
	provider := distance.NewMockMatrixProvider([]distance.MockPair{
		{From: "A", To: "B", Meters: 5, Seconds: 50},
	})

	_, _, err := BuildMatrices(
		context.Background(),
		provider,
		domain.NewLocations([]string{"A", "B"}),
		MatrixOptions{APILimit: 100},
	)
	if !errors.Is(err, domain.ErrService) {
		t.Fatalf("err = %v, want ErrService", err)
	}
}

func TestBuildMatricesProviderError(t *testing.T) {
	provider := distance.NewMockMatrixProvider(nil)
	provider.Err = errors.New("connection reset")

	distM, durM, err := BuildMatrices(
		context.Background(),
		provider,
		domain.NewLocations([]string{"A", "B", "C"}),
		MatrixOptions{APILimit: 3},
	)
	if !errors.Is(err, domain.ErrService) {
		t.Fatalf("err = %v, want ErrService", err)
	}
	if distM.Cells != nil || durM.Cells != nil {
		t.Fatal("no partial matrix may be returned on failure")
	}
}

type shortRowProvider struct{}

func (shortRowProvider) QueryMatrix(ctx context.Context, origins, destinations []string) ([][]ports.DistanceResult, error) {
	rows := make([][]ports.DistanceResult, len(origins))
	for i := range rows {
		rows[i] = make([]ports.DistanceResult, len(destinations)-1)
	}
	return rows, nil
}

func TestBuildMatricesMalformedResponse(t *testing.T) {
	_, _, err := BuildMatrices(
		context.Background(),
		shortRowProvider{},
		domain.NewLocations([]string{"A", "B"}),
		MatrixOptions{APILimit: 100},
	)
	if !errors.Is(err, domain.ErrService) {
		t.Fatalf("err = %v, want ErrService", err)
	}
}
