package distance

import (
	"context"
	"route-order-service/internal/ports"
	"sync"
)

type MockPair struct {
	From, To string
	Meters   int
	Seconds  int
}

// MockMatrixProvider answers matrix queries from a fixed pair table.
// Unknown off-diagonal pairs come back as Missing; a location to itself is 0.
// It records every request so tests can inspect batching.
type MockMatrixProvider struct {
	m map[string]ports.DistanceResult

	mu    sync.Mutex
	calls [][]string
	Err   error
}

func NewMockMatrixProvider(pairs []MockPair) *MockMatrixProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockMatrixProvider{m: m}
}

// NewMockMatrixProviderFromMatrices builds a provider from square distance and
// duration tables indexed like addresses.
func NewMockMatrixProviderFromMatrices(addresses []string, dist, dur [][]int) *MockMatrixProvider {
	pairs := make([]MockPair, 0, len(addresses)*len(addresses))
	for i, from := range addresses {
		for j, to := range addresses {
			pairs = append(pairs, MockPair{From: from, To: to, Meters: dist[i][j], Seconds: dur[i][j]})
		}
	}
	return NewMockMatrixProvider(pairs)
}

func (p *MockMatrixProvider) QueryMatrix(
	ctx context.Context,
	origins []string,
	destinations []string,
) ([][]ports.DistanceResult, error) {
	p.mu.Lock()
	p.calls = append(p.calls, append([]string(nil), origins...))
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([][]ports.DistanceResult, 0, len(origins))
	for _, o := range origins {
		row := make([]ports.DistanceResult, 0, len(destinations))
		for _, d := range destinations {
			r, ok := p.m[o+"|"+d]
			if !ok {
				r = ports.DistanceResult{Missing: o != d}
			}
			row = append(row, r)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Calls returns the origin list of every request, in the order received.
func (p *MockMatrixProvider) Calls() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]string(nil), p.calls...)
}
