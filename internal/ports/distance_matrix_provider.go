package ports

import "context"

// Contract for a pairwise distance matrix service.
type MatrixProvider interface {
	// Return one row per origin, each holding one element per destination,
	// both in request order.
	QueryMatrix(ctx context.Context, origins []string, destinations []string) ([][]DistanceResult, error)
}
