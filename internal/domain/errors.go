package domain

import "errors"

// Error kinds surfaced by matrix construction and route solving.
// Callers match them with errors.Is; none of them are retried.
var (
	// The per-request element cap cannot serve the location count.
	ErrConfiguration = errors.New("configuration error")

	// The distance matrix service failed or returned an incomplete response.
	ErrService = errors.New("service error")

	// Invalid input: empty location list, mismatched dimensions, bad depot.
	ErrPrecondition = errors.New("precondition error")
)
