package domain

import "strings"

// A single stop supplied by the user.
// Index is the stop's position in the input order; index 0 is the depot.
// Locations are created once and never modified.
type Location struct {
	Index   int
	Label   string
	Address string
}

// Build locations from raw user input, preserving order.
func NewLocations(labels []string) []Location {
	out := make([]Location, 0, len(labels))
	for i, l := range labels {
		out = append(out, Location{
			Index:   i,
			Label:   l,
			Address: NormalizeAddress(l),
		})
	}
	return out
}

// NormalizeAddress collapses runs of whitespace into single spaces.
func NormalizeAddress(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Return the geocodable address of every location, in index order.
func Addresses(locs []Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.Address
	}
	return out
}

// Return the display label of every location, in index order.
func Labels(locs []Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.Label
	}
	return out
}
