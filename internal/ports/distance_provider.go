package ports

// Distance and travel duration for one origin -> destination element.
// Missing is set when the service returned no usable value for the pair.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
	Missing         bool
}
