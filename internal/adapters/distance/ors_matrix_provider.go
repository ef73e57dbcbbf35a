package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"route-order-service/internal/platform/obs"
	"route-order-service/internal/ports"
	"time"
)

// ORSMatrixProvider implements MatrixProvider using OpenRouteService.
//
// Addresses are geocoded first, then a single /v2/matrix call covers every
// origin against every destination. Transient HTTP failures are retried
// inside the provider; callers see either a complete response or an error.
//
// The provider is safe for concurrent use.
type ORSMatrixProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	country string
	retry   retryPolicy
}

type ORSOption func(*ORSMatrixProvider)

// WithORSBaseURL points the provider at another ORS deployment.
func WithORSBaseURL(u string) ORSOption { return func(o *ORSMatrixProvider) { o.baseURL = u } }

func WithORSHTTPClient(c *http.Client) ORSOption {
	return func(o *ORSMatrixProvider) { o.session = c }
}

// WithORSCountry restricts geocoding to an ISO country code; empty disables it.
func WithORSCountry(code string) ORSOption { return func(o *ORSMatrixProvider) { o.country = code } }

func withORSRetry(p retryPolicy) ORSOption { return func(o *ORSMatrixProvider) { o.retry = p } }

func NewORSMatrixProvider(apiKey string, opts ...ORSOption) (*ORSMatrixProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSMatrixProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
		country: "US",
		retry:   defaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// QueryMatrix returns distance (meters) and duration (seconds) for every
// origin -> destination pair. Pairs ORS cannot route come back as null and
// are reported as Missing.
func (o *ORSMatrixProvider) QueryMatrix(
	ctx context.Context,
	origins []string,
	destinations []string,
) (_ [][]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.QueryMatrix")(&err)

	if len(origins) == 0 || len(destinations) == 0 {
		return nil, errors.New("ORS query matrix: origins and destinations must be non-empty")
	}

	all := make([]string, 0, len(origins)+len(destinations))
	all = append(all, origins...)
	all = append(all, destinations...)

	coords, err := o.geocodeMany(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("ORS query matrix: retrieving coordinates: %w", err)
	}

	// ORS indexes sources and destinations into one locations list;
	// each distinct address is sent once.
	index := make(map[string]int, len(coords))
	locations := make([][]float64, 0, len(coords))
	indexOf := func(a string) int {
		if i, ok := index[a]; ok {
			return i
		}
		index[a] = len(locations)
		locations = append(locations, coords[a].list())
		return index[a]
	}

	sources := make([]int, len(origins))
	for i, a := range origins {
		sources[i] = indexOf(a)
	}
	dests := make([]int, len(destinations))
	for i, a := range destinations {
		dests[i] = indexOf(a)
	}

	mr, err := o.fetchMatrix(ctx, matrixRequest{
		Locations:    locations,
		Sources:      sources,
		Destinations: dests,
		Metrics:      []string{"distance", "duration"},
	})
	if err != nil {
		return nil, fmt.Errorf("ORS query matrix: %w", err)
	}

	if len(mr.Distances) != len(origins) || len(mr.Durations) != len(origins) {
		return nil, fmt.Errorf(
			"ORS query matrix: expected %d source rows; got distances=%d durations=%d",
			len(origins), len(mr.Distances), len(mr.Durations),
		)
	}

	out := make([][]ports.DistanceResult, len(origins))
	for i := range origins {
		rowDistances := mr.Distances[i]
		rowDurations := mr.Durations[i]
		if len(rowDistances) != len(destinations) || len(rowDurations) != len(destinations) {
			return nil, fmt.Errorf(
				"ORS query matrix: row %d lengths do not match destinations: distances=%d durations=%d destinations=%d",
				i, len(rowDistances), len(rowDurations), len(destinations),
			)
		}

		row := make([]ports.DistanceResult, len(destinations))
		for j := range destinations {
			metersPtr := rowDistances[j]
			secondsPtr := rowDurations[j]
			if metersPtr == nil || secondsPtr == nil {
				row[j] = ports.DistanceResult{Missing: true}
				continue
			}

			// ORS returns float metrics; round to nearest integer for domain consistency.
			row[j] = ports.DistanceResult{
				DistanceMeters:  int(math.Round(*metersPtr)),
				DurationSeconds: int(math.Round(*secondsPtr)),
			}
		}
		out[i] = row
	}

	return out, nil
}

func (o *ORSMatrixProvider) fetchMatrix(ctx context.Context, body matrixRequest) (*matrixResponse, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	return &mr, nil
}
