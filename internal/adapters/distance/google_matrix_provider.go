package distance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"route-order-service/internal/platform/obs"
	"route-order-service/internal/ports"
	"time"

	"googlemaps.github.io/maps"
)

// distanceMatrixAPI is the subset of *maps.Client the provider uses.
type distanceMatrixAPI interface {
	DistanceMatrix(ctx context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error)
}

// GoogleMatrixProvider implements MatrixProvider using the Google Distance Matrix API.
// Addresses are passed through as free text; Google geocodes them server side.
type GoogleMatrixProvider struct {
	client distanceMatrixAPI
	mode   maps.Mode
	units  maps.Units
}

type GoogleOption func(*googleConfig)

type googleConfig struct {
	baseURL    string
	httpClient *http.Client
}

// WithGoogleBaseURL overrides the API host, mainly for tests and proxies.
func WithGoogleBaseURL(u string) GoogleOption { return func(c *googleConfig) { c.baseURL = u } }

func WithGoogleHTTPClient(h *http.Client) GoogleOption {
	return func(c *googleConfig) { c.httpClient = h }
}

func NewGoogleMatrixProvider(apiKey string, opts ...GoogleOption) (*GoogleMatrixProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	cfg := googleConfig{httpClient: &http.Client{Timeout: 10 * time.Second}}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(cfg.httpClient),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(cfg.baseURL))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create google maps client: %w", err)
	}

	return newGoogleMatrixProvider(client), nil
}

func newGoogleMatrixProvider(client distanceMatrixAPI) *GoogleMatrixProvider {
	return &GoogleMatrixProvider{
		client: client,
		mode:   maps.TravelModeDriving,
		units:  maps.UnitsImperial,
	}
}

// QueryMatrix issues one Distance Matrix request.
// Element values are meters and seconds regardless of the requested units;
// elements whose status is not OK are reported as Missing.
func (g *GoogleMatrixProvider) QueryMatrix(
	ctx context.Context,
	origins []string,
	destinations []string,
) (_ [][]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "google.QueryMatrix")(&err)

	if len(origins) == 0 || len(destinations) == 0 {
		return nil, errors.New("google query matrix: origins and destinations must be non-empty")
	}

	resp, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      origins,
		Destinations: destinations,
		Mode:         g.mode,
		Units:        g.units,
	})
	if err != nil {
		return nil, fmt.Errorf("google query matrix: %w", err)
	}

	if len(resp.Rows) != len(origins) {
		return nil, fmt.Errorf(
			"google query matrix: expected %d rows, got %d",
			len(origins), len(resp.Rows),
		)
	}

	out := make([][]ports.DistanceResult, len(resp.Rows))
	for i, r := range resp.Rows {
		if len(r.Elements) != len(destinations) {
			return nil, fmt.Errorf(
				"google query matrix: row %d has %d elements, want %d",
				i, len(r.Elements), len(destinations),
			)
		}

		row := make([]ports.DistanceResult, len(r.Elements))
		for j, el := range r.Elements {
			if el == nil || el.Status != "OK" {
				row[j] = ports.DistanceResult{Missing: true}
				continue
			}
			row[j] = ports.DistanceResult{
				DistanceMeters:  el.Distance.Meters,
				DurationSeconds: int(math.Round(el.Duration.Seconds())),
			}
		}
		out[i] = row
	}

	return out, nil
}
