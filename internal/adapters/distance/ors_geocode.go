package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"route-order-service/internal/platform/obs"
)

// Immutable geographic coordinates (longitude, latitude).
type coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat], the order ORS expects.
func (c coordinates) list() []float64 { return []float64{c.Lon, c.Lat} }

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// geocodeMany resolves each distinct address using /geocode/search.
func (o *ORSMatrixProvider) geocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]coordinates, err error) {
	defer obs.Time(ctx, "ors.geocodeMany")(&err)

	endpoint := o.baseURL + "/geocode/search"

	out := make(map[string]coordinates, len(addresses))
	for _, a := range addresses {
		if _, ok := out[a]; ok {
			continue
		}

		c, err := o.geocode(ctx, endpoint, a)
		if err != nil {
			return nil, err
		}
		out[a] = c
	}

	return out, nil
}

func (o *ORSMatrixProvider) geocode(ctx context.Context, endpoint, address string) (coordinates, error) {
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", address)
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return coordinates{}, fmt.Errorf("decode geocode response for %q: %w", address, err)
	}

	if len(decoded.Features) == 0 {
		return coordinates{}, fmt.Errorf("no geocode results for %q", address)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return coordinates{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	return coordinates{Lon: coords[0], Lat: coords[1]}, nil
}
