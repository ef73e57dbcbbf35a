package distance

import (
	"context"
	"errors"
	"testing"
	"time"

	"googlemaps.github.io/maps"
)

type fakeDistanceMatrixAPI struct {
	resp *maps.DistanceMatrixResponse
	err  error
	got  *maps.DistanceMatrixRequest
}

func (f *fakeDistanceMatrixAPI) DistanceMatrix(
	ctx context.Context,
	r *maps.DistanceMatrixRequest,
) (*maps.DistanceMatrixResponse, error) {
	f.got = r
	return f.resp, f.err
}

func okElement(meters int, seconds int) *maps.DistanceMatrixElement {
	return &maps.DistanceMatrixElement{
		Status:   "OK",
		Distance: maps.Distance{Meters: meters},
		Duration: time.Duration(seconds) * time.Second,
	}
}

func TestGoogleQueryMatrix(t *testing.T) {
	fake := &fakeDistanceMatrixAPI{
		resp: &maps.DistanceMatrixResponse{
			Rows: []maps.DistanceMatrixElementsRow{
				{Elements: []*maps.DistanceMatrixElement{okElement(0, 0), okElement(1609, 120)}},
			},
		},
	}
	p := newGoogleMatrixProvider(fake)

	rows, err := p.QueryMatrix(context.Background(), []string{"Home"}, []string{"Home", "Shop"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fake.got.Units != maps.UnitsImperial {
		t.Errorf("units = %q, want imperial", fake.got.Units)
	}
	if len(fake.got.Origins) != 1 || len(fake.got.Destinations) != 2 {
		t.Errorf("request origins=%v destinations=%v", fake.got.Origins, fake.got.Destinations)
	}

	if rows[0][1].DistanceMeters != 1609 || rows[0][1].DurationSeconds != 120 {
		t.Fatalf("Home->Shop = %+v, want 1609m 120s", rows[0][1])
	}
}

func TestGoogleQueryMatrixElementStatus(t *testing.T) {
	fake := &fakeDistanceMatrixAPI{
		resp: &maps.DistanceMatrixResponse{
			Rows: []maps.DistanceMatrixElementsRow{
				{Elements: []*maps.DistanceMatrixElement{okElement(0, 0), {Status: "ZERO_RESULTS"}}},
			},
		},
	}

	rows, err := newGoogleMatrixProvider(fake).QueryMatrix(context.Background(), []string{"A"}, []string{"A", "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rows[0][1].Missing {
		t.Fatalf("ZERO_RESULTS element should be missing")
	}
}

func TestGoogleQueryMatrixShapeMismatch(t *testing.T) {
	fake := &fakeDistanceMatrixAPI{
		resp: &maps.DistanceMatrixResponse{
			Rows: []maps.DistanceMatrixElementsRow{{Elements: []*maps.DistanceMatrixElement{okElement(1, 1)}}},
		},
	}

	if _, err := newGoogleMatrixProvider(fake).QueryMatrix(context.Background(), []string{"A"}, []string{"A", "B"}); err == nil {
		t.Fatal("expected error for short row")
	}
}

func TestGoogleQueryMatrixTransportError(t *testing.T) {
	fake := &fakeDistanceMatrixAPI{err: errors.New("OVER_QUERY_LIMIT")}

	if _, err := newGoogleMatrixProvider(fake).QueryMatrix(context.Background(), []string{"A"}, []string{"A"}); err == nil {
		t.Fatal("expected error, got nil")
	}
}
