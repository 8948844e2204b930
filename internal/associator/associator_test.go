package associator

import (
	"testing"

	"github.com/cyrizon/tollroute/internal/domain"
)

func TestAssociateMatchesWithinThreshold(t *testing.T) {
	booths := []domain.TollBooth{
		{ID: "b1", Point: domain.Point{Lon: 2.0, Lat: 48.0}, Operator: "APRR"},
	}
	ramps := []domain.CompleteRamp{
		{ID: "r1", Polyline: []domain.Point{{Lon: 1.9, Lat: 48.0}, {Lon: 2.1, Lat: 48.0}}},
	}

	out := Associate(booths, ramps, Params{BBoxMarginDeg: 0.02, MaxDistanceM: 2.0})

	if !out[0].Booth.Valid() {
		t.Fatalf("expected booth to be associated")
	}
	if out[0].Booth != domain.BoothHandle(0) {
		t.Fatalf("expected booth handle 0, got %d", out[0].Booth)
	}
}

func TestAssociateRespectsDistanceThreshold(t *testing.T) {
	booths := []domain.TollBooth{
		{ID: "b1", Point: domain.Point{Lon: 3.0, Lat: 48.0}, Operator: "APRR"},
	}
	ramps := []domain.CompleteRamp{
		{ID: "r1", Polyline: []domain.Point{{Lon: 1.9, Lat: 48.0}, {Lon: 2.1, Lat: 48.0}}},
	}

	out := Associate(booths, ramps, Params{BBoxMarginDeg: 0.02, MaxDistanceM: 2.0})

	if out[0].Booth.Valid() {
		t.Fatalf("expected no association beyond threshold")
	}
}

func TestAssociateResolvesConflictByShorterDistance(t *testing.T) {
	booths := []domain.TollBooth{
		{ID: "b1", Point: domain.Point{Lon: 2.0, Lat: 48.0}, Operator: "APRR"},
	}
	ramps := []domain.CompleteRamp{
		{ID: "far", Polyline: []domain.Point{{Lon: 1.99998, Lat: 48.00001}, {Lon: 2.00002, Lat: 48.00001}}},
		{ID: "near", Polyline: []domain.Point{{Lon: 1.999999, Lat: 48.0}, {Lon: 2.000001, Lat: 48.0}}},
	}

	out := Associate(booths, ramps, Params{BBoxMarginDeg: 0.02, MaxDistanceM: 2.0})

	if out[0].Booth.Valid() {
		t.Fatalf("expected the farther ramp to lose the booth")
	}
	if !out[1].Booth.Valid() {
		t.Fatalf("expected the nearer ramp to keep the booth")
	}
}
