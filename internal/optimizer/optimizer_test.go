package optimizer

import (
	"testing"

	"github.com/cyrizon/tollroute/internal/domain"
)

func TestFindSubstituteWithinWindow(t *testing.T) {
	route := domain.RouteProbe{Polyline: []domain.Point{
		{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 2, Lat: 0}, {Lon: 3, Lat: 0},
	}}
	booths := []domain.TollBooth{
		{ID: "prev", Point: domain.Point{Lon: 0, Lat: 0}},
		{ID: "target", Point: domain.Point{Lon: 3, Lat: 0}},
		{ID: "ramp-booth", Point: domain.Point{Lon: 2.98, Lat: 0.0001}},
	}
	ramps := []domain.CompleteRamp{
		{ID: "r1", Type: domain.RampEntry, Booth: domain.BoothHandle(2), Polyline: []domain.Point{{Lon: 2.98, Lat: 1}, {Lon: 2.98, Lat: 0.0001}}},
	}

	sub, found := FindSubstitute(route, ramps, booths, booths[0], booths[1], 0.0, 1.0, Params{SearchRadiusM: 5000, SegmentMaxM: 1000}, nil)

	if !found {
		t.Fatalf("expected a substitute to be found")
	}
	if sub.Booth.ID != "ramp-booth" {
		t.Fatalf("expected ramp-booth substitute, got %s", sub.Booth.ID)
	}
}

func TestFindSubstituteUsesEntryIndexWhenProvided(t *testing.T) {
	route := domain.RouteProbe{Polyline: []domain.Point{
		{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 2, Lat: 0}, {Lon: 3, Lat: 0},
	}}
	booths := []domain.TollBooth{
		{ID: "prev", Point: domain.Point{Lon: 0, Lat: 0}},
		{ID: "target", Point: domain.Point{Lon: 3, Lat: 0}},
		{ID: "ramp-booth", Point: domain.Point{Lon: 1.5, Lat: 0.0001}},
	}
	ramps := []domain.CompleteRamp{
		{ID: "r1", Type: domain.RampEntry, Booth: domain.BoothHandle(2), Polyline: []domain.Point{{Lon: 1.5, Lat: 1}, {Lon: 1.5, Lat: 0.0001}}},
	}
	idx := BuildEntryIndex(ramps, booths, 0.05)

	sub, found := FindSubstitute(route, ramps, booths, booths[0], booths[1], 0.0, 1.0, Params{SearchRadiusM: 5000, SegmentMaxM: 1000}, idx)

	if !found {
		t.Fatalf("expected a substitute to be found via the entry index")
	}
	if sub.Booth.ID != "ramp-booth" {
		t.Fatalf("expected ramp-booth substitute, got %s", sub.Booth.ID)
	}
}

func TestFindSubstituteRejectsOutsideRadius(t *testing.T) {
	route := domain.RouteProbe{Polyline: []domain.Point{{Lon: 0, Lat: 0}, {Lon: 3, Lat: 0}}}
	booths := []domain.TollBooth{
		{ID: "prev", Point: domain.Point{Lon: 0, Lat: 0}},
		{ID: "target", Point: domain.Point{Lon: 3, Lat: 0}},
		{ID: "far", Point: domain.Point{Lon: 1.5, Lat: 5.0}},
	}
	ramps := []domain.CompleteRamp{
		{ID: "r1", Type: domain.RampEntry, Booth: domain.BoothHandle(2), Polyline: []domain.Point{{Lon: 1.5, Lat: 5.0}, {Lon: 1.6, Lat: 5.0}}},
	}

	_, found := FindSubstitute(route, ramps, booths, booths[0], booths[1], 0.0, 1.0, Params{SearchRadiusM: 5000, SegmentMaxM: 1000}, nil)

	if found {
		t.Fatalf("expected no substitute beyond search radius")
	}
}
