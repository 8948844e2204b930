package linker

import (
	"testing"

	"github.com/cyrizon/tollroute/internal/domain"
)

func pt(lon, lat float64) domain.Point { return domain.Point{Lon: lon, Lat: lat} }

func TestLinkChainsIndeterminateSegmentsAndAttachesEntry(t *testing.T) {
	// Two indeterminate segments that join head-to-tail, then an entry
	// segment continuing from the chain's end onto the motorway.
	indeterminate := []domain.RampSegment{
		{ID: "i2", Coordinates: []domain.Point{pt(1, 1), pt(2, 2)}, Role: domain.RoleIndeterminate},
		{ID: "i1", Coordinates: []domain.Point{pt(0, 0), pt(1, 1)}, Role: domain.RoleIndeterminate},
	}
	entries := []domain.RampSegment{
		{ID: "e1", Coordinates: []domain.Point{pt(2, 2), pt(3, 3)}, Role: domain.RoleEntry},
	}

	result := Link(entries, nil, indeterminate)

	if len(result.Ramps) != 1 {
		t.Fatalf("expected 1 ramp, got %d", len(result.Ramps))
	}
	ramp := result.Ramps[0]
	if ramp.Type != domain.RampEntry {
		t.Fatalf("expected entry ramp, got %s", ramp.Type)
	}
	wantIDs := []string{"i1", "i2", "e1"}
	if len(ramp.SegmentIDs) != len(wantIDs) {
		t.Fatalf("expected %d segment ids, got %v", len(wantIDs), ramp.SegmentIDs)
	}
	for i, id := range wantIDs {
		if ramp.SegmentIDs[i] != id {
			t.Fatalf("segment order mismatch: got %v want %v", ramp.SegmentIDs, wantIDs)
		}
	}
	if len(ramp.Polyline) != 4 {
		t.Fatalf("expected 4 polyline points, got %d", len(ramp.Polyline))
	}
	if len(result.OrphanChains) != 0 || len(result.OrphanSegments) != 0 {
		t.Fatalf("expected no orphans, got chains=%v segments=%v", result.OrphanChains, result.OrphanSegments)
	}
}

func TestLinkExitAttachesToChainStart(t *testing.T) {
	indeterminate := []domain.RampSegment{
		{ID: "i1", Coordinates: []domain.Point{pt(5, 5), pt(6, 6)}, Role: domain.RoleIndeterminate},
	}
	exits := []domain.RampSegment{
		{ID: "x1", Coordinates: []domain.Point{pt(4, 4), pt(5, 5)}, Role: domain.RoleExit},
	}

	result := Link(nil, exits, indeterminate)

	if len(result.Ramps) != 1 {
		t.Fatalf("expected 1 ramp, got %d", len(result.Ramps))
	}
	ramp := result.Ramps[0]
	if ramp.Type != domain.RampExit {
		t.Fatalf("expected exit ramp, got %s", ramp.Type)
	}
	if ramp.SegmentIDs[0] != "x1" || ramp.SegmentIDs[1] != "i1" {
		t.Fatalf("expected exit segment first, got %v", ramp.SegmentIDs)
	}
}

func TestLinkUnattachedEntryBecomesSimpleRamp(t *testing.T) {
	entries := []domain.RampSegment{
		{ID: "e1", Coordinates: []domain.Point{pt(9, 9), pt(10, 10)}, Role: domain.RoleEntry},
	}

	result := Link(entries, nil, nil)

	if len(result.Ramps) != 1 {
		t.Fatalf("expected 1 ramp, got %d", len(result.Ramps))
	}
	if len(result.Ramps[0].SegmentIDs) != 1 || result.Ramps[0].SegmentIDs[0] != "e1" {
		t.Fatalf("expected singleton ramp e1, got %v", result.Ramps[0].SegmentIDs)
	}
}

func TestLinkOrphanChainAndSegmentReported(t *testing.T) {
	indeterminate := []domain.RampSegment{
		{ID: "i1", Coordinates: []domain.Point{pt(0, 0), pt(1, 1)}, Role: domain.RoleIndeterminate},
		{ID: "i2", Coordinates: []domain.Point{pt(1, 1), pt(2, 2)}, Role: domain.RoleIndeterminate},
		{ID: "i3", Coordinates: []domain.Point{pt(100, 100), pt(101, 101)}, Role: domain.RoleIndeterminate},
	}

	result := Link(nil, nil, indeterminate)

	if len(result.Ramps) != 0 {
		t.Fatalf("expected no ramps, got %d", len(result.Ramps))
	}
	if len(result.OrphanChains) != 1 || len(result.OrphanChains[0]) != 2 {
		t.Fatalf("expected one 2-segment orphan chain, got %v", result.OrphanChains)
	}
	if len(result.OrphanSegments) != 1 || result.OrphanSegments[0] != "i3" {
		t.Fatalf("expected i3 as orphan segment, got %v", result.OrphanSegments)
	}
}
