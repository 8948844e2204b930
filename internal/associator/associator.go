// Package associator matches each toll booth to the single ramp it sits on,
// spec.md §4.2's second half. A booth is associated with the closest ramp
// whose polyline passes within AssociatorMaxDistanceM of it; ties break on
// the lexicographically smaller booth ID, and a booth claimed by more than
// one ramp keeps only its shortest-distance association.
package associator

import (
	"sort"

	"github.com/cyrizon/tollroute/internal/domain"
	"github.com/cyrizon/tollroute/internal/pkg/geo"
)

// Params bundles the two geometric thresholds from ModelConfig this package
// needs.
type Params struct {
	BBoxMarginDeg float64
	MaxDistanceM  float64
}

// candidate is one ramp's best-matching booth before global resolution.
type candidate struct {
	rampIdx  int
	boothIdx int
	distance float64
}

// Associate assigns Booth/BoothDistance on a copy of ramps, returning the
// updated slice. booths and ramps are both read-only inputs.
func Associate(booths []domain.TollBooth, ramps []domain.CompleteRamp, p Params) []domain.CompleteRamp {
	out := make([]domain.CompleteRamp, len(ramps))
	copy(out, ramps)

	var candidates []candidate
	for ri := range out {
		out[ri].Booth = domain.InvalidHandle
		out[ri].BoothDistance = 0
		box := domain.BoundingBoxOf(out[ri].Polyline).Expanded(p.BBoxMarginDeg)
		best := -1
		bestDist := p.MaxDistanceM
		for bi, booth := range booths {
			if !box.Contains(booth.Point) {
				continue
			}
			dist, _, _ := geo.ProjectToPolyline(booth.Point, out[ri].Polyline)
			if dist > p.MaxDistanceM {
				continue
			}
			if best < 0 || dist < bestDist ||
				(dist == bestDist && booths[bi].ID < booths[best].ID) {
				best = bi
				bestDist = dist
			}
		}
		if best >= 0 {
			candidates = append(candidates, candidate{rampIdx: ri, boothIdx: best, distance: bestDist})
		}
	}

	// Resolve conflicts: a booth claimed by several ramps keeps only its
	// shortest-distance association, ties broken by the smaller ramp ID.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return out[candidates[i].rampIdx].ID < out[candidates[j].rampIdx].ID
	})

	claimed := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		if claimed[c.boothIdx] {
			continue
		}
		claimed[c.boothIdx] = true
		out[c.rampIdx].Booth = domain.BoothHandle(c.boothIdx)
		out[c.rampIdx].BoothDistance = c.distance
	}

	return out
}
