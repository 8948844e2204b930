// Package optimizer implements spec.md §4.8: finding an entry-ramp booth a
// driver could exit onto instead of paying a closed booth that would
// otherwise violate the closed-pair rule or push cost over budget.
package optimizer

import (
	"math"

	"github.com/cyrizon/tollroute/internal/domain"
	"github.com/cyrizon/tollroute/internal/pkg/geo"
	"github.com/cyrizon/tollroute/internal/spatial"
)

// Params bundles the two geometric thresholds from ModelConfig this package
// needs.
type Params struct {
	SearchRadiusM float64
	SegmentMaxM   float64
}

// Substitute is a candidate entry ramp whose associated booth can replace
// the target closed booth.
type Substitute struct {
	Ramp  domain.CompleteRamp
	Booth domain.TollBooth // the ramp's associated booth
	Point domain.Point     // the ramp's endpoint coordinate (§4.8 step 5)
}

// EntryIndex is the second spatial index spec.md §4.5 names alongside the
// booth index (T_ramps_by_endpoint): a spatial.PointIndex over every entry
// ramp's associated booth location, paired with the filtered ramp slice it
// was built from so a query's results map straight back to
// domain.CompleteRamp values.
type EntryIndex struct {
	ramps []domain.CompleteRamp
	index *spatial.PointIndex
}

// BuildEntryIndex indexes every entry ramp that has a valid associated
// booth. cellSizeDeg should be sized the same way the booth index's is, per
// spatial.NewPointIndex.
func BuildEntryIndex(ramps []domain.CompleteRamp, booths []domain.TollBooth, cellSizeDeg float64) *EntryIndex {
	var filtered []domain.CompleteRamp
	var points []domain.Point
	for _, r := range ramps {
		if r.Type != domain.RampEntry || !r.Booth.Valid() {
			continue
		}
		filtered = append(filtered, r)
		points = append(points, booths[r.Booth].Point)
	}
	return &EntryIndex{ramps: filtered, index: spatial.NewPointIndex(points, cellSizeDeg)}
}

// FindSubstitute searches entry ramps between prev and target along route
// for one that can stand in for target. prevPos and targetPos are the two
// booths' normalized positions along route.Polyline, as produced by the
// detector. When index is non-nil it is queried for candidates within
// p.SearchRadiusM of target instead of scanning every ramp; index may be
// nil, which falls back to a full scan of ramps (useful for small tests).
// It returns false when no candidate passes every filter.
func FindSubstitute(route domain.RouteProbe, ramps []domain.CompleteRamp, booths []domain.TollBooth,
	prev, target domain.TollBooth, prevPos, targetPos float64, p Params, index *EntryIndex) (Substitute, bool) {

	lo, hi := prevPos, targetPos
	if lo > hi {
		lo, hi = hi, lo
	}

	candidates := candidateRamps(ramps, target, p.SearchRadiusM, index)

	var best Substitute
	bestFound := false
	bestDelta := math.Inf(1)

	for _, ramp := range candidates {
		if ramp.Type != domain.RampEntry || !ramp.Booth.Valid() {
			continue
		}
		candidate := booths[ramp.Booth]

		if geo.HaversineMeters(candidate.Point, target.Point) > p.SearchRadiusM {
			continue
		}

		_, _, pos := geo.ProjectToPolyline(candidate.Point, route.Polyline)
		if pos < lo || pos > hi {
			continue
		}

		segDist, _ := geo.ProjectToSegment(candidate.Point, prev.Point, target.Point)
		if segDist > p.SegmentMaxM {
			continue
		}

		delta := math.Abs(pos - targetPos)
		if !bestFound || delta < bestDelta {
			bestFound = true
			bestDelta = delta
			best = Substitute{Ramp: ramp, Booth: candidate, Point: ramp.End()}
		}
	}

	return best, bestFound
}

// candidateRamps returns the entry ramps worth scoring: a radius query
// against index when one is supplied, otherwise every ramp in the full
// list. The exact HaversineMeters/segment checks in FindSubstitute still
// run afterward, so this only needs to be a safe (non-undershooting)
// prefilter.
func candidateRamps(ramps []domain.CompleteRamp, target domain.TollBooth, radiusM float64, index *EntryIndex) []domain.CompleteRamp {
	if index == nil {
		return ramps
	}
	radiusDeg := geo.MetersToDegrees(radiusM)
	if c := math.Cos(target.Point.Lat * math.Pi / 180); c > 0 {
		// A degree of longitude shrinks with cos(latitude); widen the
		// square so its east-west extent still covers radiusM.
		radiusDeg /= c
	}
	hits := index.index.QueryRadius(target.Point, radiusDeg)
	out := make([]domain.CompleteRamp, len(hits))
	for i, h := range hits {
		out[i] = index.ramps[h]
	}
	return out
}
