// Package detector implements spec.md §4.6: finding which toll booths a
// candidate route actually crosses. It runs a spatial prefilter, scores
// every candidate with precise segment projection, then orders and
// deduplicates the on-route hits.
package detector

import (
	"sort"

	"github.com/cyrizon/tollroute/internal/domain"
	"github.com/cyrizon/tollroute/internal/pkg/geo"
	"github.com/cyrizon/tollroute/internal/spatial"
)

// Params bundles the four geometric thresholds from ModelConfig this
// package needs.
type Params struct {
	PrefilterMarginDeg float64
	OnRouteM           float64
	NearbyM            float64
	DedupeM            float64
}

// Result is the detector's full output for one RouteProbe.
type Result struct {
	OnRoute []domain.DetectedToll
	Nearby  []domain.Nearby
}

type scored struct {
	boothIdx  int
	routeIdx  int
	distanceM float64
	position  float64
}

// Detect runs the three-phase detection over route using index as the
// spatial prefilter, falling back to a full scan over booths when index is
// nil (useful for small tests).
func Detect(route domain.RouteProbe, booths []domain.TollBooth, index *spatial.PointIndex, p Params) Result {
	candidates := prefilterCandidates(route, booths, index, p.PrefilterMarginDeg)

	var onRoute, nearbyRaw []scored
	for _, bi := range candidates {
		dist, idx, pos := geo.ProjectToPolyline(booths[bi].Point, route.Polyline)
		switch {
		case dist <= p.OnRouteM:
			onRoute = append(onRoute, scored{boothIdx: bi, routeIdx: idx, distanceM: dist, position: pos})
		case dist <= p.NearbyM:
			nearbyRaw = append(nearbyRaw, scored{boothIdx: bi, distanceM: dist})
		}
	}

	sort.Slice(onRoute, func(i, j int) bool { return onRoute[i].position < onRoute[j].position })
	deduped := dedupe(onRoute, booths, p.DedupeM)

	out := Result{}
	for _, s := range deduped {
		out.OnRoute = append(out.OnRoute, domain.DetectedToll{
			Booth:     domain.BoothHandle(s.boothIdx),
			RouteIdx:  s.routeIdx,
			DistanceM: s.distanceM,
			Position:  s.position,
		})
	}
	for _, s := range nearbyRaw {
		out.Nearby = append(out.Nearby, domain.Nearby{Booth: domain.BoothHandle(s.boothIdx), DistanceM: s.distanceM})
	}
	return out
}

func prefilterCandidates(route domain.RouteProbe, booths []domain.TollBooth, index *spatial.PointIndex, marginDeg float64) []int {
	box := domain.BoundingBoxOf(route.Polyline).Expanded(marginDeg)
	if index != nil {
		return index.QueryBBox(box)
	}
	var out []int
	for i, b := range booths {
		if box.Contains(b.Point) {
			out = append(out, i)
		}
	}
	return out
}

// dedupe collapses on-route hits that are physically the same crossing:
// within 1 meter of each other and "semantically similar" per spec.md §4.6.
// Candidates are already sorted by route position; duplicates are merged
// into whichever group member scores best, and the result stays in route
// order.
func dedupe(hits []scored, booths []domain.TollBooth, dedupeM float64) []scored {
	used := make([]bool, len(hits))
	var out []scored

	for i := range hits {
		if used[i] {
			continue
		}
		group := []int{i}
		used[i] = true
		for j := i + 1; j < len(hits); j++ {
			if used[j] {
				continue
			}
			if similar(hits[i], hits[j], booths, dedupeM) {
				group = append(group, j)
				used[j] = true
			}
		}
		out = append(out, bestOf(group, hits, booths))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].position < out[j].position })
	return out
}

func similar(a, b scored, booths []domain.TollBooth, dedupeM float64) bool {
	ba, bb := booths[a.boothIdx], booths[b.boothIdx]
	if geo.HaversineMeters(ba.Point, bb.Point) > dedupeM {
		return false
	}
	if !(ba.Operator == "" || bb.Operator == "" || ba.Operator == bb.Operator) {
		return false
	}
	if ba.Kind != bb.Kind {
		return false
	}
	if ba.Name != "" && bb.Name != "" && !substringOverlap(ba.Name, bb.Name) {
		return false
	}
	return true
}

func substringOverlap(a, b string) bool {
	if a == b {
		return true
	}
	shorter, longer := a, b
	if len(a) > len(b) {
		shorter, longer = b, a
	}
	return len(shorter) > 0 && contains(longer, shorter)
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

// bestOf picks the group member with the smallest route distance, ties
// broken by identifier-completeness score then lowest booth id.
func bestOf(group []int, hits []scored, booths []domain.TollBooth) scored {
	best := group[0]
	for _, idx := range group[1:] {
		if better(hits[idx], hits[best], booths) {
			best = idx
		}
	}
	return hits[best]
}

func better(a, b scored, booths []domain.TollBooth) bool {
	if a.distanceM != b.distanceM {
		return a.distanceM < b.distanceM
	}
	sa, sb := completeness(booths[a.boothIdx]), completeness(booths[b.boothIdx])
	if sa != sb {
		return sa > sb
	}
	return booths[a.boothIdx].ID < booths[b.boothIdx].ID
}

func completeness(b domain.TollBooth) int {
	score := 0
	if b.Name != "" {
		score += 2
	}
	if b.Operator != "" {
		score += 2
	}
	if b.ID != "" {
		score += 1
	}
	return score
}
