// Package geo implements the geometric primitives every offline and
// query-time component builds on: great-circle distance, point-to-segment
// and point-to-polyline projection, and a meters-to-degrees conversion for
// sizing prefilters (bounding boxes live in internal/domain). Grounded on the teacher's
// HaversineDistance, generalized with the segment projection the toll
// detector and associator both need.
package geo

import (
	"math"

	"github.com/cyrizon/tollroute/internal/domain"
)

const earthRadiusM = 6371000.0

// HaversineMeters returns the great-circle distance between a and b, in
// meters.
func HaversineMeters(a, b domain.Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusM * c
}

// HaversineKm is HaversineMeters expressed in kilometres, used directly by
// the closed-system per-km cost rule (§4.9).
func HaversineKm(a, b domain.Point) float64 {
	return HaversineMeters(a, b) / 1000.0
}

func radians(deg float64) float64 { return deg * math.Pi / 180.0 }

// MetersToDegrees converts a distance in meters to an upper-bound span in
// degrees of latitude, using the smallest meters-per-degree-of-latitude
// figure so the result never undershoots a north-south span. It does not
// account for longitude: a degree of longitude is shorter by a factor of
// cos(latitude), so above about 7° of latitude an east-west span of m
// meters is wider in degrees than this value.
func MetersToDegrees(m float64) float64 {
	return m / 110540.0
}

// ProjectToSegment returns the minimum distance, in meters, from p to the
// segment [a,b], along with the fractional position t in [0,1] of the
// closest point along that segment. Distances are computed on an
// equirectangular approximation local to the segment, which is accurate
// enough at motorway-ramp scales (segments of a few hundred meters) and
// far cheaper than a full geodesic solve repeated per candidate.
func ProjectToSegment(p, a, b domain.Point) (distanceM float64, t float64) {
	// Convert to a local planar frame in meters, centered on a, so the
	// closest-point-on-segment math is ordinary 2D vector algebra.
	latRad := radians(a.Lat)
	mPerDegLon := 111320.0 * math.Cos(latRad)
	mPerDegLat := 110540.0

	ax, ay := 0.0, 0.0
	bx := (b.Lon - a.Lon) * mPerDegLon
	by := (b.Lat - a.Lat) * mPerDegLat
	px := (p.Lon - a.Lon) * mPerDegLon
	py := (p.Lat - a.Lat) * mPerDegLat

	dx, dy := bx-ax, by-ay
	segLenSq := dx*dx + dy*dy

	if segLenSq == 0 {
		// Degenerate segment: both endpoints coincide.
		return math.Hypot(px-ax, py-ay), 0
	}

	t = ((px-ax)*dx + (py-ay)*dy) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closestX := ax + t*dx
	closestY := ay + t*dy

	return math.Hypot(px-closestX, py-closestY), t
}

// ProjectToPolyline finds the minimum distance from p to a multi-segment
// polyline, returning the distance, the index of the polyline point nearest
// the projection (the start or the end of the closest segment, whichever
// the projection lies closer to), and the fractional position along the whole
// polyline (by cumulative segment count) in [0,1]. Requires len(line) >= 2.
func ProjectToPolyline(p domain.Point, line []domain.Point) (distanceM float64, nearestIdx int, position float64) {
	best := math.Inf(1)
	bestSeg := 0
	bestT := 0.0

	for i := 0; i < len(line)-1; i++ {
		d, t := ProjectToSegment(p, line[i], line[i+1])
		if d < best {
			best = d
			bestSeg = i
			bestT = t
		}
	}

	nearestIdx = bestSeg
	if bestT >= 0.5 {
		nearestIdx = bestSeg + 1
	}

	numSegments := float64(len(line) - 1)
	position = (float64(bestSeg) + bestT) / numSegments

	return best, nearestIdx, position
}
