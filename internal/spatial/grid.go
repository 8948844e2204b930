// Package spatial provides a coarse spatial index over points, substituting
// for the R-tree the retrieved corpus never brings in (no example or
// other_examples/ file imports one). It buckets points into fixed-size
// lon/lat cells keyed the way a geohash prefix would be, which is enough to
// turn the bbox and radius queries the detector and optimizer run
// into a handful of cell lookups instead of a full scan.
package spatial

import (
	"math"

	"github.com/cyrizon/tollroute/internal/domain"
)

// cellKey identifies one grid cell.
type cellKey struct {
	x, y int32
}

// PointIndex buckets a fixed set of points for bbox and radius queries. The
// backing slice is never mutated after New returns, so concurrent read-only
// queries are safe.
type PointIndex struct {
	points   []domain.Point
	cellSize float64
	buckets  map[cellKey][]int
}

// NewPointIndex builds an index over points, with cellSizeDeg controlling
// the bucket granularity. A cell size close to the typical query radius (in
// degrees) keeps bucket occupancy low without exploding bucket count.
func NewPointIndex(points []domain.Point, cellSizeDeg float64) *PointIndex {
	if cellSizeDeg <= 0 {
		cellSizeDeg = 0.01
	}
	idx := &PointIndex{
		points:   points,
		cellSize: cellSizeDeg,
		buckets:  make(map[cellKey][]int),
	}
	for i, p := range points {
		k := idx.keyOf(p)
		idx.buckets[k] = append(idx.buckets[k], i)
	}
	return idx
}

func (idx *PointIndex) keyOf(p domain.Point) cellKey {
	return cellKey{
		x: int32(math.Floor(p.Lon / idx.cellSize)),
		y: int32(math.Floor(p.Lat / idx.cellSize)),
	}
}

// QueryBBox returns the indices of every point falling within box, without
// any distance refinement.
func (idx *PointIndex) QueryBBox(box domain.BoundingBox) []int {
	minX := int32(math.Floor(box.MinLon / idx.cellSize))
	maxX := int32(math.Floor(box.MaxLon / idx.cellSize))
	minY := int32(math.Floor(box.MinLat / idx.cellSize))
	maxY := int32(math.Floor(box.MaxLat / idx.cellSize))

	var out []int
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for _, i := range idx.buckets[cellKey{x, y}] {
				if box.Contains(idx.points[i]) {
					out = append(out, i)
				}
			}
		}
	}
	return out
}

// QueryRadius returns the indices of every point inside the square of
// half-side radiusDeg centred on center, via QueryBBox. That square is a
// superset of the points within radiusDeg (corner points lie farther out);
// results are neither filtered by exact distance nor ranked by it.
func (idx *PointIndex) QueryRadius(center domain.Point, radiusDeg float64) []int {
	box := domain.BoundingBox{
		MinLon: center.Lon - radiusDeg, MaxLon: center.Lon + radiusDeg,
		MinLat: center.Lat - radiusDeg, MaxLat: center.Lat + radiusDeg,
	}
	return idx.QueryBBox(box)
}

// Point returns the backing point at i, for callers that only received an
// index from a query.
func (idx *PointIndex) Point(i int) domain.Point { return idx.points[i] }
