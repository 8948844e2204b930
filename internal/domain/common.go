// Package domain holds the data model shared by every offline and
// query-time component: toll booths, ramps, pricing, and the structures
// produced while answering a single routing query.
package domain

import "math"

// Point is a WGS84 coordinate, longitude first to match the GeoJSON and
// routing-engine wire formats this system consumes.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Finite reports whether both coordinates are finite, non-NaN doubles.
func (p Point) Finite() bool {
	return !math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0) &&
		!math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0)
}

// BoundingBox is an axis-aligned envelope in degrees.
type BoundingBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// Contains reports whether p falls within the box, inclusive of the edges.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon && p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

// Expanded returns a copy of b grown by marginDeg on every side.
func (b BoundingBox) Expanded(marginDeg float64) BoundingBox {
	return BoundingBox{
		MinLon: b.MinLon - marginDeg,
		MinLat: b.MinLat - marginDeg,
		MaxLon: b.MaxLon + marginDeg,
		MaxLat: b.MaxLat + marginDeg,
	}
}

// Intersects reports whether two boxes overlap.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return b.MinLon <= o.MaxLon && b.MaxLon >= o.MinLon &&
		b.MinLat <= o.MaxLat && b.MaxLat >= o.MinLat
}

// BoundingBoxOf computes the envelope of a non-empty polyline.
func BoundingBoxOf(points []Point) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	box := BoundingBox{
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
	}
	for _, p := range points[1:] {
		box.MinLon = math.Min(box.MinLon, p.Lon)
		box.MaxLon = math.Max(box.MaxLon, p.Lon)
		box.MinLat = math.Min(box.MinLat, p.Lat)
		box.MaxLat = math.Max(box.MaxLat, p.Lat)
	}
	return box
}
