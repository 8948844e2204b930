package domain

// TollwaySegment flags a contiguous run of a RouteProbe's polyline,
// StartIdx..EndIdx inclusive, as toll motorway (IsToll) or not. It is
// optional: the routing engine may omit it entirely.
type TollwaySegment struct {
	StartIdx int
	EndIdx   int
	IsToll   bool
}

// RouteProbe is a query-time, non-persisted candidate polyline returned by
// the external routing engine, optionally annotated with tollway flags.
type RouteProbe struct {
	Polyline        []Point
	TollwaySegments []TollwaySegment // nil when the engine didn't supply them
	DistanceMeters  float64
	DurationSeconds float64
}

// HasTollwayFlags reports whether the engine supplied segment flags; when
// false the detector treats the whole polyline as one unknown segment.
func (p RouteProbe) HasTollwayFlags() bool { return len(p.TollwaySegments) > 0 }
