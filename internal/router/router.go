// Package router adapts the pipeline facade to an external, black-box
// routing engine. spec.md §6.2 treats the engine as opaque; this package
// assumes a Valhalla-shaped HTTP API, grounded in
// angelodlfrtr-valhalla-http-client-go's request/response shapes and
// Bwise1-waze_kibris_api's valhalla client and polyline6 decoding, the way
// the teacher's mapbox client wraps one external routing provider behind a
// small interface.
package router

import (
	"context"

	"github.com/cyrizon/tollroute/internal/domain"
)

// Router resolves a route between two points, optionally through
// waypoints, optionally avoiding tolls. The pipeline facade is the only
// caller; HTTPRouter returns internal/pkg/errors' RoutingUnavailable or
// DeadlineExceeded kinds for engine failures, and Internal when the request
// itself cannot be encoded.
type Router interface {
	Route(ctx context.Context, req Request) (domain.RouteProbe, error)
}

// Request is one routing-engine call. Waypoints, when present, are visited
// in order between Origin and Destination — the facade's way of steering
// the engine through a Selection's kept booths or their ramp substitutes.
type Request struct {
	Origin      domain.Point
	Destination domain.Point
	Waypoints   []domain.Point
	AvoidTolls  bool
}
