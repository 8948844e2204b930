package router

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twpayne/go-polyline"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/cyrizon/tollroute/internal/config"
	"github.com/cyrizon/tollroute/internal/domain"
	apperrors "github.com/cyrizon/tollroute/internal/pkg/errors"
)

// valhallaPolyline6 is the codec Valhalla's route shapes are encoded with:
// six decimal digits of precision rather than go-polyline's default five.
var valhallaPolyline6 = polyline.Codec{Dim: 2, Precision: 6}

// HTTPRouter calls a Valhalla-compatible /route endpoint over fasthttp, the
// way the teacher's mapbox client wraps one HTTP routing provider.
type HTTPRouter struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewHTTPRouter builds an HTTPRouter from RouterConfig.
func NewHTTPRouter(cfg config.RouterConfig, logger *zap.Logger) *HTTPRouter {
	return &HTTPRouter{
		client:  &fasthttp.Client{},
		baseURL: cfg.BaseURL,
		timeout: cfg.RequestTimeout,
		logger:  logger,
	}
}

type routeLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type costingOptions struct {
	Auto autoCostingOptions `json:"auto"`
}

type autoCostingOptions struct {
	AvoidTolls bool `json:"avoid_tolls"`
}

type routeRequest struct {
	Locations      []routeLocation `json:"locations"`
	Costing        string          `json:"costing"`
	CostingOptions costingOptions  `json:"costing_options"`
}

type tollwayInterval struct {
	BeginShapeIndex int  `json:"begin_shape_index"`
	EndShapeIndex   int  `json:"end_shape_index"`
	Toll            bool `json:"toll"`
}

type legSummary struct {
	Length float64 `json:"length"` // kilometers
	Time   float64 `json:"time"`   // seconds
}

type leg struct {
	Shape     string            `json:"shape"`
	Summary   legSummary        `json:"summary"`
	Tollways  []tollwayInterval `json:"tollway_intervals,omitempty"`
}

type trip struct {
	Legs          []leg      `json:"legs"`
	Summary       legSummary `json:"summary"`
	Status        int        `json:"status"`
	StatusMessage string     `json:"status_message"`
}

type routeResponse struct {
	Trip trip `json:"trip"`
}

// Route builds a Valhalla-shaped request and decodes its polyline6 shape
// into a RouteProbe.
func (r *HTTPRouter) Route(ctx context.Context, req Request) (domain.RouteProbe, error) {
	body := routeRequest{
		Costing:        "auto",
		CostingOptions: costingOptions{Auto: autoCostingOptions{AvoidTolls: req.AvoidTolls}},
	}
	body.Locations = append(body.Locations, routeLocation{Lat: req.Origin.Lat, Lon: req.Origin.Lon})
	for _, wp := range req.Waypoints {
		body.Locations = append(body.Locations, routeLocation{Lat: wp.Lat, Lon: wp.Lon})
	}
	body.Locations = append(body.Locations, routeLocation{Lat: req.Destination.Lat, Lon: req.Destination.Lon})

	payload, err := json.Marshal(body)
	if err != nil {
		return domain.RouteProbe{}, apperrors.Internal("router.Route", err)
	}

	httpReq := fasthttp.AcquireRequest()
	httpResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(httpReq)
	defer fasthttp.ReleaseResponse(httpResp)

	httpReq.SetRequestURI(r.baseURL + "/route")
	httpReq.Header.SetMethod(fasthttp.MethodPost)
	httpReq.Header.SetContentType("application/json")
	httpReq.SetBody(payload)

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := r.client.DoTimeout(httpReq, httpResp, timeout); err != nil {
		if err == fasthttp.ErrTimeout {
			return domain.RouteProbe{}, apperrors.DeadlineExceeded("router.Route")
		}
		r.logger.Warn("routing engine request failed", zap.Error(err))
		return domain.RouteProbe{}, apperrors.RoutingUnavailable("router.Route", err)
	}

	if httpResp.StatusCode() != fasthttp.StatusOK {
		return domain.RouteProbe{}, apperrors.RoutingUnavailable("router.Route",
			fmt.Errorf("routing engine returned status %d", httpResp.StatusCode()))
	}

	var parsed routeResponse
	if err := json.Unmarshal(httpResp.Body(), &parsed); err != nil {
		return domain.RouteProbe{}, apperrors.RoutingUnavailable("router.Route", fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Trip.Legs) == 0 {
		return domain.RouteProbe{}, apperrors.RoutingUnavailable("router.Route", fmt.Errorf("no legs in trip: %s", parsed.Trip.StatusMessage))
	}

	return assembleProbe(parsed.Trip)
}

func assembleProbe(t trip) (domain.RouteProbe, error) {
	var polylinePts []domain.Point
	var segments []domain.TollwaySegment

	for _, l := range t.Legs {
		coords, _, err := valhallaPolyline6.DecodeCoords([]byte(l.Shape))
		if err != nil {
			return domain.RouteProbe{}, apperrors.RoutingUnavailable("router.assembleProbe", fmt.Errorf("decode shape: %w", err))
		}
		offset := len(polylinePts)
		for _, c := range coords {
			// go-polyline decodes to [lat, lon] pairs.
			polylinePts = append(polylinePts, domain.Point{Lat: c[0], Lon: c[1]})
		}
		for _, tw := range l.Tollways {
			segments = append(segments, domain.TollwaySegment{
				StartIdx: offset + tw.BeginShapeIndex,
				EndIdx:   offset + tw.EndShapeIndex,
				IsToll:   tw.Toll,
			})
		}
	}

	return domain.RouteProbe{
		Polyline:        polylinePts,
		TollwaySegments: segments,
		DistanceMeters:  t.Summary.Length * 1000.0,
		DurationSeconds: t.Summary.Time,
	}, nil
}
