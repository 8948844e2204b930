// Package pipeline is the one entry point callers use: spec.md §4.10's
// facade, wiring the routing engine, toll detector, selector, optimizer,
// and cost calculator around a read-only Model, the way a use case in the
// teacher's clean-architecture layout orchestrates its repositories.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cyrizon/tollroute/internal/costing"
	"github.com/cyrizon/tollroute/internal/detector"
	"github.com/cyrizon/tollroute/internal/domain"
	"github.com/cyrizon/tollroute/internal/optimizer"
	apperrors "github.com/cyrizon/tollroute/internal/pkg/errors"
	applogger "github.com/cyrizon/tollroute/internal/pkg/logger"
	"github.com/cyrizon/tollroute/internal/resultcache"
	"github.com/cyrizon/tollroute/internal/router"
	"github.com/cyrizon/tollroute/internal/selector"
	"github.com/cyrizon/tollroute/internal/spatial"
)

func optimizerParams(p Params) optimizer.Params {
	return optimizer.Params{SearchRadiusM: p.OptimizerSearchRadiusM, SegmentMaxM: p.OptimizerSegmentMaxM}
}

// Params bundles every geometric threshold the query-time components need,
// loaded once from ModelConfig.
type Params struct {
	DetectorPrefilterMarginDeg float64
	DetectorOnRouteM           float64
	DetectorNearbyM            float64
	DetectorDedupeM            float64
	OptimizerSearchRadiusM     float64
	OptimizerSegmentMaxM       float64
}

// Facade answers count-mode and budget-mode queries against a fixed Model.
type Facade struct {
	model       *domain.Model
	boothIndex  *spatial.PointIndex
	entryIndex  *optimizer.EntryIndex
	router      router.Router
	params      Params
	logger      *zap.Logger
	resultCache *resultcache.SelectionCache
}

// New builds a Facade, constructing the two spatial indices spec.md §4.5
// names: one over every booth (prefiltering the detector's candidates) and
// one over every entry ramp's associated booth (prefiltering the exit
// optimizer's candidates). A nil logger falls back to zap.NewNop, so
// callers in tests can omit it. A nil resultCache disables the
// query-result fast path entirely (every query runs the full pipeline).
func New(model *domain.Model, rt router.Router, params Params, log *zap.Logger, rc *resultcache.SelectionCache) *Facade {
	if log == nil {
		log = zap.NewNop()
	}
	points := make([]domain.Point, len(model.Booths))
	for i, b := range model.Booths {
		points[i] = b.Point
	}
	return &Facade{
		model:       model,
		boothIndex:  spatial.NewPointIndex(points, params.DetectorPrefilterMarginDeg),
		entryIndex:  optimizer.BuildEntryIndex(model.Ramps, model.Booths, params.DetectorPrefilterMarginDeg),
		router:      rt,
		params:      params,
		logger:      log,
		resultCache: rc,
	}
}

// Query is one routing request's input, shared by count and budget mode.
type Query struct {
	Origin      domain.Point
	Destination domain.Point
	Vehicle     domain.VehicleClass
}

// Outcome is what the facade returns to a caller: the route actually
// recommended, and the priced Selection of tolls it carries.
type Outcome struct {
	Route     domain.RouteProbe
	Selection domain.Selection
}

func (q Query) validate() error {
	if !q.Origin.Finite() || !q.Destination.Finite() {
		return apperrors.InvalidInput("pipeline.Query", "origin and destination must be finite coordinates")
	}
	if !q.Vehicle.Valid() {
		return apperrors.InvalidInput("pipeline.Query", "vehicle class must be one of c1..c5")
	}
	return nil
}

func (f *Facade) detectorParams() detector.Params {
	return detector.Params{
		PrefilterMarginDeg: f.params.DetectorPrefilterMarginDeg,
		OnRouteM:            f.params.DetectorOnRouteM,
		NearbyM:             f.params.DetectorNearbyM,
		DedupeM:             f.params.DetectorDedupeM,
	}
}

func (f *Facade) selectorDeps(route domain.RouteProbe) selector.Deps {
	return selector.Deps{
		Booths:     f.model.Booths,
		Ramps:      f.model.Ramps,
		Grid:       f.model.Grid,
		Route:      route,
		OptParams:  optimizerParams(f.params),
		EntryIndex: f.entryIndex,
	}
}

// FindRouteCount answers a count-mode query: keep at most target on-route
// tolls.
func (f *Facade) FindRouteCount(ctx context.Context, q Query, target int) (Outcome, error) {
	queryID := uuid.NewString()
	log := applogger.WithQuery(f.logger, queryID)

	if err := q.validate(); err != nil {
		log.Warn("rejected count query", zap.Error(err))
		return Outcome{}, err
	}
	if target < 0 {
		return Outcome{}, apperrors.InvalidInput("pipeline.FindRouteCount", "target must be >= 0")
	}
	log.Info("count query received", zap.Int("target", target))

	cacheKey := resultcache.Key(q.Origin, q.Destination, q.Vehicle, "count", target, 0)
	if out, ok := f.cacheLookup(ctx, cacheKey, log); ok {
		return out, nil
	}

	baseline, err := f.router.Route(ctx, router.Request{Origin: q.Origin, Destination: q.Destination})
	if err != nil {
		log.Warn("baseline routing failed", zap.Error(err))
		return Outcome{}, err
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, apperrors.DeadlineExceeded("pipeline.FindRouteCount")
	}

	detected := detector.Detect(baseline, f.model.Booths, f.boothIndex, f.detectorParams())
	log.Debug("tolls detected", zap.Int("on_route", len(detected.OnRoute)), zap.Int("nearby", len(detected.Nearby)))

	var out Outcome
	if target == 0 || len(detected.OnRoute) <= target {
		out, err = f.finish(ctx, q, baseline, detected.OnRoute, target == 0)
	} else {
		sel := f.selectorDeps(baseline).SelectCount(detected.OnRoute, q.Vehicle, target)
		log.Info("count query resolved", zap.String("reason", string(sel.Reason)), zap.Int("kept", len(sel.Kept)))
		out, err = f.finishSelection(ctx, q, baseline, sel)
	}
	if err != nil {
		return Outcome{}, err
	}
	f.cacheStore(ctx, cacheKey, out, log)
	return out, nil
}

// FindRouteBudget answers a budget-mode query: keep as many on-route tolls
// as fit under budget euros.
func (f *Facade) FindRouteBudget(ctx context.Context, q Query, budget float64) (Outcome, error) {
	queryID := uuid.NewString()
	log := applogger.WithQuery(f.logger, queryID)

	if err := q.validate(); err != nil {
		log.Warn("rejected budget query", zap.Error(err))
		return Outcome{}, err
	}
	if budget < 0 {
		return Outcome{}, apperrors.InvalidInput("pipeline.FindRouteBudget", "budget must be >= 0")
	}
	log.Info("budget query received", zap.Float64("budget_eur", budget))

	cacheKey := resultcache.Key(q.Origin, q.Destination, q.Vehicle, "budget", 0, budget)
	if out, ok := f.cacheLookup(ctx, cacheKey, log); ok {
		return out, nil
	}

	baseline, err := f.router.Route(ctx, router.Request{Origin: q.Origin, Destination: q.Destination})
	if err != nil {
		log.Warn("baseline routing failed", zap.Error(err))
		return Outcome{}, err
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, apperrors.DeadlineExceeded("pipeline.FindRouteBudget")
	}

	detected := detector.Detect(baseline, f.model.Booths, f.boothIndex, f.detectorParams())

	total, breakdown := costing.Calculate(detected.OnRoute, f.model.Booths, f.model.Grid, q.Vehicle)
	var out Outcome
	if total <= budget {
		out, err = f.finishSelection(ctx, q, baseline, domain.Selection{
			Kept: detected.OnRoute, TotalCostEUR: total, Breakdown: breakdown, Reason: domain.ReasonBudgetMet,
		})
	} else {
		sel := f.selectorDeps(baseline).SelectBudget(detected.OnRoute, q.Vehicle, budget)
		log.Info("budget query resolved", zap.String("reason", string(sel.Reason)), zap.Float64("total_eur", sel.TotalCostEUR))
		out, err = f.finishSelection(ctx, q, baseline, sel)
	}
	if err != nil {
		return Outcome{}, err
	}
	f.cacheStore(ctx, cacheKey, out, log)
	return out, nil
}

// cacheLookup consults the query result cache; a miss, a disabled cache, or
// a backend error (logged, never surfaced) all return ok=false so the
// caller falls through to the full pipeline.
func (f *Facade) cacheLookup(ctx context.Context, key string, log *zap.Logger) (Outcome, bool) {
	if f.resultCache == nil {
		return Outcome{}, false
	}
	entry, ok, err := f.resultCache.Get(ctx, key)
	if err != nil {
		log.Warn("result cache read failed", zap.Error(err))
		return Outcome{}, false
	}
	if !ok {
		return Outcome{}, false
	}
	log.Info("result cache hit", zap.String("key", key))
	return Outcome{Route: entry.Route, Selection: entry.Selection}, true
}

// cacheStore writes a fresh Outcome back to the query result cache. The
// toll-free fallback path is not cached: it stems from the routing
// engine's own avoid_tolls behavior rather than this Model, and caching it
// keyed the same as a priced Selection risks serving a stale decision
// across a model cache regeneration.
func (f *Facade) cacheStore(ctx context.Context, key string, out Outcome, log *zap.Logger) {
	if f.resultCache == nil || out.Selection.Reason == domain.ReasonTollFreeFallback {
		return
	}
	if err := f.resultCache.Set(ctx, key, resultcache.Entry{Route: out.Route, Selection: out.Selection}); err != nil {
		log.Warn("result cache write failed", zap.Error(err))
	}
}

// finish handles the "keep everything detected" shortcut of step 3: either
// the caller asked for zero tolls (request a toll-free route) or the
// baseline already satisfies the target (return it priced as-is).
func (f *Facade) finish(ctx context.Context, q Query, baseline domain.RouteProbe, kept []domain.DetectedToll, tollFree bool) (Outcome, error) {
	if tollFree {
		route, err := f.router.Route(ctx, router.Request{Origin: q.Origin, Destination: q.Destination, AvoidTolls: true})
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Route: route, Selection: domain.Selection{Reason: domain.ReasonTollFreeFallback}}, nil
	}

	total, breakdown := costing.Calculate(kept, f.model.Booths, f.model.Grid, q.Vehicle)
	return Outcome{
		Route: baseline,
		Selection: domain.Selection{
			Kept: kept, TotalCostEUR: total, Breakdown: breakdown, Reason: domain.ReasonCountMet,
		},
	}, nil
}

// finishSelection implements step 4/5 for every path that actually ran the
// selector: request a toll-free route on fallback, else a waypoint route
// through the selection's kept (possibly substituted) booths, then attach
// the already-priced Selection.
func (f *Facade) finishSelection(ctx context.Context, q Query, baseline domain.RouteProbe, sel domain.Selection) (Outcome, error) {
	if sel.Reason == domain.ReasonTollFreeFallback {
		route, err := f.router.Route(ctx, router.Request{Origin: q.Origin, Destination: q.Destination, AvoidTolls: true})
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Route: route, Selection: sel}, nil
	}

	if err := ctx.Err(); err != nil {
		return Outcome{}, apperrors.DeadlineExceeded("pipeline.finishSelection")
	}

	waypoints := make([]domain.Point, len(sel.Kept))
	for i, d := range sel.Kept {
		waypoints[i] = f.model.Booths[d.Booth].Point
	}
	for _, sub := range sel.Substitutions {
		if sub.Index >= 0 && sub.Index < len(waypoints) {
			waypoints[sub.Index] = f.model.Booths[sub.ReplacementBooth].Point
		}
	}

	route, err := f.router.Route(ctx, router.Request{Origin: q.Origin, Destination: q.Destination, Waypoints: waypoints})
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Route: route, Selection: sel}, nil
}
