package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cyrizon/tollroute/internal/cache"
	"github.com/cyrizon/tollroute/internal/config"
	"github.com/cyrizon/tollroute/internal/domain"
	"github.com/cyrizon/tollroute/internal/ingest"
	"github.com/cyrizon/tollroute/internal/model"
	apperrors "github.com/cyrizon/tollroute/internal/pkg/errors"
	"github.com/cyrizon/tollroute/internal/pkg/logger"
	"github.com/cyrizon/tollroute/internal/pkg/validator"
	"github.com/cyrizon/tollroute/internal/pipeline"
	"github.com/cyrizon/tollroute/internal/resultcache"
	"github.com/cyrizon/tollroute/internal/router"
)

// cliQuery is the shape a command-line demo run is validated against
// before it ever reaches pipeline.Query — the struct-tag boundary
// validator.Validate exists for.
type cliQuery struct {
	OriginLat float64 `validate:"latitude"`
	OriginLon float64 `validate:"longitude"`
	DestLat   float64 `validate:"latitude"`
	DestLon   float64 `validate:"longitude"`
	Vehicle   string  `validate:"required,oneof=c1 c2 c3 c4 c5"`
}

func main() {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Initialize logger.
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("starting tollroute", zap.String("cache_dir", cfg.Cache.Dir))

	// 3. Parse the demo query off the command line.
	var q cliQuery
	flag.Float64Var(&q.OriginLat, "origin-lat", 48.6, "origin latitude")
	flag.Float64Var(&q.OriginLon, "origin-lon", 2.4, "origin longitude")
	flag.Float64Var(&q.DestLat, "dest-lat", 43.3, "destination latitude")
	flag.Float64Var(&q.DestLon, "dest-lon", 5.4, "destination longitude")
	flag.StringVar(&q.Vehicle, "vehicle", "c1", "vehicle class (c1..c5)")
	target := flag.Int("target", 2, "maximum number of tolls to keep (count mode)")
	budget := flag.Float64("budget", 0, "maximum euros to spend (budget mode; overrides -target when > 0)")
	flag.Parse()

	if err := validator.Validate(q); err != nil {
		log.Fatal("invalid query", zap.Error(err))
	}

	// 4. Build or load the offline Model.
	m, err := loadOrBuildModel(cfg, log)
	if err != nil {
		log.Fatal("failed to build model", zap.Error(err))
	}
	log.Info("model ready",
		zap.Int("booths", len(m.Booths)),
		zap.Int("complete_ramps", len(m.Ramps)),
		zap.Int("associations", m.Stats.Associations))

	// 5. Wire the routing engine adapter and the optional result cache.
	rt := router.NewHTTPRouter(cfg.Router, log)
	rc, err := resultcache.New(cfg.Result, log)
	if err != nil {
		log.Fatal("failed to initialize result cache", zap.Error(err))
	}
	defer rc.Close()

	// 6. Assemble the pipeline facade.
	facade := pipeline.New(&m, rt, pipeline.Params{
		DetectorPrefilterMarginDeg: cfg.Model.DetectorPrefilterMarginDeg,
		DetectorOnRouteM:           cfg.Model.DetectorOnRouteM,
		DetectorNearbyM:            cfg.Model.DetectorNearbyM,
		DetectorDedupeM:            cfg.Model.DetectorDedupeM,
		OptimizerSearchRadiusM:     cfg.Model.OptimizerSearchRadiusM,
		OptimizerSegmentMaxM:       cfg.Model.OptimizerSegmentMaxM,
	}, log, rc)

	// 7. Run the demo query.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Router.RequestTimeout+5*time.Second)
	defer cancel()

	query := pipeline.Query{
		Origin:      domain.Point{Lat: q.OriginLat, Lon: q.OriginLon},
		Destination: domain.Point{Lat: q.DestLat, Lon: q.DestLon},
		Vehicle:     domain.VehicleClass(q.Vehicle),
	}

	var outcome pipeline.Outcome
	if *budget > 0 {
		outcome, err = facade.FindRouteBudget(ctx, query, *budget)
	} else {
		outcome, err = facade.FindRouteCount(ctx, query, *target)
	}
	if err != nil {
		reportQueryError(log, err)
		os.Exit(1)
	}

	fmt.Printf("reason=%s total_cost_eur=%.2f tolls_kept=%d distance_m=%.0f\n",
		outcome.Selection.Reason, outcome.Selection.TotalCostEUR, len(outcome.Selection.Kept), outcome.Route.DistanceMeters)
}

// loadOrBuildModel tries the persistent cache first and falls back to a
// full ingest + link + associate pass on any CacheStale/CacheCorrupt
// error, saving the freshly built Model back to the cache directory
// before returning it.
func loadOrBuildModel(cfg *config.Config, log *zap.Logger) (domain.Model, error) {
	sourcePaths := []string{
		cfg.Sources.TollBoothsPath,
		cfg.Sources.MotorwayEntriesPath,
		cfg.Sources.MotorwayExitsPath,
		cfg.Sources.MotorwayIndeterminate,
		cfg.Sources.OpenTollsCSVPath,
		cfg.Sources.PricePerKmCSVPath,
	}

	m, err := cache.Load(cfg.Cache.Dir, sourcePaths, log)
	if err == nil {
		log.Info("model loaded from cache", zap.String("dir", cfg.Cache.Dir))
		return m, nil
	}

	var appErr *apperrors.Error
	if e, ok := err.(*apperrors.Error); ok {
		appErr = e
	}
	if appErr == nil || (appErr.Kind != apperrors.KindCacheStale && appErr.Kind != apperrors.KindCacheCorrupt) {
		return domain.Model{}, err
	}
	log.Info("cache miss, rebuilding model", zap.String("reason", string(appErr.Kind)))

	loaded, err := ingest.LoadAll(ingest.Paths{
		TollBooths:       cfg.Sources.TollBoothsPath,
		MotorwayEntries:  cfg.Sources.MotorwayEntriesPath,
		MotorwayExits:    cfg.Sources.MotorwayExitsPath,
		MotorwayIndeterm: cfg.Sources.MotorwayIndeterminate,
		OpenTollsCSV:     cfg.Sources.OpenTollsCSVPath,
		PricePerKmCSV:    cfg.Sources.PricePerKmCSVPath,
	}, log)
	if err != nil {
		return domain.Model{}, err
	}

	built, orphans := model.Build(model.Sources{
		Booths:         loaded.Booths,
		EntrySegments:  loaded.EntrySegments,
		ExitSegments:   loaded.ExitSegments,
		Indeterminate:  loaded.Indeterminate,
		OpenTollRows:   loaded.OpenTollRows,
		PerKmRows:      loaded.PerKmRows,
		EquivOperators: cfg.Model.EquivalentOperators,
		IngestStats:    loaded.Stats,
	}, model.AssociatorParams{
		BBoxMarginDeg: cfg.Model.AssociatorBBoxMarginDeg,
		MaxDistanceM:  cfg.Model.AssociatorMaxDistanceM,
	})

	if err := cache.Save(cfg.Cache.Dir, built, sourcePaths, cache.Orphans{
		Chains: orphans.Chains, Segments: orphans.Segments,
	}, log); err != nil {
		log.Error("failed to persist model cache, continuing without it", zap.Error(err))
	}

	return built, nil
}

// reportQueryError logs the surfaced error kinds (spec.md §7) without ever
// panicking the process over a single bad query.
func reportQueryError(log *zap.Logger, err error) {
	if appErr, ok := err.(*apperrors.Error); ok {
		log.Error("query failed", zap.String("kind", string(appErr.Kind)), zap.String("op", appErr.Op), zap.Error(err))
		return
	}
	log.Error("query failed", zap.Error(err))
}
