// Package config loads process configuration from the environment via
// viper, the way the teacher's internal/config does, generalized from a
// location-enrichment service's sections to this system's: source data
// paths, offline-model thresholds, the routing engine endpoint, and the
// optional query result cache.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log     LogConfig
	Sources SourcesConfig
	Cache   CacheConfig
	Model   ModelConfig
	Router  RouterConfig
	Result  ResultCacheConfig
}

type LogConfig struct {
	Level string
}

// SourcesConfig points at the four GeoJSON feeds and two pricing CSVs of
// spec.md §6.1.
type SourcesConfig struct {
	TollBoothsPath        string
	MotorwayEntriesPath   string
	MotorwayExitsPath     string
	MotorwayIndeterminate string
	OpenTollsCSVPath      string
	PricePerKmCSVPath     string
}

// CacheConfig points at the persistent offline-model cache directory
// (metadata.json / cache_data.bin / orphaned_segments.json, spec.md §6.3).
type CacheConfig struct {
	Dir string
}

// ModelConfig holds the tunable geometric thresholds named throughout
// spec.md §4: associator search margin/epsilon, detector prefilter/on-route
// /nearby radii, exit-optimizer search radii, and the operator equivalence
// roster (an Open Question in spec.md §9 — loaded here, not hard-coded).
type ModelConfig struct {
	AssociatorBBoxMarginDeg    float64
	AssociatorMaxDistanceM     float64
	DetectorPrefilterMarginDeg float64
	DetectorOnRouteM           float64
	DetectorNearbyM            float64
	DetectorDedupeM            float64
	OptimizerSearchRadiusM     float64
	OptimizerSegmentMaxM       float64
	EquivalentOperators        [][]string
}

// RouterConfig points at the black-box routing engine adapter.
type RouterConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// ResultCacheConfig configures the optional query-result cache
// (SPEC_FULL.md §4.10-EXPANDED). When Addr is empty the facade falls back
// to an in-process map, never to Redis.
type ResultCacheConfig struct {
	Addr string
	TTL  time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// A missing .env is not fatal here: every setting below has a usable
	// default and the environment may supply overrides directly.
	_ = viper.ReadInConfig()

	cfg := &Config{
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Sources: SourcesConfig{
			TollBoothsPath:        viper.GetString("TOLLROUTE_TOLL_BOOTHS_PATH"),
			MotorwayEntriesPath:   viper.GetString("TOLLROUTE_MOTORWAY_ENTRIES_PATH"),
			MotorwayExitsPath:     viper.GetString("TOLLROUTE_MOTORWAY_EXITS_PATH"),
			MotorwayIndeterminate: viper.GetString("TOLLROUTE_MOTORWAY_INDETERMINATE_PATH"),
			OpenTollsCSVPath:      viper.GetString("TOLLROUTE_OPEN_TOLLS_CSV_PATH"),
			PricePerKmCSVPath:     viper.GetString("TOLLROUTE_PRICE_PER_KM_CSV_PATH"),
		},
		Cache: CacheConfig{
			Dir: viper.GetString("TOLLROUTE_CACHE_DIR"),
		},
		Model: ModelConfig{
			AssociatorBBoxMarginDeg:    viper.GetFloat64("TOLLROUTE_ASSOCIATOR_BBOX_MARGIN_DEG"),
			AssociatorMaxDistanceM:     viper.GetFloat64("TOLLROUTE_ASSOCIATOR_MAX_DISTANCE_M"),
			DetectorPrefilterMarginDeg: viper.GetFloat64("TOLLROUTE_DETECTOR_PREFILTER_MARGIN_DEG"),
			DetectorOnRouteM:           viper.GetFloat64("TOLLROUTE_DETECTOR_ON_ROUTE_M"),
			DetectorNearbyM:            viper.GetFloat64("TOLLROUTE_DETECTOR_NEARBY_M"),
			DetectorDedupeM:            viper.GetFloat64("TOLLROUTE_DETECTOR_DEDUPE_M"),
			OptimizerSearchRadiusM:     viper.GetFloat64("TOLLROUTE_OPTIMIZER_SEARCH_RADIUS_M"),
			OptimizerSegmentMaxM:       viper.GetFloat64("TOLLROUTE_OPTIMIZER_SEGMENT_MAX_M"),
			EquivalentOperators:        parseOperatorGroups(viper.GetString("TOLLROUTE_EQUIVALENT_OPERATORS")),
		},
		Router: RouterConfig{
			BaseURL:        viper.GetString("TOLLROUTE_ROUTER_BASE_URL"),
			RequestTimeout: time.Duration(viper.GetInt("TOLLROUTE_ROUTER_TIMEOUT_MS")) * time.Millisecond,
		},
		Result: ResultCacheConfig{
			Addr: viper.GetString("TOLLROUTE_RESULT_CACHE_ADDR"),
			TTL:  time.Duration(viper.GetInt("TOLLROUTE_RESULT_CACHE_TTL_S")) * time.Second,
		},
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = "./cache"
	}
	if cfg.Model.AssociatorBBoxMarginDeg == 0 {
		cfg.Model.AssociatorBBoxMarginDeg = 0.02
	}
	if cfg.Model.AssociatorMaxDistanceM == 0 {
		cfg.Model.AssociatorMaxDistanceM = 2.0
	}
	if cfg.Model.DetectorPrefilterMarginDeg == 0 {
		cfg.Model.DetectorPrefilterMarginDeg = 0.015
	}
	if cfg.Model.DetectorOnRouteM == 0 {
		cfg.Model.DetectorOnRouteM = 50.0
	}
	if cfg.Model.DetectorNearbyM == 0 {
		cfg.Model.DetectorNearbyM = 1000.0
	}
	if cfg.Model.DetectorDedupeM == 0 {
		cfg.Model.DetectorDedupeM = 1.0
	}
	if cfg.Model.OptimizerSearchRadiusM == 0 {
		cfg.Model.OptimizerSearchRadiusM = 5000.0
	}
	if cfg.Model.OptimizerSegmentMaxM == 0 {
		cfg.Model.OptimizerSegmentMaxM = 1000.0
	}
	if len(cfg.Model.EquivalentOperators) == 0 {
		cfg.Model.EquivalentOperators = [][]string{{"ASF", "COFIROUTE", "ESCOTA"}}
	}
	if cfg.Router.RequestTimeout == 0 {
		cfg.Router.RequestTimeout = 10 * time.Second
	}
	if cfg.Result.TTL == 0 {
		cfg.Result.TTL = 5 * time.Minute
	}
}

// parseOperatorGroups parses "ASF,COFIROUTE,ESCOTA;APRR,AREA" into groups.
func parseOperatorGroups(s string) [][]string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var groups [][]string
	for _, group := range strings.Split(s, ";") {
		var ops []string
		for _, op := range strings.Split(group, ",") {
			if trimmed := strings.TrimSpace(op); trimmed != "" {
				ops = append(ops, trimmed)
			}
		}
		if len(ops) > 0 {
			groups = append(groups, ops)
		}
	}
	return groups
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{cache=%s, router=%s}", c.Cache.Dir, c.Router.BaseURL)
}
