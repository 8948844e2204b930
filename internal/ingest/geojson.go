// Package ingest implements spec.md §4.1: parsing the four GeoJSON source
// files into typed TollBooth and RampSegment records. A single malformed
// feature is logged and skipped, never fatal — only whole-file read/parse
// failures are returned as errors.
//
// Geometries are decoded with github.com/paulmach/go.geojson rather than
// ad hoc encoding/json structs, the way angelodlfrtr-valhalla-http-client-go
// depends on it for the same FeatureCollection/Point/LineString shapes.
package ingest

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
	"go.uber.org/zap"

	"github.com/cyrizon/tollroute/internal/domain"
)

// BoothResult is the outcome of parsing the toll-booths GeoJSON file.
type BoothResult struct {
	Booths []domain.TollBooth
	Stats  domain.IngestStats
}

// ParseTollBooths decodes a toll_booths.geojson FeatureCollection.
// openTollNames is the roster of booth names billed as open (flat
// per-passage); it decides a booth's Kind when the feature's barrier
// property does not (see classifyKind).
// Booths with an empty operator string are dropped entirely (spec.md §9
// Open Question) and counted in Stats.BoothsDroppedNoOp.
func ParseTollBooths(data []byte, openTollNames map[string]bool, log *zap.Logger) (BoothResult, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return BoothResult{}, fmt.Errorf("ingest: toll booths: %w", err)
	}

	var result BoothResult
	for _, feature := range fc.Features {
		booth, ok := parseBoothFeature(feature, openTollNames, log)
		if !ok {
			result.Stats.FeaturesSkippedParse++
			continue
		}
		if booth.Operator == "" {
			result.Stats.BoothsDroppedNoOp++
			continue
		}
		result.Booths = append(result.Booths, booth)
		result.Stats.BoothsParsed++
	}

	return result, nil
}

func parseBoothFeature(f *geojson.Feature, openTollNames map[string]bool, log *zap.Logger) (domain.TollBooth, bool) {
	if f.Geometry == nil || !f.Geometry.IsPoint() {
		log.Warn("ingest: skipping non-point toll booth feature", zap.Any("feature_id", f.ID))
		return domain.TollBooth{}, false
	}

	coords := f.Geometry.Point
	if len(coords) != 2 {
		log.Warn("ingest: skipping malformed booth coordinate", zap.Any("feature_id", f.ID))
		return domain.TollBooth{}, false
	}
	p := domain.Point{Lon: coords[0], Lat: coords[1]}
	if !p.Finite() {
		log.Warn("ingest: skipping non-finite booth coordinate", zap.Any("feature_id", f.ID))
		return domain.TollBooth{}, false
	}

	id := propertyStringOr(f, "id", fmt.Sprintf("%v", f.ID))
	name := propertyStringOr(f, "name", "")
	operator := propertyStringOr(f, "operator", "")
	barrier := propertyStringOr(f, "barrier", "")

	kind := classifyKind(barrier, name, openTollNames)

	return domain.TollBooth{
		ID:       id,
		Point:    p,
		Name:     name,
		Operator: operator,
		Kind:     kind,
	}, true
}

// classifyKind decides a booth's Kind from its "barrier" property first
// (spec.md §6.1: "barrier ... used to distinguish open/closed"), falling
// back to the open_tolls.csv name roster when barrier is absent or not one
// of the two recognized values.
func classifyKind(barrier, name string, openTollNames map[string]bool) domain.BoothKind {
	switch barrier {
	case "open":
		return domain.BoothOpen
	case "closed":
		return domain.BoothClosed
	}
	if openTollNames[name] {
		return domain.BoothOpen
	}
	return domain.BoothClosed
}

// RampResult is the outcome of parsing one of the three motorway-ramp
// GeoJSON files (entries, exits, indeterminate).
type RampResult struct {
	Segments []domain.RampSegment
	Skipped  int
}

// ParseRampSegments decodes a motorway_{entries,exits,indeterminate}.geojson
// FeatureCollection, tagging every segment with role.
func ParseRampSegments(data []byte, role domain.RampRole, log *zap.Logger) (RampResult, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return RampResult{}, fmt.Errorf("ingest: %s segments: %w", role, err)
	}

	var result RampResult
	for _, feature := range fc.Features {
		seg, ok := parseRampFeature(feature, role, log)
		if !ok {
			result.Skipped++
			continue
		}
		result.Segments = append(result.Segments, seg)
	}

	return result, nil
}

func parseRampFeature(f *geojson.Feature, role domain.RampRole, log *zap.Logger) (domain.RampSegment, bool) {
	if f.Geometry == nil || !f.Geometry.IsLineString() {
		log.Warn("ingest: skipping non-linestring ramp feature", zap.String("role", string(role)), zap.Any("feature_id", f.ID))
		return domain.RampSegment{}, false
	}

	raw := f.Geometry.LineString
	if len(raw) < 2 {
		log.Warn("ingest: skipping ramp segment with fewer than 2 coordinates", zap.Any("feature_id", f.ID))
		return domain.RampSegment{}, false
	}

	coords := make([]domain.Point, 0, len(raw))
	for _, c := range raw {
		if len(c) != 2 {
			log.Warn("ingest: skipping ramp feature with malformed coordinate", zap.Any("feature_id", f.ID))
			return domain.RampSegment{}, false
		}
		p := domain.Point{Lon: c[0], Lat: c[1]}
		if !p.Finite() {
			log.Warn("ingest: skipping ramp feature with non-finite coordinate", zap.Any("feature_id", f.ID))
			return domain.RampSegment{}, false
		}
		coords = append(coords, p)
	}

	id := propertyStringOr(f, "id", fmt.Sprintf("%v", f.ID))

	var destination *string
	if dest := propertyStringOr(f, "destination", ""); dest != "" {
		destination = &dest
	}

	return domain.RampSegment{
		ID:          id,
		Coordinates: coords,
		Role:        role,
		Destination: destination,
	}, true
}

func propertyStringOr(f *geojson.Feature, key, fallback string) string {
	if f.Properties == nil {
		return fallback
	}
	if v, ok := f.Properties[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}
