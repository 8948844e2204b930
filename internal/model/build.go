// Package model assembles the read-only offline Model from ingest, linker,
// and associator output, the way the teacher's repository layer composes a
// read model once at startup for every later query to share.
package model

import (
	"sort"

	"github.com/cyrizon/tollroute/internal/associator"
	"github.com/cyrizon/tollroute/internal/domain"
	"github.com/cyrizon/tollroute/internal/linker"
)

// Sources bundles the raw parsed ingest output the builder needs.
type Sources struct {
	Booths         []domain.TollBooth
	EntrySegments  []domain.RampSegment
	ExitSegments   []domain.RampSegment
	Indeterminate  []domain.RampSegment
	OpenTollRows   map[string]domain.PriceRow
	PerKmRows      map[string]domain.PriceRow
	EquivOperators [][]string
	IngestStats    domain.IngestStats
}

// AssociatorParams forwards the two geometric thresholds associator.Associate needs.
type AssociatorParams = associator.Params

// Orphans is the linker's leftover chains/segments, passed through Build so
// a caller that persists the Model (internal/cache) can also write them to
// the orphaned_segments.json sidecar for offline inspection.
type Orphans struct {
	Chains   [][]string
	Segments []string
}

// Build links ramps, associates them with booths, and assembles the final
// Model with its lookup indices populated.
func Build(src Sources, params AssociatorParams) (domain.Model, Orphans) {
	sort.Slice(src.Booths, func(i, j int) bool { return src.Booths[i].ID < src.Booths[j].ID })

	linked := linker.Link(src.EntrySegments, src.ExitSegments, src.Indeterminate)
	ramps := associator.Associate(src.Booths, linked.Ramps, params)

	stats := src.IngestStats
	stats.OrphanChains = len(linked.OrphanChains)
	stats.OrphanSegments = len(linked.OrphanSegments)
	stats.Associations = countAssociated(ramps)

	boothIndex := make(map[string]domain.BoothHandle, len(src.Booths))
	for i, b := range src.Booths {
		boothIndex[b.ID] = domain.BoothHandle(i)
	}
	rampIndex := make(map[string]domain.RampHandle, len(ramps))
	for i, r := range ramps {
		rampIndex[r.ID] = domain.RampHandle(i)
	}

	model := domain.Model{
		Booths: src.Booths,
		Ramps:  ramps,
		Grid: domain.PricingGrid{
			PerKm:               src.PerKmRows,
			FlatByName:          src.OpenTollRows,
			EquivalentOperators: src.EquivOperators,
		},
		Stats:      stats,
		BoothIndex: boothIndex,
		RampIndex:  rampIndex,
	}
	return model, Orphans{Chains: linked.OrphanChains, Segments: linked.OrphanSegments}
}

func countAssociated(ramps []domain.CompleteRamp) int {
	n := 0
	for _, r := range ramps {
		if r.Booth.Valid() {
			n++
		}
	}
	return n
}
