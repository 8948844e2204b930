// Package linker reconstructs physically connected on/off ramps out of the
// raw entry, exit, and indeterminate LineString segments that ingest
// produces. It is the Go shape of original_source's
// SegmentChainBuilder.build_chains(): chain indeterminate segments by exact
// coordinate equality first, then attach an entry or exit segment to each
// chain's open end, and finally fall back to a single-segment ramp for
// anything that never joined a chain.
package linker

import (
	"sort"

	"github.com/cyrizon/tollroute/internal/domain"
)

// Result is the outcome of one linking pass.
type Result struct {
	Ramps           []domain.CompleteRamp
	OrphanChains    [][]string // segment ID chains that attached to nothing
	OrphanSegments  []string   // singleton indeterminate segments that attached to nothing
}

// chain is a mutable, growable sequence of indeterminate segments, always
// stored in travel order (chain.segments[0] is the chain's current start).
type chain struct {
	segments []domain.RampSegment
}

func (c *chain) start() domain.Point { return c.segments[0].Start() }
func (c *chain) end() domain.Point   { return c.segments[len(c.segments)-1].End() }

func (c *chain) ids() []string {
	ids := make([]string, len(c.segments))
	for i, s := range c.segments {
		ids[i] = s.ID
	}
	return ids
}

// Link builds CompleteRamps from the three raw segment slices. Every slice
// is sorted by segment ID before processing so the result is deterministic
// regardless of source-file feature order.
func Link(entries, exits, indeterminate []domain.RampSegment) Result {
	available := append([]domain.RampSegment(nil), indeterminate...)
	sort.Slice(available, func(i, j int) bool { return available[i].ID < available[j].ID })

	chains := buildChains(available)

	entries = sortedCopy(entries)
	exits = sortedCopy(exits)

	used := make([]bool, len(chains))
	var ramps []domain.CompleteRamp

	// Attach entries: an entry ramp onto the motorway picks up a chain whose
	// open end lands exactly where the entry segment begins.
	for _, e := range entries {
		idx := findChain(chains, used, func(c *chain) bool { return c.end() == e.Start() })
		if idx < 0 {
			ramps = append(ramps, simpleRamp(e, domain.RampEntry))
			continue
		}
		used[idx] = true
		ramps = append(ramps, joinedRamp(chains[idx], e, domain.RampEntry, true))
	}

	// Attach exits: an exit ramp off the motorway picks up a chain whose
	// open end lands exactly where the exit segment ends.
	for _, x := range exits {
		idx := findChain(chains, used, func(c *chain) bool { return c.start() == x.End() })
		if idx < 0 {
			ramps = append(ramps, simpleRamp(x, domain.RampExit))
			continue
		}
		used[idx] = true
		ramps = append(ramps, joinedRamp(chains[idx], x, domain.RampExit, false))
	}

	sort.Slice(ramps, func(i, j int) bool { return ramps[i].ID < ramps[j].ID })

	result := Result{Ramps: ramps}
	for i, c := range chains {
		if used[i] {
			continue
		}
		if len(c.segments) == 1 {
			result.OrphanSegments = append(result.OrphanSegments, c.segments[0].ID)
		} else {
			result.OrphanChains = append(result.OrphanChains, c.ids())
		}
	}
	sort.Strings(result.OrphanSegments)
	sort.Slice(result.OrphanChains, func(i, j int) bool { return result.OrphanChains[i][0] < result.OrphanChains[j][0] })

	return result
}

// buildChains repeatedly either extends an existing chain at its open head
// or tail by a segment whose matching endpoint equals that open end, or
// starts a new chain from the lexicographically smallest remaining segment.
// It stops when no available segment remains. Every indeterminate segment
// therefore ends up in exactly one chain, possibly a chain of one.
func buildChains(available []domain.RampSegment) []*chain {
	remaining := append([]domain.RampSegment(nil), available...)
	var chains []*chain

	for len(remaining) > 0 {
		extended := true
		for extended {
			extended = false
			for i := 0; i < len(remaining); i++ {
				seg := remaining[i]
				attached := false
				for _, c := range chains {
					switch {
					case seg.Start() == c.end():
						c.segments = append(c.segments, seg)
						attached = true
					case seg.End() == c.start():
						c.segments = append([]domain.RampSegment{seg}, c.segments...)
						attached = true
					}
					if attached {
						break
					}
				}
				if attached {
					remaining = append(remaining[:i], remaining[i+1:]...)
					extended = true
					break
				}
			}
		}

		if len(remaining) == 0 {
			break
		}
		// Full pass extended nothing further: seed a new chain from the
		// smallest-ID remaining segment and continue.
		seed := remaining[0]
		remaining = remaining[1:]
		chains = append(chains, &chain{segments: []domain.RampSegment{seed}})
	}

	return chains
}

func findChain(chains []*chain, used []bool, match func(*chain) bool) int {
	for i, c := range chains {
		if used[i] {
			continue
		}
		if match(c) {
			return i
		}
	}
	return -1
}

func simpleRamp(seg domain.RampSegment, t domain.RampType) domain.CompleteRamp {
	return domain.CompleteRamp{
		ID:         seg.ID,
		Type:       t,
		SegmentIDs: []string{seg.ID},
		Polyline:   append([]domain.Point(nil), seg.Coordinates...),
		Booth:      domain.InvalidHandle,
	}
}

// joinedRamp concatenates a chain with an entry or exit segment. entryOrder
// true places the chain first then the entry segment (chain -> motorway);
// false places the segment first then the chain (motorway -> exit).
func joinedRamp(c *chain, seg domain.RampSegment, t domain.RampType, entryOrder bool) domain.CompleteRamp {
	var ids []string
	var poly []domain.Point

	if entryOrder {
		ids = append(ids, c.ids()...)
		ids = append(ids, seg.ID)
		for i, s := range c.segments {
			if i == 0 {
				poly = append(poly, s.Coordinates...)
			} else {
				poly = append(poly, s.Coordinates[1:]...)
			}
		}
		poly = append(poly, seg.Coordinates[1:]...)
	} else {
		ids = append(ids, seg.ID)
		ids = append(ids, c.ids()...)
		poly = append(poly, seg.Coordinates...)
		for _, s := range c.segments {
			poly = append(poly, s.Coordinates[1:]...)
		}
	}

	return domain.CompleteRamp{
		ID:         seg.ID,
		Type:       t,
		SegmentIDs: ids,
		Polyline:   poly,
		Booth:      domain.InvalidHandle,
	}
}

func sortedCopy(segs []domain.RampSegment) []domain.RampSegment {
	out := append([]domain.RampSegment(nil), segs...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
