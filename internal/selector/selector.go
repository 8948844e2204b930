// Package selector implements spec.md §4.7: choosing which on-route toll
// booths to keep for a count target or a budget cap, while always
// respecting the closed-pair rule and falling back to a toll-free route
// when no valid kept set exists.
package selector

import (
	"sort"

	"github.com/cyrizon/tollroute/internal/costing"
	"github.com/cyrizon/tollroute/internal/domain"
	"github.com/cyrizon/tollroute/internal/optimizer"
	"github.com/cyrizon/tollroute/internal/pkg/geo"
)

// Deps bundles the read-only model state and geometric parameters the
// selector needs to price candidates and run the exit optimizer.
type Deps struct {
	Booths     []domain.TollBooth
	Ramps      []domain.CompleteRamp
	Grid       domain.PricingGrid
	Route      domain.RouteProbe
	OptParams  optimizer.Params
	EntryIndex *optimizer.EntryIndex
}

func tollFree() domain.Selection {
	return domain.Selection{Reason: domain.ReasonTollFreeFallback}
}

func (d Deps) kind(h domain.BoothHandle) domain.BoothKind { return d.Booths[h].Kind }

func (d Deps) price(kept []domain.DetectedToll, v domain.VehicleClass) domain.Selection {
	total, breakdown := costing.Calculate(kept, d.Booths, d.Grid, v)
	return domain.Selection{Kept: kept, TotalCostEUR: total, Breakdown: breakdown}
}

// SelectCount implements §4.7.2.
func (d Deps) SelectCount(l []domain.DetectedToll, v domain.VehicleClass, target int) domain.Selection {
	if target == 0 {
		return tollFree()
	}
	if len(l) <= target {
		sel := d.price(l, v)
		sel.Reason = domain.ReasonCountMet
		return sel
	}
	if target == 1 && !anyOpen(l, d.Booths) {
		return tollFree()
	}

	kept, ok := reduceToTarget(l, d.Booths, target)
	if !ok {
		return tollFree()
	}

	kept = d.maybeOptimizeExit(kept, l, v)

	sel := d.price(kept, v)
	sel.Reason = domain.ReasonCountReduced
	return sel
}

func anyOpen(l []domain.DetectedToll, booths []domain.TollBooth) bool {
	for _, d := range l {
		if booths[d.Booth].Kind == domain.BoothOpen {
			return true
		}
	}
	return false
}

// reduceToTarget drops booths one at a time, per §4.7.2 step 4, until
// exactly target remain. Each drop is chosen so the result never leaves
// the kept set with exactly one closed booth; when no single drop can
// avoid that, the selection fails and the caller falls back to a
// toll-free route rather than silently dropping two booths in one step.
func reduceToTarget(l []domain.DetectedToll, booths []domain.TollBooth, target int) ([]domain.DetectedToll, bool) {
	kept := append([]domain.DetectedToll(nil), l...)

	for len(kept) > target {
		dropIdx := pickDropIndex(kept, booths)
		if dropIdx < 0 {
			return nil, false
		}
		kept = dropAt(kept, dropIdx)
	}

	return kept, true
}

// pickDropIndex chooses the next booth to drop: closed booths are
// preferred over open ones, and the earliest booth along the route
// within the preferred kind is chosen, but never a drop that would
// leave the kept set with exactly one closed booth. When every closed
// booth would trigger that, an open booth is dropped instead.
func pickDropIndex(kept []domain.DetectedToll, booths []domain.TollBooth) int {
	closedTotal := closedCount(kept, booths)

	for i, d := range kept {
		if booths[d.Booth].Kind != domain.BoothClosed {
			continue
		}
		if closedTotal-1 == 1 {
			continue
		}
		return i
	}
	for i, d := range kept {
		if booths[d.Booth].Kind == domain.BoothOpen {
			return i
		}
	}
	return -1
}

func dropAt(kept []domain.DetectedToll, idx int) []domain.DetectedToll {
	out := make([]domain.DetectedToll, 0, len(kept)-1)
	out = append(out, kept[:idx]...)
	out = append(out, kept[idx+1:]...)
	return out
}

func closedCount(kept []domain.DetectedToll, booths []domain.TollBooth) int {
	n := 0
	for _, d := range kept {
		if booths[d.Booth].Kind == domain.BoothClosed {
			n++
		}
	}
	return n
}

// maybeOptimizeExit implements §4.7.2 step 5: when the reduced kept set
// still ends before the original list's last booth, the driver must keep
// driving past one or more dropped tolls to reach it, so the last kept
// closed booth is a candidate for an exit substitution instead of being
// paid outright.
func (d Deps) maybeOptimizeExit(kept, original []domain.DetectedToll, v domain.VehicleClass) []domain.DetectedToll {
	if len(kept) == 0 || len(original) == 0 {
		return kept
	}
	last := kept[len(kept)-1]
	lastOriginal := original[len(original)-1]
	if last.Booth == lastOriginal.Booth {
		return kept // nothing downstream remains unselected
	}
	if d.Booths[last.Booth].Kind != domain.BoothClosed {
		return kept
	}

	prevPos := 0.0
	prevBooth := domain.TollBooth{Point: d.Route.Polyline[0]}
	if len(kept) >= 2 {
		prevPos = kept[len(kept)-2].Position
		prevBooth = d.Booths[kept[len(kept)-2].Booth]
	}

	sub, found := optimizer.FindSubstitute(d.Route, d.Ramps, d.Booths, prevBooth, d.Booths[last.Booth], prevPos, last.Position, d.OptParams, d.EntryIndex)
	if !found {
		return kept
	}

	dist, idx, pos := geo.ProjectToPolyline(sub.Point, d.Route.Polyline)
	replaced := append([]domain.DetectedToll(nil), kept...)
	replaced[len(replaced)-1] = domain.DetectedToll{Booth: sub.Ramp.Booth, RouteIdx: idx, DistanceM: dist, Position: pos}
	return replaced
}

// SelectBudget implements §4.7.3.
func (d Deps) SelectBudget(l []domain.DetectedToll, v domain.VehicleClass, budget float64) domain.Selection {
	base := d.price(l, v)
	if base.TotalCostEUR <= budget {
		base.Reason = domain.ReasonBudgetMet
		base.Kept = l
		return base
	}

	for i, dt := range l {
		if d.Booths[dt.Booth].Kind != domain.BoothClosed {
			continue
		}

		prevPos := 0.0
		prevBooth := domain.TollBooth{Point: d.Route.Polyline[0]}
		if i > 0 {
			prevPos = l[i-1].Position
			prevBooth = d.Booths[l[i-1].Booth]
		}

		sub, found := optimizer.FindSubstitute(d.Route, d.Ramps, d.Booths, prevBooth, d.Booths[dt.Booth], prevPos, dt.Position, d.OptParams, d.EntryIndex)
		if !found {
			continue
		}

		dist, idx, pos := geo.ProjectToPolyline(sub.Point, d.Route.Polyline)
		trial := append([]domain.DetectedToll(nil), l...)
		trial[i] = domain.DetectedToll{Booth: sub.Ramp.Booth, RouteIdx: idx, DistanceM: dist, Position: pos}

		sel := d.price(trial, v)
		if sel.TotalCostEUR <= budget {
			sel.Reason = domain.ReasonBudgetExitSubstitute
			sel.Substitutions = []domain.Substitution{{
				Index: i, OriginalBooth: dt.Booth, ReplacementBooth: sub.Ramp.Booth, RampID: sub.Ramp.ID,
			}}
			return sel
		}
	}

	openOnly := filterOpen(l, d.Booths)
	if len(openOnly) > 0 {
		sel := d.price(openOnly, v)
		if sel.TotalCostEUR <= budget {
			sel.Reason = domain.ReasonBudgetMet
			return sel
		}
	}

	return tollFree()
}

func filterOpen(l []domain.DetectedToll, booths []domain.TollBooth) []domain.DetectedToll {
	var out []domain.DetectedToll
	for _, d := range l {
		if booths[d.Booth].Kind == domain.BoothOpen {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
