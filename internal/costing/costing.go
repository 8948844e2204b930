// Package costing prices an ordered list of DetectedTolls per spec.md §4.9:
// flat fees for open booths, distance-based pricing for same-or-equivalent
// closed operators, and a zero-cost "operator break" when two closed
// booths belong to incompatible networks.
package costing

import (
	"math"

	"github.com/cyrizon/tollroute/internal/domain"
	"github.com/cyrizon/tollroute/internal/pkg/geo"
)

// Calculate prices kept under vehicle class v, returning the total in euros
// and the per-pair breakdown. booths must be indexable by every handle in
// kept.
func Calculate(kept []domain.DetectedToll, booths []domain.TollBooth, grid domain.PricingGrid, v domain.VehicleClass) (float64, []domain.PairCost) {
	if len(kept) == 0 {
		return 0, nil
	}

	counted := make(map[domain.BoothHandle]bool, len(kept))

	if len(kept) == 1 {
		b := booths[kept[0].Booth]
		if b.Kind == domain.BoothClosed {
			// Unreachable if the selector respects the closed-pair rule:
			// a lone closed booth cannot bill on its own.
			return 0, nil
		}
		amt, missing := addOpenFee(counted, kept[0].Booth, b, grid, v)
		return amt, []domain.PairCost{{FromIdx: 0, ToIdx: 0, AmountEUR: amt, MissingPrice: missing}}
	}

	var total float64
	var breakdown []domain.PairCost

	for i := 0; i < len(kept)-1; i++ {
		ha, hb := kept[i].Booth, kept[i+1].Booth
		a, b := booths[ha], booths[hb]

		var amt float64
		var missing, operatorBreak bool

		switch {
		case a.Kind == domain.BoothOpen && b.Kind == domain.BoothOpen:
			aAmt, aMiss := addOpenFee(counted, ha, a, grid, v)
			bAmt, bMiss := addOpenFee(counted, hb, b, grid, v)
			amt = aAmt + bAmt
			missing = aMiss || bMiss

		case a.Kind == domain.BoothOpen && b.Kind == domain.BoothClosed:
			amt, missing = addOpenFee(counted, ha, a, grid, v)

		case a.Kind == domain.BoothClosed && b.Kind == domain.BoothOpen:
			amt, missing = addOpenFee(counted, hb, b, grid, v)

		default: // closed, closed
			if grid.Equivalent(a.Operator, b.Operator) {
				amt, missing = perKmCost(a, b, grid, v)
			} else {
				operatorBreak = true
			}
		}

		total += amt
		breakdown = append(breakdown, domain.PairCost{
			FromIdx: i, ToIdx: i + 1, AmountEUR: amt, MissingPrice: missing, OperatorBreak: operatorBreak,
		})
	}

	return total, breakdown
}

// addOpenFee returns the open booth's flat fee the first time it appears in
// any pair, and 0 on every subsequent reference — this is what makes the
// first open booth's fee count once overall rather than once per pair.
func addOpenFee(counted map[domain.BoothHandle]bool, h domain.BoothHandle, b domain.TollBooth, grid domain.PricingGrid, v domain.VehicleClass) (float64, bool) {
	price, ok := lookupFlat(b, grid, v)
	if counted[h] {
		return 0, !ok
	}
	counted[h] = true
	return price, !ok
}

func lookupFlat(b domain.TollBooth, grid domain.PricingGrid, v domain.VehicleClass) (float64, bool) {
	row, ok := grid.FlatByName[b.Name]
	if !ok {
		return 0, false
	}
	return row.For(v)
}

// perKmCost prices a closed/closed pair by distance, using the destination
// booth's operator for the price table when it has one, else the source's.
func perKmCost(a, b domain.TollBooth, grid domain.PricingGrid, v domain.VehicleClass) (float64, bool) {
	op := b.Operator
	if op == "" {
		op = a.Operator
	}
	row, ok := grid.PerKm[op]
	if !ok {
		return 0, true
	}
	pricePerKm, ok := row.For(v)
	if !ok {
		return 0, true
	}
	return roundEUR(geo.HaversineKm(a.Point, b.Point) * pricePerKm), false
}

// roundEUR rounds to 2 decimal places, half away from zero, matching how
// the source pricing CSVs themselves are quoted.
func roundEUR(amount float64) float64 {
	scaled := amount * 100
	if scaled >= 0 {
		return math.Floor(scaled+0.5) / 100
	}
	return math.Ceil(scaled-0.5) / 100
}
