package domain

// PriceRow is a 5-tuple of prices, one per VehicleClass, in
// VehicleClasses order.
type PriceRow [5]float64

// For returns the price for v, and false if v is not a recognized class.
func (r PriceRow) For(v VehicleClass) (float64, bool) {
	idx := v.Index()
	if idx < 0 {
		return 0, false
	}
	return r[idx], true
}

// PricingGrid is immutable after load: a per-operator per-kilometre price
// table for closed booths, and a per-open-booth-name flat per-passage price
// table. Both are keyed exactly as the source CSVs name them (operator
// code, booth name).
type PricingGrid struct {
	PerKm      map[string]PriceRow // operator code -> price/km per class
	FlatByName map[string]PriceRow // open booth name -> flat price per class

	// EquivalentOperators groups operator codes that bill as if they were
	// one network for distance pricing (spec.md §9 Open Question: loaded
	// from configuration rather than hard-coded).
	EquivalentOperators [][]string
}

// Equivalent reports whether two operator codes belong to the same
// configured equivalence group, or are textually identical.
func (g PricingGrid) Equivalent(a, b string) bool {
	if a == b {
		return true
	}
	for _, group := range g.EquivalentOperators {
		inA, inB := false, false
		for _, op := range group {
			if op == a {
				inA = true
			}
			if op == b {
				inB = true
			}
		}
		if inA && inB {
			return true
		}
	}
	return false
}
