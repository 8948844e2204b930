package domain

// SelectionReason tags why the selector produced the kept list it did.
type SelectionReason string

const (
	ReasonCountMet             SelectionReason = "count-met"
	ReasonCountReduced         SelectionReason = "count-reduced"
	ReasonBudgetMet            SelectionReason = "budget-met"
	ReasonBudgetExitSubstitute SelectionReason = "budget-exit-substitution"
	ReasonTollFreeFallback     SelectionReason = "toll-free-fallback"
	ReasonInfeasible           SelectionReason = "infeasible"
)

// Substitution records that the booth originally at a given index in the
// detector's ordered list was replaced by an entry-ramp's associated booth
// (§4.8, the "exit optimization").
type Substitution struct {
	Index             int // index into the pre-substitution kept list
	OriginalBooth     BoothHandle
	ReplacementBooth  BoothHandle
	RampID            string
}

// PairCost is the priced contribution of one consecutive booth pair,
// produced by internal/costing and carried through to the caller.
type PairCost struct {
	FromIdx      int
	ToIdx        int
	AmountEUR    float64
	MissingPrice bool
	OperatorBreak bool
}

// Selection is the selector's query-time output: the kept, ordered toll
// list (after any substitution), its total cost, and a reason tag. It
// never represents failure — an empty Selection tagged ReasonTollFreeFallback
// is a valid, successful answer.
type Selection struct {
	Kept          []DetectedToll
	Substitutions []Substitution
	TotalCostEUR  float64
	Breakdown     []PairCost
	Reason        SelectionReason
}

// ClosedCount counts closed booths in kept, given a booth-kind lookup.
func (s Selection) ClosedCount(kind func(BoothHandle) BoothKind) int {
	n := 0
	for _, d := range s.Kept {
		if kind(d.Booth) == BoothClosed {
			n++
		}
	}
	return n
}

// RespectsClosedPairRule reports whether kept has zero or at least two
// closed booths — a solitary closed booth cannot bill a user.
func (s Selection) RespectsClosedPairRule(kind func(BoothHandle) BoothKind) bool {
	n := s.ClosedCount(kind)
	return n == 0 || n >= 2
}
