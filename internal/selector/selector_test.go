package selector

import (
	"testing"

	"github.com/cyrizon/tollroute/internal/domain"
)

func closedBooth(id, operator string, lon float64) domain.TollBooth {
	return domain.TollBooth{ID: id, Kind: domain.BoothClosed, Operator: operator, Point: domain.Point{Lon: lon, Lat: 0}}
}

func openBooth(id, name string, lon float64) domain.TollBooth {
	return domain.TollBooth{ID: id, Kind: domain.BoothOpen, Name: name, Point: domain.Point{Lon: lon, Lat: 0}}
}

func deps(booths []domain.TollBooth) Deps {
	return Deps{
		Booths: booths,
		Grid:   domain.PricingGrid{PerKm: map[string]domain.PriceRow{}, FlatByName: map[string]domain.PriceRow{}},
		Route:  domain.RouteProbe{Polyline: []domain.Point{{Lon: 0, Lat: 0}, {Lon: 10, Lat: 0}}},
	}
}

func TestSelectCountZeroIsTollFree(t *testing.T) {
	booths := []domain.TollBooth{closedBooth("a", "APRR", 1)}
	l := []domain.DetectedToll{{Booth: 0, Position: 0.1}}

	sel := deps(booths).SelectCount(l, domain.VehicleC1, 0)

	if sel.Reason != domain.ReasonTollFreeFallback {
		t.Fatalf("expected toll-free-fallback, got %s", sel.Reason)
	}
}

func TestSelectCountMetWhenListShortEnough(t *testing.T) {
	booths := []domain.TollBooth{closedBooth("a", "APRR", 1), closedBooth("b", "APRR", 2)}
	l := []domain.DetectedToll{{Booth: 0, Position: 0.1}, {Booth: 1, Position: 0.2}}

	sel := deps(booths).SelectCount(l, domain.VehicleC1, 5)

	if sel.Reason != domain.ReasonCountMet || len(sel.Kept) != 2 {
		t.Fatalf("expected count-met with both kept, got %s %v", sel.Reason, sel.Kept)
	}
}

func TestSelectCountOneWithNoOpenIsTollFree(t *testing.T) {
	booths := []domain.TollBooth{closedBooth("a", "APRR", 1), closedBooth("b", "APRR", 2)}
	l := []domain.DetectedToll{{Booth: 0, Position: 0.1}, {Booth: 1, Position: 0.2}}

	sel := deps(booths).SelectCount(l, domain.VehicleC1, 1)

	if sel.Reason != domain.ReasonTollFreeFallback {
		t.Fatalf("expected toll-free-fallback when target=1 and no open booths, got %s", sel.Reason)
	}
}

func TestSelectCountNeverKeepsSingleClosedBooth(t *testing.T) {
	booths := []domain.TollBooth{
		closedBooth("a", "APRR", 1),
		openBooth("b", "Plaza", 2),
		closedBooth("c", "APRR", 3),
	}
	l := []domain.DetectedToll{{Booth: 0, Position: 0.1}, {Booth: 1, Position: 0.2}, {Booth: 2, Position: 0.3}}

	sel := deps(booths).SelectCount(l, domain.VehicleC1, 2)

	closed := 0
	for _, d := range sel.Kept {
		if booths[d.Booth].Kind == domain.BoothClosed {
			closed++
		}
	}
	if closed == 1 {
		t.Fatalf("selection must never keep exactly one closed booth, got kept=%v", sel.Kept)
	}
}

func TestSelectCountReducingThroughSoloClosedCascadeStaysAtTarget(t *testing.T) {
	booths := []domain.TollBooth{
		openBooth("open1", "Plaza1", 1),
		closedBooth("closed1", "APRR", 2),
		closedBooth("closed2", "APRR", 3),
		closedBooth("closed3", "APRR", 4),
		openBooth("open2", "Plaza2", 5),
	}
	l := []domain.DetectedToll{
		{Booth: 0, Position: 0.1},
		{Booth: 1, Position: 0.2},
		{Booth: 2, Position: 0.3},
		{Booth: 3, Position: 0.4},
		{Booth: 4, Position: 0.5},
	}

	sel := deps(booths).SelectCount(l, domain.VehicleC1, 3)

	if len(sel.Kept) != 3 {
		t.Fatalf("expected exactly 3 kept booths, got %d: %v", len(sel.Kept), sel.Kept)
	}
	closed := 0
	for _, d := range sel.Kept {
		if booths[d.Booth].Kind == domain.BoothClosed {
			closed++
		}
	}
	if closed == 1 {
		t.Fatalf("selection must never keep exactly one closed booth, got kept=%v", sel.Kept)
	}
}

func TestSelectBudgetMetReturnsFullList(t *testing.T) {
	booths := []domain.TollBooth{openBooth("a", "Plaza", 1)}
	d := deps(booths)
	d.Grid.FlatByName["Plaza"] = domain.PriceRow{1.0, 1.0, 1.0, 1.0, 1.0}
	l := []domain.DetectedToll{{Booth: 0, Position: 0.1}}

	sel := d.SelectBudget(l, domain.VehicleC1, 5.0)

	if sel.Reason != domain.ReasonBudgetMet {
		t.Fatalf("expected budget-met, got %s", sel.Reason)
	}
}

func TestSelectBudgetFallsBackWhenNothingFits(t *testing.T) {
	booths := []domain.TollBooth{closedBooth("a", "APRR", 1), closedBooth("b", "APRR", 9)}
	d := deps(booths)
	d.Grid.PerKm["APRR"] = domain.PriceRow{100.0, 100.0, 100.0, 100.0, 100.0}
	l := []domain.DetectedToll{{Booth: 0, Position: 0.1}, {Booth: 1, Position: 0.9}}

	sel := d.SelectBudget(l, domain.VehicleC1, 0.01)

	if sel.Reason != domain.ReasonTollFreeFallback {
		t.Fatalf("expected toll-free-fallback, got %s", sel.Reason)
	}
}
