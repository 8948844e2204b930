package geo

import (
	"math"
	"testing"

	"github.com/cyrizon/tollroute/internal/domain"
)

func TestHaversineKmParisLyon(t *testing.T) {
	paris := domain.Point{Lon: 2.3522, Lat: 48.8566}
	lyon := domain.Point{Lon: 4.8357, Lat: 45.7640}

	km := HaversineKm(paris, lyon)
	if km < 380 || km > 400 {
		t.Fatalf("expected Paris-Lyon distance near 390km, got %.1f", km)
	}
}

func TestProjectToSegmentMidpoint(t *testing.T) {
	a := domain.Point{Lon: 0, Lat: 0}
	b := domain.Point{Lon: 0, Lat: 0.01}
	mid := domain.Point{Lon: 0.0001, Lat: 0.005}

	d, tt := ProjectToSegment(mid, a, b)
	if d <= 0 || d > 50 {
		t.Fatalf("expected small positive distance near midpoint, got %.2f", d)
	}
	if math.Abs(tt-0.5) > 0.05 {
		t.Fatalf("expected t near 0.5, got %.3f", tt)
	}
}

func TestProjectToSegmentDegenerate(t *testing.T) {
	a := domain.Point{Lon: 1, Lat: 1}
	d, tt := ProjectToSegment(domain.Point{Lon: 1.001, Lat: 1}, a, a)
	if tt != 0 {
		t.Fatalf("degenerate segment should report t=0, got %v", tt)
	}
	if d <= 0 {
		t.Fatalf("expected positive distance to degenerate segment point")
	}
}

func TestProjectToPolylinePicksNearestSegment(t *testing.T) {
	line := []domain.Point{
		{Lon: 0, Lat: 0},
		{Lon: 0, Lat: 0.01},
		{Lon: 0, Lat: 0.02},
	}
	p := domain.Point{Lon: 0.0001, Lat: 0.016}

	d, idx, pos := ProjectToPolyline(p, line)
	if d <= 0 || d > 50 {
		t.Fatalf("unexpected distance %.2f", d)
	}
	if idx != 2 {
		t.Fatalf("expected nearest idx 2, got %d", idx)
	}
	if pos < 0.4 || pos > 1.0 {
		t.Fatalf("unexpected position %.3f", pos)
	}
}
