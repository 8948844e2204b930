package resultcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/cyrizon/tollroute/internal/config"
	"github.com/cyrizon/tollroute/internal/domain"
)

func TestSelectionCacheMemoryRoundTrip(t *testing.T) {
	c, err := New(config.ResultCacheConfig{TTL: time.Minute}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	key := Key(domain.Point{Lon: 1, Lat: 1}, domain.Point{Lon: 2, Lat: 2}, domain.VehicleC1, "count", 2, 0)
	want := Entry{
		Route:     domain.RouteProbe{DistanceMeters: 1200},
		Selection: domain.Selection{Reason: domain.ReasonCountMet, TotalCostEUR: 4.5},
	}

	if err := c.Set(context.Background(), key, want); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}

	got, ok, err := c.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("expected cache hit, got ok=%v err=%v", ok, err)
	}
	if got.Selection.Reason != want.Selection.Reason || got.Selection.TotalCostEUR != want.Selection.TotalCostEUR {
		t.Fatalf("round-trip mismatch: got %+v want %+v", got, want)
	}
	if got.Route.DistanceMeters != want.Route.DistanceMeters {
		t.Fatalf("route not round-tripped: got %+v want %+v", got.Route, want.Route)
	}
}

func TestSelectionCacheMiss(t *testing.T) {
	c, err := New(config.ResultCacheConfig{TTL: time.Minute}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected cache miss")
	}
}
