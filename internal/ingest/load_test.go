package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadAllAssemblesSources(t *testing.T) {
	dir := t.TempDir()

	booths := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"1","geometry":{"type":"Point","coordinates":[2.1,48.1]},"properties":{"id":"b1","name":"Open Plaza","operator":"APRR","barrier":"open"}}
	]}`
	entries := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"1","geometry":{"type":"LineString","coordinates":[[2.0,48.0],[2.1,48.1]]},"properties":{"id":"e1"}}
	]}`
	exits := `{"type":"FeatureCollection","features":[]}`
	indeterminate := `{"type":"FeatureCollection","features":[]}`
	openTolls := "name,c1,c2,c3,c4,c5\nOpen Plaza,2.0,3.0,4.0,5.0,6.0\n"
	perKm := "operator;c1;c2;c3;c4;c5\nAPRR;0.1;0.12;0.14;0.16;0.18\n"

	paths := Paths{
		TollBooths:       writeFile(t, dir, "toll_booths.geojson", booths),
		MotorwayEntries:  writeFile(t, dir, "motorway_entries.geojson", entries),
		MotorwayExits:    writeFile(t, dir, "motorway_exits.geojson", exits),
		MotorwayIndeterm: writeFile(t, dir, "motorway_indeterminate.geojson", indeterminate),
		OpenTollsCSV:     writeFile(t, dir, "open_tolls.csv", openTolls),
		PricePerKmCSV:    writeFile(t, dir, "price_per_km.csv", perKm),
	}

	loaded, err := LoadAll(paths, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	if len(loaded.Booths) != 1 || !loaded.Booths[0].IsOpen() {
		t.Fatalf("expected 1 open booth, got %+v", loaded.Booths)
	}
	if len(loaded.EntrySegments) != 1 {
		t.Fatalf("expected 1 entry segment, got %d", len(loaded.EntrySegments))
	}
	if _, ok := loaded.PerKmRows["APRR"]; !ok {
		t.Fatalf("expected APRR per-km row")
	}
	if _, ok := loaded.OpenTollRows["Open Plaza"]; !ok {
		t.Fatalf("expected Open Plaza flat row")
	}
}

func TestLoadAllFailsOnMissingSource(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		TollBooths:       filepath.Join(dir, "missing.geojson"),
		MotorwayEntries:  writeFile(t, dir, "motorway_entries.geojson", `{"type":"FeatureCollection","features":[]}`),
		MotorwayExits:    writeFile(t, dir, "motorway_exits.geojson", `{"type":"FeatureCollection","features":[]}`),
		MotorwayIndeterm: writeFile(t, dir, "motorway_indeterminate.geojson", `{"type":"FeatureCollection","features":[]}`),
		OpenTollsCSV:     writeFile(t, dir, "open_tolls.csv", "name,c1,c2,c3,c4,c5\n"),
		PricePerKmCSV:    writeFile(t, dir, "price_per_km.csv", "operator;c1;c2;c3;c4;c5\n"),
	}

	if _, err := LoadAll(paths, zap.NewNop()); err == nil {
		t.Fatalf("expected an error for a missing source file")
	}
}
