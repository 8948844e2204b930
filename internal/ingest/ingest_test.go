package ingest

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestParseTollBoothsDropsEmptyOperator(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type":"Feature","id":"1","geometry":{"type":"Point","coordinates":[2.1,48.1]},"properties":{"id":"b1","name":"Péage A","operator":"APRR"}},
			{"type":"Feature","id":"2","geometry":{"type":"Point","coordinates":[2.2,48.2]},"properties":{"id":"b2","name":"Péage B","operator":""}}
		]
	}`)

	result, err := ParseTollBooths(data, map[string]bool{}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Booths) != 1 {
		t.Fatalf("expected 1 booth kept, got %d", len(result.Booths))
	}
	if result.Stats.BoothsDroppedNoOp != 1 {
		t.Fatalf("expected 1 booth dropped for empty operator, got %d", result.Stats.BoothsDroppedNoOp)
	}
}

func TestParseTollBoothsOpenKind(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type":"Feature","id":"1","geometry":{"type":"Point","coordinates":[2.1,48.1]},"properties":{"id":"b1","name":"Open Plaza","operator":"APRR"}}
		]
	}`)

	result, err := ParseTollBooths(data, map[string]bool{"Open Plaza": true}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Booths) != 1 || !result.Booths[0].IsOpen() {
		t.Fatalf("expected booth to be classified open")
	}
}

func TestParseRampSegmentsSkipsMalformed(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type":"Feature","id":"1","geometry":{"type":"LineString","coordinates":[[2.1,48.1],[2.2,48.2]]},"properties":{"id":"r1"}},
			{"type":"Feature","id":"2","geometry":{"type":"LineString","coordinates":[[2.1,48.1]]},"properties":{"id":"r2"}}
		]
	}`)

	result, err := ParseRampSegments(data, "entry", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Segments) != 1 {
		t.Fatalf("expected 1 valid segment, got %d", len(result.Segments))
	}
	if result.Skipped != 1 {
		t.Fatalf("expected 1 skipped segment, got %d", result.Skipped)
	}
}

func TestParseOpenTollsCSV(t *testing.T) {
	csv := "name,c1,c2,c3,c4,c5\nStation A,1.5,2.5,3.5,4.5,5.5\n"
	rows, err := ParseOpenTollsCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row, ok := rows["Station A"]
	if !ok {
		t.Fatalf("expected Station A row")
	}
	if row[0] != 1.5 || row[4] != 5.5 {
		t.Fatalf("unexpected row values: %+v", row)
	}
}

func TestParsePricePerKmCSV(t *testing.T) {
	csv := "operator;c1;c2;c3;c4;c5\nASF;0.08;0.12;0.18;0.20;0.22\n"
	rows, err := ParsePricePerKmCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row, ok := rows["ASF"]
	if !ok {
		t.Fatalf("expected ASF row")
	}
	if row[0] != 0.08 {
		t.Fatalf("unexpected c1 price: %v", row[0])
	}
}
