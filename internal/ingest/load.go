package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/cyrizon/tollroute/internal/domain"
)

// Paths names the six source files a Model is built from.
type Paths struct {
	TollBooths       string
	MotorwayEntries  string
	MotorwayExits    string
	MotorwayIndeterm string
	OpenTollsCSV     string
	PricePerKmCSV    string
}

// Loaded is everything LoadAll reads off disk, ready to hand to model.Build.
type Loaded struct {
	Booths        []domain.TollBooth
	EntrySegments []domain.RampSegment
	ExitSegments  []domain.RampSegment
	Indeterminate []domain.RampSegment
	OpenTollRows  map[string]domain.PriceRow
	PerKmRows     map[string]domain.PriceRow
	Stats         domain.IngestStats
}

// LoadAll reads open_tolls.csv first (its name roster decides Kind for the
// booth parse that follows), then fans the four GeoJSON feeds out across
// one goroutine apiece, joined on a WaitGroup with a mutex-guarded error
// slice — mirroring the teacher's fan-out tile-fetch usecases — and
// finally reads price_per_km.csv. Any single source failing fails the
// whole load: unlike a per-feature ParseSkip, a missing or unreadable
// source file means the Model cannot be built at all.
func LoadAll(paths Paths, log *zap.Logger) (Loaded, error) {
	openRows, err := readCSV(paths.OpenTollsCSV, ParseOpenTollsCSV)
	if err != nil {
		return Loaded{}, fmt.Errorf("ingest: %w", err)
	}
	openTollNames := make(map[string]bool, len(openRows))
	for name := range openRows {
		openTollNames[name] = true
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		loadErrs []error
		booths   BoothResult
		entries  RampResult
		exits    RampResult
		indeterm RampResult
	)

	fetch := func(label string, fn func() error) {
		defer wg.Done()
		if err := fn(); err != nil {
			mu.Lock()
			loadErrs = append(loadErrs, fmt.Errorf("%s: %w", label, err))
			mu.Unlock()
		}
	}

	wg.Add(4)
	go fetch("toll_booths", func() error {
		data, err := os.ReadFile(paths.TollBooths)
		if err != nil {
			return err
		}
		res, err := ParseTollBooths(data, openTollNames, log)
		booths = res
		return err
	})
	go fetch("motorway_entries", func() error {
		data, err := os.ReadFile(paths.MotorwayEntries)
		if err != nil {
			return err
		}
		res, err := ParseRampSegments(data, domain.RoleEntry, log)
		entries = res
		return err
	})
	go fetch("motorway_exits", func() error {
		data, err := os.ReadFile(paths.MotorwayExits)
		if err != nil {
			return err
		}
		res, err := ParseRampSegments(data, domain.RoleExit, log)
		exits = res
		return err
	})
	go fetch("motorway_indeterminate", func() error {
		data, err := os.ReadFile(paths.MotorwayIndeterm)
		if err != nil {
			return err
		}
		res, err := ParseRampSegments(data, domain.RoleIndeterminate, log)
		indeterm = res
		return err
	})
	wg.Wait()

	if len(loadErrs) > 0 {
		return Loaded{}, fmt.Errorf("ingest: %d source(s) failed: %v", len(loadErrs), loadErrs)
	}

	perKmRows, err := readCSV(paths.PricePerKmCSV, ParsePricePerKmCSV)
	if err != nil {
		return Loaded{}, fmt.Errorf("ingest: %w", err)
	}

	stats := domain.IngestStats{
		BoothsParsed:      booths.Stats.BoothsParsed,
		BoothsDroppedNoOp: booths.Stats.BoothsDroppedNoOp,
		FeaturesSkippedParse: booths.Stats.FeaturesSkippedParse +
			entries.Skipped + exits.Skipped + indeterm.Skipped,
	}

	log.Info("sources loaded",
		zap.Int("booths", len(booths.Booths)),
		zap.Int("entry_segments", len(entries.Segments)),
		zap.Int("exit_segments", len(exits.Segments)),
		zap.Int("indeterminate_segments", len(indeterm.Segments)),
		zap.Int("booths_dropped_no_operator", stats.BoothsDroppedNoOp),
		zap.Int("features_skipped", stats.FeaturesSkippedParse))

	return Loaded{
		Booths:        booths.Booths,
		EntrySegments: entries.Segments,
		ExitSegments:  exits.Segments,
		Indeterminate: indeterm.Segments,
		OpenTollRows:  openRows,
		PerKmRows:     perKmRows,
		Stats:         stats,
	}, nil
}

func readCSV(path string, parse func(io.Reader) (map[string]domain.PriceRow, error)) (map[string]domain.PriceRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(bytes.NewReader(data))
}
