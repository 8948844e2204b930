package domain

// IngestStats counts data-quality signal gathered while parsing the four
// GeoJSON sources and linking ramps. It travels with the Model, and so
// inside the cache blob; of its fields only Associations is also written to
// metadata.json's counts.
type IngestStats struct {
	BoothsParsed         int
	BoothsDroppedNoOp    int // empty operator string -> feature dropped
	FeaturesSkippedParse int // ParseSkip count, any source
	Associations         int
	OrphanChains         int
	OrphanSegments       int
}

// Model is the top-level, read-only aggregate built once per process (or
// loaded from cache) and shared across every concurrent query. Nothing in
// Model is ever mutated after Build/Load returns; cross-references inside
// it are dense handles, never pointers, so it is safe to hand out by
// pointer to any number of goroutines.
type Model struct {
	Booths []TollBooth
	Ramps  []CompleteRamp
	Grid   PricingGrid
	Stats  IngestStats

	// BoothIndex/RampIndex map booth and ramp IDs to their handles; built
	// by model.Build alongside Booths and Ramps.
	BoothIndex map[string]BoothHandle
	RampIndex  map[string]RampHandle
}

// Booth resolves a handle to its TollBooth. Callers must only ever pass
// handles obtained from this Model.
func (m *Model) Booth(h BoothHandle) TollBooth { return m.Booths[h] }

// Ramp resolves a handle to its CompleteRamp.
func (m *Model) Ramp(h RampHandle) CompleteRamp { return m.Ramps[h] }

// BoothKind is a convenience accessor matching the `func(BoothHandle) BoothKind`
// signature Selection's invariant helpers expect.
func (m *Model) BoothKind(h BoothHandle) BoothKind { return m.Booths[h].Kind }
