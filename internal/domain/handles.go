package domain

// Handles are dense indices into the arenas owned by Model. Using integers
// instead of pointers keeps the arenas free of reference cycles and makes
// the whole model a matter of serializing flat slices (see internal/cache).
type (
	BoothHandle uint32
	RampHandle  uint32
)

// InvalidHandle marks "no association" for either handle type.
const InvalidHandle = 1<<32 - 1

// Valid reports whether h refers to a real element rather than the sentinel.
func (h BoothHandle) Valid() bool { return uint32(h) != InvalidHandle }

// Valid reports whether h refers to a real element rather than the sentinel.
func (h RampHandle) Valid() bool { return uint32(h) != InvalidHandle }
