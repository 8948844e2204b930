package domain

// RampRole classifies a raw GeoJSON LineString feature prior to linking.
type RampRole string

const (
	RoleEntry         RampRole = "entry"
	RoleExit          RampRole = "exit"
	RoleIndeterminate RampRole = "indeterminate"
)

// RampSegment is a short oriented polyline straight from the source data.
// The first and last coordinates are its join points for chaining.
type RampSegment struct {
	ID          string   `json:"id"`
	Coordinates []Point  `json:"coordinates"`
	Role        RampRole `json:"role"`
	Destination *string  `json:"destination,omitempty"`
}

// Start returns the segment's first join point.
func (s RampSegment) Start() Point { return s.Coordinates[0] }

// End returns the segment's last join point.
func (s RampSegment) End() Point { return s.Coordinates[len(s.Coordinates)-1] }

// RampType is the reconstructed ramp's direction of travel relative to the
// mainline: a driver takes an Entry ramp onto the motorway and an Exit ramp
// off of it.
type RampType string

const (
	RampEntry RampType = "entry"
	RampExit  RampType = "exit"
)

// CompleteRamp is an ordered, non-empty chain of RampSegments forming one
// physically connected on- or off-ramp, with at most one associated toll
// booth (see internal/associator).
type CompleteRamp struct {
	ID            string
	Type          RampType
	SegmentIDs    []string
	Polyline      []Point
	Booth         BoothHandle // InvalidHandle if unassociated
	BoothDistance float64     // meters, valid only when Booth.Valid()
}

// Start returns the ramp's first polyline point (its entry endpoint for
// spatial indexing by start coordinate).
func (r CompleteRamp) Start() Point { return r.Polyline[0] }

// End returns the ramp's last polyline point (its exit endpoint).
func (r CompleteRamp) End() Point { return r.Polyline[len(r.Polyline)-1] }
