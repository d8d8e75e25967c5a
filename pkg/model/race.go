package model

// Snapshot is one row of the race table.
type Snapshot struct {
	Round         int
	TimeSec       float64
	Position      int
	Driver        string
	DistanceKm    float64
	GapToLeaderKm float64
}

// Frame is one row of the interpolated race table.
type Frame struct {
	TimeSec    float64
	Driver     string
	DistanceKm float64
}

type DRSStatus string

const (
	DRSEligible DRSStatus = "ELIGIBLE"
	DRSDenied   DRSStatus = "DENIED"
)

// DRSEvent is one row of the DRS event log.
type DRSEvent struct {
	TimeSec        float64
	Lap            int
	Driver         string
	DetectionPoint string
	GapToAhead     float64 // seconds
	Status         DRSStatus
}

// Waypoint is a point of the traced track centerline (pixel coordinates).
type Waypoint struct {
	X float64
	Y float64
}

// SectorMeasurement is a measured sector of a real circuit.
type SectorMeasurement struct {
	Track     string
	Sector    string // S1, S2, S3
	TimeSec   float64
	DistanceM float64
}
