package drs

import "github.com/mpapenbr/rsim/pkg/model"

// DetectionPoint is a fixed intra-lap position where the gap to the car
// ahead is measured.
type DetectionPoint struct {
	Label     string
	DistanceM float64
}

// Zone is an activation zone (inclusive bounds, intra-lap meters) armed by
// the detection point at index Detection. Zones following the start/finish
// line are armed by the detection point of the previous lap.
type Zone struct {
	StartM      float64
	EndM        float64
	Detection   int
	PreviousLap bool
}

func (z Zone) Contains(intraM float64) bool {
	return z.StartM <= intraM && intraM <= z.EndM
}

type Config struct {
	LapLengthM float64
	TotalRaceM float64
	GapFactor  float64 // km of gap to seconds
	Threshold  float64 // seconds, inclusive
	// checked in order, the first crossed point is reported
	DetectionPoints []DetectionPoint
	Zones           []Zone
}

// DefaultConfig is the configuration of the default calibration.
func DefaultConfig() Config {
	return ConfigFor(model.DefaultCalibration())
}

// ConfigFor builds the lap length, race distance and activation zones from
// cal. Detection points and thresholds are fixed.
func ConfigFor(cal model.Calibration) Config {
	lapM := cal.LapLengthM()
	return Config{
		LapLengthM: lapM,
		TotalRaceM: lapM * float64(cal.Laps),
		GapFactor:  16.646,
		Threshold:  1.0,
		DetectionPoints: []DetectionPoint{
			{Label: "DP1 (3510m)", DistanceM: 3510},
			{Label: "DP2 (4550m)", DistanceM: 4550},
		},
		Zones: DefaultZones(lapM),
	}
}

func DefaultZones(lapM float64) []Zone {
	return []Zone{
		{StartM: 3660, EndM: 4450, Detection: 0},
		{StartM: 4880, EndM: lapM, Detection: 1},
		{StartM: 0, EndM: 355, Detection: 1, PreviousLap: true},
	}
}
