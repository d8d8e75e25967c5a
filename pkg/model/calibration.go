package model

// Calibration holds the constants of the derived reference circuit and the
// season wide totals used to translate points into distances.
type Calibration struct {
	LapLengthKm     float64 // length of the derived circuit
	FastestLapSec   float64 // fastest lap of the derived circuit
	Laps            int     // race laps
	RoundsPerLap    int     // rounds (snapshots) per lap
	GridGapKm       float64 // separation on the starting grid
	MinGapKm        float64 // minimum separation while racing
	GrandPrix       int     // number of GP weekends in the season
	Sprints         int     // number of sprint weekends in the season
	PointsPerGP     int     // points distributed per GP
	PointsPerSprint int     // points distributed per sprint
	TotalDrivers    int     // divisor for the season points normalization
	GapScaleDivisor float64 // GapScale = LapLengthKm * Laps / GapScaleDivisor
	RosterSize      int     // expected number of drivers, 0 disables the check
}

func DefaultCalibration() Calibration {
	return Calibration{
		LapLengthKm:     5.1837,
		FastestLapSec:   86.288,
		Laps:            8,
		RoundsPerLap:    3,
		GridGapKm:       0.01,
		MinGapKm:        0.01,
		GrandPrix:       24,
		Sprints:         6,
		PointsPerGP:     101,
		PointsPerSprint: 36,
		TotalDrivers:    20,
		GapScaleDivisor: 20,
		RosterSize:      20,
	}
}

// Rounds is the number of simulated rounds (excluding the starting grid).
func (c Calibration) Rounds() int {
	return c.Laps * c.RoundsPerLap
}

func (c Calibration) RoundDistanceKm() float64 {
	return c.LapLengthKm / float64(c.RoundsPerLap)
}

func (c Calibration) RoundTimeSec() float64 {
	return c.FastestLapSec / float64(c.RoundsPerLap)
}

func (c Calibration) TotalSeasonPoints() int {
	return c.GrandPrix*c.PointsPerGP + c.Sprints*c.PointsPerSprint
}

func (c Calibration) Normalization() float64 {
	return float64(c.TotalSeasonPoints()) / float64(c.TotalDrivers)
}

func (c Calibration) GapScale() float64 {
	return c.LapLengthKm * (float64(c.Laps) / c.GapScaleDivisor)
}

func (c Calibration) TotalRaceKm() float64 {
	return c.LapLengthKm * float64(c.Laps)
}

func (c Calibration) LapLengthM() float64 {
	return c.LapLengthKm * 1000
}
