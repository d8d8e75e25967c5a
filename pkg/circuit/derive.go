package circuit

import (
	"math"
	"slices"

	"github.com/samber/lo"
)

// Derived describes the reference circuit.
type Derived struct {
	LengthKm      float64
	Corners       int
	RightTurns    int
	LeftTurns     int
	DRSZones      int
	FastestLapSec float64
	SpeedKmh      float64
}

// Derive averages the calendar into a single circuit. The length is the
// total calendar length spread over rounds, feature counts are distributed
// by their density per km.
func Derive(circuits []Circuit, rounds int) (Derived, error) {
	if len(circuits) == 0 || rounds <= 0 {
		return Derived{}, ErrEmptyCalendar
	}
	totalKm := lo.SumBy(circuits, func(c Circuit) float64 { return c.LengthKm })
	perKm := func(f func(Circuit) int) float64 {
		return float64(lo.SumBy(circuits, f)) / totalKm
	}
	secPerKm := lo.SumBy(circuits, func(c Circuit) float64 {
		return c.FastestLapSec / c.LengthKm
	}) / float64(len(circuits))

	l := totalKm / float64(rounds)
	ret := Derived{
		LengthKm:      l,
		Corners:       int(math.RoundToEven(perKm(func(c Circuit) int { return c.Corners }) * l)),
		RightTurns:    int(math.RoundToEven(perKm(func(c Circuit) int { return c.RightTurns }) * l)),
		DRSZones:      int(math.RoundToEven(perKm(func(c Circuit) int { return c.DRSZones }) * l)),
		FastestLapSec: secPerKm * l,
	}
	ret.LeftTurns = ret.Corners - ret.RightTurns
	ret.SpeedKmh = l / ret.FastestLapSec * 3600
	return ret, nil
}

type Similarity struct {
	Circuit
	Diff float64 // km/h to the reference speed
}

// Rank orders the circuits by the difference of their official speed to
// speedKmh, closest first. Equal differences keep the calendar order.
func Rank(circuits []Circuit, speedKmh float64) []Similarity {
	ret := lo.Map(circuits, func(c Circuit, _ int) Similarity {
		return Similarity{Circuit: c, Diff: math.Abs(c.SpeedKmh - speedKmh)}
	})
	slices.SortStableFunc(ret, func(a, b Similarity) int {
		switch {
		case a.Diff < b.Diff:
			return -1
		case a.Diff > b.Diff:
			return 1
		}
		return 0
	})
	return ret
}

// WeatherSensitive returns the names of the circuits flagged as weather
// sensitive in calendar order.
func WeatherSensitive(circuits []Circuit) []string {
	return lo.FilterMap(circuits, func(c Circuit, _ int) (string, bool) {
		return c.Name, c.Weather
	})
}
