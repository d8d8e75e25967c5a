package circuit

import (
	"errors"
	"math"

	"github.com/samber/lo"

	"github.com/mpapenbr/rsim/pkg/model"
)

var (
	ErrNoFirstSector = errors.New("no S1 measurement")
	ErrNoCombination = errors.New("no S2/S3 pair from two other tracks")
)

// variationWeight rewards combinations of sectors with different speeds.
const variationWeight = 0.01

type SectorSpeed struct {
	model.SectorMeasurement
	SpeedKmh float64
	Diff     float64 // to the reference speed
}

type Combination struct {
	First     SectorSpeed
	Rest      [2]SectorSpeed
	AvgKmh    float64
	AvgDiff   float64
	Variation float64
	Score     float64
}

// Speeds computes the average speed of every measured sector.
func Speeds(measurements []model.SectorMeasurement, refKmh float64) []SectorSpeed {
	return lo.Map(measurements, func(m model.SectorMeasurement, _ int) SectorSpeed {
		speed := m.DistanceM / m.TimeSec * 3.6
		return SectorSpeed{SectorMeasurement: m, SpeedKmh: speed, Diff: math.Abs(speed - refKmh)}
	})
}

// Combine picks the S1 closest to refKmh and adds the S2/S3 pair of two
// other tracks with the lowest score
// |avg - ref| - 0.01 * |speed difference of the pair|.
func Combine(measurements []model.SectorMeasurement, refKmh float64) (*Combination, error) {
	speeds := Speeds(measurements, refKmh)
	first := lo.Filter(speeds, func(s SectorSpeed, _ int) bool { return s.Sector == "S1" })
	if len(first) == 0 {
		return nil, ErrNoFirstSector
	}
	best := lo.MinBy(first, func(a, b SectorSpeed) bool { return a.Diff < b.Diff })

	candidates := lo.Filter(speeds, func(s SectorSpeed, _ int) bool {
		return s.Track != best.Track && (s.Sector == "S2" || s.Sector == "S3")
	})
	var ret *Combination
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if a.Track == b.Track {
				continue
			}
			avg := (best.SpeedKmh + a.SpeedKmh + b.SpeedKmh) / 3
			c := Combination{
				First:     best,
				Rest:      [2]SectorSpeed{a, b},
				AvgKmh:    avg,
				AvgDiff:   math.Abs(avg - refKmh),
				Variation: math.Abs(a.SpeedKmh - b.SpeedKmh),
			}
			c.Score = c.AvgDiff - c.Variation*variationWeight
			if ret == nil || c.Score < ret.Score {
				ret = &c
			}
		}
	}
	if ret == nil {
		return nil, ErrNoCombination
	}
	return ret, nil
}
