// Package drs detects detection point crossings in the interpolated race
// and decides DRS eligibility from the gap to the car ahead.
package drs

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/utils"
)

var ErrFrameCardinality = errors.New("frame driver count differs from first frame")

type Scanner struct {
	cfg Config
	log *log.Logger
}

func NewScanner(cfg Config) *Scanner {
	return &Scanner{cfg: cfg, log: log.Default().Named("drs")}
}

// Classify returns ELIGIBLE if gap is within the threshold.
func Classify(gap, threshold float64) model.DRSStatus {
	if gap <= threshold {
		return model.DRSEligible
	}
	return model.DRSDenied
}

// Position splits a race distance into lap (1-based) and intra-lap meters.
func (c Config) Position(distanceKm float64) (lap int, intraM float64) {
	m := distanceKm * 1000
	return int(math.Floor(m/c.LapLengthM)) + 1, utils.FloorMod(m, c.LapLengthM)
}

// Scan processes the frames in time order and returns one event per
// detection point crossing after lap 1.
func (s *Scanner) Scan(frames []model.Frame) ([]model.DRSEvent, error) {
	byTime := lo.GroupBy(frames, func(f model.Frame) float64 { return f.TimeSec })
	times := lo.Keys(byTime)
	slices.Sort(times)

	prev := make(map[string]float64)
	ret := []model.DRSEvent{}
	expected := -1
	for _, t := range times {
		frame := byTime[t]
		if expected < 0 {
			expected = len(frame)
		} else if len(frame) != expected {
			return nil, fmt.Errorf("%w: %d drivers at %v s, want %d",
				ErrFrameCardinality, len(frame), t, expected)
		}
		slices.SortFunc(frame, func(a, b model.Frame) int {
			if c := cmp.Compare(b.DistanceKm, a.DistanceKm); c != 0 {
				return c
			}
			return strings.Compare(a.Driver, b.Driver)
		})
		for rank, f := range frame {
			lap, intra := s.cfg.Position(f.DistanceKm)
			last := prev[f.Driver]
			prev[f.Driver] = intra
			if f.DistanceKm*1000 >= s.cfg.TotalRaceM || lap <= 1 {
				continue
			}
			dp, ok := s.crossed(last, intra)
			if !ok {
				continue
			}
			ev := model.DRSEvent{
				TimeSec:        t,
				Lap:            lap,
				Driver:         f.Driver,
				DetectionPoint: dp.Label,
				Status:         model.DRSDenied,
			}
			if rank > 0 {
				gap := (frame[rank-1].DistanceKm - f.DistanceKm) * s.cfg.GapFactor
				ev.Status = Classify(gap, s.cfg.Threshold)
				ev.GapToAhead = utils.Round(gap, 3)
			}
			if ev.Status == model.DRSEligible {
				s.log.Debug("eligible",
					log.String("driver", ev.Driver),
					log.Int("lap", ev.Lap),
					log.String("point", ev.DetectionPoint),
					log.Float64("gap", ev.GapToAhead))
			}
			ret = append(ret, ev)
		}
	}
	return ret, nil
}

func (s *Scanner) crossed(prev, intra float64) (DetectionPoint, bool) {
	for _, dp := range s.cfg.DetectionPoints {
		if prev < dp.DistanceM && dp.DistanceM <= intra {
			return dp, true
		}
	}
	return DetectionPoint{}, false
}

type DriverSummary struct {
	Driver   string
	Eligible int
	Denied   int
}

// Summarize counts the events per driver, most eligible events first.
func Summarize(events []model.DRSEvent) []DriverSummary {
	byDriver := lo.GroupBy(events, func(e model.DRSEvent) string { return e.Driver })
	ret := make([]DriverSummary, 0, len(byDriver))
	for name, evs := range byDriver {
		eligible := lo.CountBy(evs, func(e model.DRSEvent) bool {
			return e.Status == model.DRSEligible
		})
		ret = append(ret, DriverSummary{
			Driver:   name,
			Eligible: eligible,
			Denied:   len(evs) - eligible,
		})
	}
	slices.SortFunc(ret, func(a, b DriverSummary) int {
		if c := cmp.Compare(b.Eligible, a.Eligible); c != 0 {
			return c
		}
		return strings.Compare(a.Driver, b.Driver)
	})
	return ret
}
