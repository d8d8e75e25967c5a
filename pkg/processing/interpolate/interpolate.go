// Package interpolate expands the race table into a fixed frame rate time
// series. Progress between two rounds follows the speed profile of the
// circuit instead of a constant speed.
package interpolate

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/processing/order"
	"github.com/mpapenbr/rsim/pkg/speedprofile"
	"github.com/mpapenbr/rsim/pkg/utils"
)

var (
	ErrTooFewRounds    = errors.New("need at least two rounds")
	ErrRosterMismatch  = errors.New("drivers differ between rounds")
	ErrNonPositivePace = errors.New("leader pace in final round is not positive")
	ErrZeroSpeed       = errors.New("speed profile yields no progress")
	ErrInvalidConfig   = errors.New("invalid interpolation config")
)

type Config struct {
	FPS           int
	Samples       int     // speed samples per segment
	StationaryEps float64 // km, segments below are treated as standing still
	LapLengthKm   float64
	RoundTimeSec  float64
	TotalRaceKm   float64
	Profiles      *speedprofile.Set
}

func DefaultConfig(cal model.Calibration, profiles *speedprofile.Set) Config {
	return Config{
		FPS:           30,
		Samples:       300,
		StationaryEps: 1e-6,
		LapLengthKm:   cal.LapLengthKm,
		RoundTimeSec:  cal.RoundTimeSec(),
		TotalRaceKm:   cal.TotalRaceKm(),
		Profiles:      profiles,
	}
}

func (c Config) Validate() error {
	switch {
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.FPS)
	case c.Samples < 2:
		return fmt.Errorf("%w: samples %d", ErrInvalidConfig, c.Samples)
	case c.LapLengthKm <= 0 || c.RoundTimeSec <= 0:
		return fmt.Errorf("%w: lap %v km, round %v s", ErrInvalidConfig, c.LapLengthKm, c.RoundTimeSec)
	case c.Profiles == nil:
		return fmt.Errorf("%w: no speed profiles", ErrInvalidConfig)
	}
	return nil
}

type Result struct {
	Frames     []model.Frame
	Leader     string
	FinishTime float64 // time of the final round
	EndTime    float64 // the last car reaches the race distance
	LeaderPace float64 // km/s after the final round
}

type Interpolator struct {
	cfg Config
	log *log.Logger
}

func NewInterpolator(cfg Config) *Interpolator {
	return &Interpolator{cfg: cfg, log: log.Default().Named("interpolate")}
}

type round struct {
	number int
	time   float64
	dist   map[string]float64
}

//nolint:funlen // one pass per segment plus the finish phase
func (ip *Interpolator) Run(snapshots []model.Snapshot) (*Result, error) {
	if err := ip.cfg.Validate(); err != nil {
		return nil, err
	}
	rounds, err := groupRounds(snapshots)
	if err != nil {
		return nil, err
	}
	drivers := lo.Keys(rounds[0].dist)
	slices.Sort(drivers)

	step := 1 / float64(ip.cfg.FPS)
	ret := &Result{}
	for r := 0; r < len(rounds)-1; r++ {
		from, to := rounds[r], rounds[r+1]
		times := frameTimes(from.time, to.time, step)
		ip.log.Debug("segment",
			log.Int("round", to.number),
			log.Int("frames", len(times)))
		for _, name := range drivers {
			dist, err := ip.segment(from.dist[name], to.dist[name], len(times))
			if err != nil {
				return nil, fmt.Errorf("round %d, %s: %w", to.number, name, err)
			}
			for i, t := range times {
				ret.Frames = append(ret.Frames, model.Frame{
					TimeSec: t, Driver: name, DistanceKm: dist[i],
				})
			}
		}
	}

	if err := ip.finish(rounds[len(rounds)-2], rounds[len(rounds)-1], drivers, step, ret); err != nil {
		return nil, err
	}
	slices.SortStableFunc(ret.Frames, func(a, b model.Frame) int {
		if c := cmp.Compare(a.TimeSec, b.TimeSec); c != 0 {
			return c
		}
		return strings.Compare(a.Driver, b.Driver)
	})
	ip.log.Info("interpolation done",
		log.Int("frames", len(ret.Frames)),
		log.Float64("finishTime", ret.FinishTime),
		log.Float64("endTime", ret.EndTime))
	return ret, nil
}

// segment computes the distances of one driver for n frames between two
// rounds.
func (ip *Interpolator) segment(d0, d1 float64, n int) ([]float64, error) {
	ret := make([]float64, n)
	delta := d1 - d0
	if math.Abs(delta) < ip.cfg.StationaryEps {
		for i := range ret {
			ret[i] = d0
		}
		return ret, nil
	}
	cum, err := ip.progress(d0, math.Abs(delta)*1000)
	if err != nil {
		return nil, err
	}
	last := len(cum) - 1
	for i := range ret {
		frac := 1.0
		if n > 1 {
			frac = float64(i) / float64(n-1)
		}
		idx := min(sort.SearchFloat64s(cum, frac), last)
		ret[i] = d0 + delta*cum[idx]
	}
	return ret, nil
}

// progress returns the cumulative normalized speed weights for a span of
// spanM meters starting at d0 km.
func (ip *Interpolator) progress(d0, spanM float64) ([]float64, error) {
	lapM := ip.cfg.LapLengthKm * 1000
	lap := int(math.Floor(d0/ip.cfg.LapLengthKm)) + 1

	meters := floats.Span(make([]float64, ip.cfg.Samples), 0, spanM)
	speeds := make([]float64, len(meters))
	for i, m := range meters {
		speeds[i] = ip.cfg.Profiles.SpeedAt(utils.FloorMod(d0*1000+m, lapM), lap)
	}
	sum := floats.Sum(speeds)
	if sum <= 0 || math.IsNaN(sum) {
		return nil, ErrZeroSpeed
	}
	weights := make([]float64, len(speeds))
	for i, s := range speeds {
		weights[i] = s / sum
	}
	return floats.CumSum(weights, weights), nil
}

// finish moves the leader at its final round pace and keeps everybody else
// at the gap measured in the final round until the last car reaches the race
// distance.
func (ip *Interpolator) finish(
	prev, final round,
	drivers []string,
	step float64,
	res *Result,
) error {
	leader := order.Rank(final.dist)[0]
	leaderFinal := final.dist[leader]
	pace := (leaderFinal - prev.dist[leader]) / ip.cfg.RoundTimeSec
	if pace <= 0 {
		return fmt.Errorf("%w: %v km/s", ErrNonPositivePace, pace)
	}
	gaps := make(map[string]float64, len(drivers))
	for _, name := range drivers {
		gaps[name] = leaderFinal - final.dist[name]
	}
	maxGap := lo.Max(lo.Values(gaps))

	res.Leader = leader
	res.LeaderPace = pace
	res.FinishTime = final.time
	res.EndTime = final.time + (ip.cfg.TotalRaceKm-(leaderFinal-maxGap))/pace

	for _, t := range frameTimes(res.FinishTime, res.EndTime, step) {
		leaderDist := leaderFinal + pace*(t-res.FinishTime)
		for _, name := range drivers {
			res.Frames = append(res.Frames, model.Frame{
				TimeSec: t, Driver: name, DistanceKm: leaderDist - gaps[name],
			})
		}
	}
	return nil
}

// frameTimes returns t0 + i*step for all values below t1.
func frameTimes(t0, t1, step float64) []float64 {
	n := int(math.Ceil((t1 - t0) / step))
	if n <= 0 {
		return nil
	}
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = t0 + float64(i)*step
	}
	return ret
}

func groupRounds(snapshots []model.Snapshot) ([]round, error) {
	byRound := lo.GroupBy(snapshots, func(s model.Snapshot) int { return s.Round })
	numbers := lo.Keys(byRound)
	slices.Sort(numbers)
	if len(numbers) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewRounds, len(numbers))
	}
	ret := make([]round, 0, len(numbers))
	for _, n := range numbers {
		rows := byRound[n]
		r := round{number: n, time: rows[0].TimeSec, dist: make(map[string]float64, len(rows))}
		for _, row := range rows {
			r.dist[row.Driver] = row.DistanceKm
		}
		if len(r.dist) != len(rows) {
			return nil, fmt.Errorf("%w: round %d lists a driver twice", ErrRosterMismatch, n)
		}
		if len(ret) > 0 {
			missing, extra := lo.Difference(lo.Keys(ret[0].dist), lo.Keys(r.dist))
			if len(missing) > 0 || len(extra) > 0 {
				return nil, fmt.Errorf("%w: round %d missing %v, unexpected %v",
					ErrRosterMismatch, n, missing, extra)
			}
		}
		ret = append(ret, r)
	}
	return ret, nil
}
