// Package race runs the round by round simulation and emits the race table.
package race

import (
	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/processing/distance"
	"github.com/mpapenbr/rsim/pkg/processing/order"
	"github.com/mpapenbr/rsim/pkg/utils"
)

// Result holds the distances of every driver indexed by round.
// Index 0 is the starting grid.
type Result struct {
	Rounds    int
	Raw       map[string][]float64
	Corrected map[string][]float64
}

type Simulation struct {
	cal      model.Calibration
	season   *model.Season
	model    *distance.Model
	resolver *order.Resolver
	log      *log.Logger
}

type SimulationOption func(s *Simulation)

func WithLogger(l *log.Logger) SimulationOption {
	return func(s *Simulation) {
		s.log = l
	}
}

// NewSimulation expects a season already checked with season.Validate.
func NewSimulation(
	cal model.Calibration,
	season *model.Season,
	opts ...SimulationOption,
) *Simulation {
	ret := &Simulation{
		cal:      cal,
		season:   season,
		model:    distance.NewModel(cal, season),
		resolver: order.NewResolver(cal.MinGapKm),
		log:      log.Default().Named("race"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (s *Simulation) Run() *Result {
	rounds := s.cal.Rounds()
	ret := &Result{
		Rounds:    rounds,
		Raw:       make(map[string][]float64, len(s.season.Drivers)),
		Corrected: make(map[string][]float64, len(s.season.Drivers)),
	}
	prev := s.model.Grid()
	for name, d := range prev {
		ret.Raw[name] = append(make([]float64, 0, rounds+1), d)
		ret.Corrected[name] = append(make([]float64, 0, rounds+1), d)
	}
	for r := range rounds {
		raw := s.model.Propose(r, prev)
		fixed := order.Distances(s.resolver.Resolve(raw))
		for name := range raw {
			ret.Raw[name] = append(ret.Raw[name], raw[name])
			ret.Corrected[name] = append(ret.Corrected[name], fixed[name])
		}
		prev = fixed
		s.log.Debug("round done", log.Int("round", r+1))
	}
	return ret
}

// Snapshots ranks the drivers of every round (0..Rounds) by corrected
// distance and returns the rows of the race table. Values are rounded the
// way the race table stores them.
func (s *Simulation) Snapshots(res *Result) []model.Snapshot {
	roundTime := s.cal.RoundTimeSec()
	ret := make([]model.Snapshot, 0, (res.Rounds+1)*len(res.Corrected))
	for r := 0; r <= res.Rounds; r++ {
		dist := make(map[string]float64, len(res.Corrected))
		for name, values := range res.Corrected {
			dist[name] = values[r]
		}
		names := order.Rank(dist)
		if len(names) == 0 {
			continue
		}
		leader := dist[names[0]]
		for i, name := range names {
			ret = append(ret, model.Snapshot{
				Round:         r,
				TimeSec:       utils.Round(float64(r)*roundTime, 3),
				Position:      i + 1,
				Driver:        name,
				DistanceKm:    utils.Round(dist[name], 4),
				GapToLeaderKm: utils.Round(leader-dist[name], 4),
			})
		}
	}
	return ret
}

// Simulate is a shortcut for Run followed by Snapshots.
func (s *Simulation) Simulate() []model.Snapshot {
	return s.Snapshots(s.Run())
}
