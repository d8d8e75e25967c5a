// Package distance translates championship standings into race distances.
package distance

import (
	"math"

	"github.com/samber/lo"

	"github.com/mpapenbr/rsim/pkg/model"
)

// Model proposes per-round distances from the cumulative points of a season.
// The points leader reaches the unlocked distance of the round, everybody
// else is pulled back by the points deficit to the leader.
type Model struct {
	cal    model.Calibration
	season *model.Season
}

func NewModel(cal model.Calibration, season *model.Season) *Model {
	return &Model{cal: cal, season: season}
}

// Grid returns the round 0 distances. Pole position is at 0, each following
// grid slot is GridGapKm behind.
func (m *Model) Grid() map[string]float64 {
	ret := make(map[string]float64, len(m.season.Grid))
	for i, name := range m.season.Grid {
		ret[name] = -float64(i) * m.cal.GridGapKm
	}
	return ret
}

// Unlocked is the maximum distance reachable in round index r (0-based).
func (m *Model) Unlocked(r int) float64 {
	return float64(r+1) * m.cal.RoundDistanceKm()
}

// Gap is the distance penalty for a points deficit.
func (m *Model) Gap(deficit int) float64 {
	return (float64(deficit) / m.cal.Normalization()) * m.cal.GapScale()
}

// Propose computes the raw distances for round index r (0-based, round r+1).
// prev holds the distances of the previous round. The raw distance never
// falls below prev.
func (m *Model) Propose(r int, prev map[string]float64) map[string]float64 {
	unlocked := m.Unlocked(r)
	leaderPoints := lo.Max(lo.Map(m.season.Drivers,
		func(d model.Driver, _ int) int { return d.Points[r] }))

	ret := make(map[string]float64, len(m.season.Drivers))
	for _, d := range m.season.Drivers {
		gap := m.Gap(leaderPoints - d.Points[r])
		ret[d.Name] = math.Max(prev[d.Name], unlocked-gap)
	}
	return ret
}
