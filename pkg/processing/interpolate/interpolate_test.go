package interpolate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/processing/race"
	"github.com/mpapenbr/rsim/pkg/season"
	"github.com/mpapenbr/rsim/pkg/speedprofile"
)

func flatProfiles(t *testing.T, lapM float64) *speedprofile.Set {
	t.Helper()
	points := []speedprofile.Breakpoint{{DistanceM: 0, SpeedKmh: 100}, {DistanceM: lapM / 2, SpeedKmh: 100}, {DistanceM: lapM, SpeedKmh: 100}}
	p, err := speedprofile.NewProfile(points, lapM)
	require.NoError(t, err)
	return &speedprofile.Set{FirstLap: p, Racing: p}
}

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		FPS:           10,
		Samples:       300,
		StationaryEps: 1e-6,
		LapLengthKm:   10,
		RoundTimeSec:  1,
		TotalRaceKm:   2.05,
		Profiles:      flatProfiles(t, 10000),
	}
}

func snap(r int, driver string, dist float64) model.Snapshot {
	return model.Snapshot{Round: r, TimeSec: float64(r), Driver: driver, DistanceKm: dist}
}

func sampleSnapshots() []model.Snapshot {
	return []model.Snapshot{
		snap(0, "A", 0), snap(0, "B", -0.01), snap(0, "C", 0.5),
		snap(1, "A", 1), snap(1, "B", 0.8), snap(1, "C", 0.5),
		snap(2, "A", 2), snap(2, "B", 1.5), snap(2, "C", 0.5),
	}
}

func framesOf(frames []model.Frame, driver string) []model.Frame {
	ret := []model.Frame{}
	for _, f := range frames {
		if f.Driver == driver {
			ret = append(ret, f)
		}
	}
	return ret
}

func TestSegmentBoundaries(t *testing.T) {
	res, err := NewInterpolator(testConfig(t)).Run(sampleSnapshots())
	require.NoError(t, err)

	a := framesOf(res.Frames, "A")
	// 10 frames per segment, 16 after the finish
	require.Len(t, a, 10+10+16)
	assert.InDelta(t, 0.0, a[0].TimeSec, 1e-12)
	assert.InDelta(t, 1.0/300, a[0].DistanceKm, 1e-9)
	assert.InDelta(t, 0.9, a[9].TimeSec, 1e-12)
	assert.InDelta(t, 1.0, a[9].DistanceKm, 1e-9, "segment end reaches d1")
	assert.InDelta(t, 1.0+1.0/300, a[10].DistanceKm, 1e-9)
	assert.InDelta(t, 2.0, a[19].DistanceKm, 1e-9)

	for i := 1; i < 20; i++ {
		assert.GreaterOrEqual(t, a[i].DistanceKm, a[i-1].DistanceKm)
		frac := float64(i%10) / 9
		seg := float64(i / 10)
		assert.InDelta(t, seg+frac, a[i].DistanceKm, 1.0/300+1e-9, "frame %d", i)
	}
}

func TestStationaryDriver(t *testing.T) {
	res, err := NewInterpolator(testConfig(t)).Run(sampleSnapshots())
	require.NoError(t, err)
	c := framesOf(res.Frames, "C")
	for _, f := range c[:20] {
		assert.Equal(t, 0.5, f.DistanceKm)
	}
}

func TestPostFinish(t *testing.T) {
	res, err := NewInterpolator(testConfig(t)).Run(sampleSnapshots())
	require.NoError(t, err)

	assert.Equal(t, "A", res.Leader)
	assert.InDelta(t, 1.0, res.LeaderPace, 1e-12)
	assert.InDelta(t, 2.0, res.FinishTime, 1e-12)
	// C is 1.5 km behind and needs to reach 2.05 km
	assert.InDelta(t, 3.55, res.EndTime, 1e-12)

	gaps := map[string]float64{"A": 0, "B": 0.5, "C": 1.5}
	for _, f := range res.Frames {
		if f.TimeSec < res.FinishTime {
			continue
		}
		assert.Less(t, f.TimeSec, res.EndTime)
		leader := 2.0 + res.LeaderPace*(f.TimeSec-res.FinishTime)
		assert.InDelta(t, leader-gaps[f.Driver], f.DistanceKm, 1e-9)
	}
}

func TestFramesAreSorted(t *testing.T) {
	res, err := NewInterpolator(testConfig(t)).Run(sampleSnapshots())
	require.NoError(t, err)
	for i := 1; i < len(res.Frames); i++ {
		a, b := res.Frames[i-1], res.Frames[i]
		assert.True(t, a.TimeSec < b.TimeSec || (a.TimeSec == b.TimeSec && a.Driver < b.Driver),
			"frame %d out of order", i)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name      string
		snapshots []model.Snapshot
		want      error
	}{
		{"single round", []model.Snapshot{snap(0, "A", 0)}, ErrTooFewRounds},
		{
			"missing driver",
			[]model.Snapshot{snap(0, "A", 0), snap(0, "B", 0), snap(1, "A", 1)},
			ErrRosterMismatch,
		},
		{
			"unknown driver",
			[]model.Snapshot{snap(0, "A", 0), snap(1, "A", 1), snap(1, "X", 1)},
			ErrRosterMismatch,
		},
		{
			"duplicate driver",
			[]model.Snapshot{snap(0, "A", 0), snap(0, "A", 0), snap(1, "A", 1)},
			ErrRosterMismatch,
		},
		{
			"leader stands still",
			[]model.Snapshot{snap(0, "A", 1), snap(1, "A", 1)},
			ErrNonPositivePace,
		},
	}
	ip := NewInterpolator(testConfig(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ip.Run(tt.snapshots)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Samples = 1
	_, err := NewInterpolator(cfg).Run(sampleSnapshots())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFrameTimes(t *testing.T) {
	assert.Len(t, frameTimes(0, 28.763, 1.0/30), 863)
	assert.Empty(t, frameTimes(5, 5, 0.1))
	assert.Empty(t, frameTimes(5, 4, 0.1))
	times := frameTimes(1, 1.25, 0.1)
	assert.Len(t, times, 3)
	assert.InDelta(t, 1.2, times[2], 1e-12)
}

func TestDefaultSeason(t *testing.T) {
	s, err := season.Default()
	require.NoError(t, err)
	cal := model.DefaultCalibration()
	profiles, err := speedprofile.Default(cal.LapLengthM())
	require.NoError(t, err)

	snapshots := race.NewSimulation(cal, s).Simulate()
	res, err := NewInterpolator(DefaultConfig(cal, profiles)).Run(snapshots)
	require.NoError(t, err)

	assert.Equal(t, "Lando Norris", res.Leader)
	assert.InDelta(t, 690.304, res.FinishTime, 1e-9)
	assert.InDelta(t, 800.9101779809789, res.EndTime, 1e-6)
	assert.InDelta(t, 0.0600744020025959, res.LeaderPace, 1e-12)

	norris := framesOf(res.Frames, "Lando Norris")
	assert.Len(t, norris, 863+countPreFinish(t, snapshots)+3319)
	for i := 1; i < len(norris); i++ {
		assert.GreaterOrEqual(t, norris[i].DistanceKm, norris[i-1].DistanceKm-1e-9)
	}
	assert.Greater(t, norris[len(norris)-1].DistanceKm, cal.TotalRaceKm())

	// the last car ends within one frame of the race distance
	colapinto := framesOf(res.Frames, "Colapinto")
	last := colapinto[len(colapinto)-1].DistanceKm
	assert.Less(t, last, cal.TotalRaceKm())
	assert.Greater(t, last, cal.TotalRaceKm()-res.LeaderPace/30-1e-9)
}

// countPreFinish counts the frames of rounds 2..24.
func countPreFinish(t *testing.T, snapshots []model.Snapshot) int {
	t.Helper()
	times := map[int]float64{}
	for _, s := range snapshots {
		times[s.Round] = s.TimeSec
	}
	n := 0
	for r := 1; r < len(times)-1; r++ {
		n += len(frameTimes(times[r], times[r+1], 1.0/30))
	}
	return n
}
