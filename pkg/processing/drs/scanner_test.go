package drs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/rsim/pkg/model"
)

func km(lap int, intraM float64) float64 {
	return (float64(lap-1)*5183.7 + intraM) / 1000
}

func frame(t float64, dist map[string]float64) []model.Frame {
	ret := []model.Frame{}
	for name, d := range dist {
		ret = append(ret, model.Frame{TimeSec: t, Driver: name, DistanceKm: d})
	}
	return ret
}

func frames(parts ...[]model.Frame) []model.Frame {
	ret := []model.Frame{}
	for _, p := range parts {
		ret = append(ret, p...)
	}
	return ret
}

func TestScanLeaderAndFollower(t *testing.T) {
	in := frames(
		frame(0, map[string]float64{"A": km(2, 3500), "B": km(2, 3490)}),
		frame(1, map[string]float64{"A": km(2, 3520), "B": km(2, 3515)}),
	)
	got, err := NewScanner(DefaultConfig()).Scan(in)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, model.DRSEvent{
		TimeSec: 1, Lap: 2, Driver: "A", DetectionPoint: "DP1 (3510m)",
		GapToAhead: 0, Status: model.DRSDenied,
	}, got[0])
	assert.Equal(t, "B", got[1].Driver)
	assert.Equal(t, model.DRSEligible, got[1].Status)
	assert.InDelta(t, 0.083, got[1].GapToAhead, 1e-12)
}

func TestScanThresholdIsInclusive(t *testing.T) {
	cfg := Config{
		LapLengthM:      1000,
		TotalRaceM:      100000,
		GapFactor:       1,
		Threshold:       1.0,
		DetectionPoints: []DetectionPoint{{Label: "DP", DistanceM: 500}},
	}
	in := frames(
		frame(0, map[string]float64{"A": 12.4, "B": 11.4, "C": 10.25}),
		frame(1, map[string]float64{"A": 12.45, "B": 11.5, "C": 10.5}),
	)
	got, err := NewScanner(cfg).Scan(in)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Driver)
	assert.Equal(t, 12, got[0].Lap)
	assert.Equal(t, 0.95, got[0].GapToAhead)
	assert.Equal(t, model.DRSEligible, got[0].Status)
	assert.Equal(t, "C", got[1].Driver)
	assert.Equal(t, 1.0, got[1].GapToAhead)
	assert.Equal(t, model.DRSEligible, got[1].Status)
}

func TestScanSkipsFirstLapAndFinished(t *testing.T) {
	cfg := DefaultConfig()
	in := frames(
		frame(0, map[string]float64{
			"A": km(9, 3500), "B": km(2, 3500), "C": km(1, 3500),
		}),
		frame(1, map[string]float64{
			"A": km(9, 3520), "B": km(2, 3520), "C": km(1, 3520),
		}),
	)
	got, err := NewScanner(cfg).Scan(in)
	require.NoError(t, err)
	require.Len(t, got, 1)
	// A is beyond the race distance, B is the leader of the remaining cars
	// but still ranked behind A
	assert.Equal(t, "B", got[0].Driver)
	assert.Equal(t, model.DRSDenied, got[0].Status)
	assert.Greater(t, got[0].GapToAhead, 1.0)
}

func TestScanPrefersFirstDetectionPoint(t *testing.T) {
	in := frames(
		frame(0, map[string]float64{"A": km(3, 3000)}),
		frame(1, map[string]float64{"A": km(3, 4600)}),
	)
	got, err := NewScanner(DefaultConfig()).Scan(in)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "DP1 (3510m)", got[0].DetectionPoint)
	assert.Equal(t, 3, got[0].Lap)
}

func TestScanCardinality(t *testing.T) {
	in := frames(
		frame(0, map[string]float64{"A": 1, "B": 0.9}),
		frame(1, map[string]float64{"A": 1.1}),
	)
	_, err := NewScanner(DefaultConfig()).Scan(in)
	assert.True(t, errors.Is(err, ErrFrameCardinality))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, model.DRSEligible, Classify(1.0, 1.0))
	assert.Equal(t, model.DRSEligible, Classify(0, 1.0))
	assert.Equal(t, model.DRSDenied, Classify(1.0001, 1.0))
}

func TestPosition(t *testing.T) {
	cfg := DefaultConfig()
	lap, intra := cfg.Position(km(3, 100))
	assert.Equal(t, 3, lap)
	assert.InDelta(t, 100.0, intra, 1e-6)

	lap, intra = cfg.Position(-0.01)
	assert.Equal(t, 0, lap)
	assert.InDelta(t, 5173.7, intra, 1e-6)
}

func TestSummarize(t *testing.T) {
	events := []model.DRSEvent{
		{Driver: "B", Status: model.DRSEligible},
		{Driver: "A", Status: model.DRSDenied},
		{Driver: "B", Status: model.DRSDenied},
		{Driver: "C", Status: model.DRSEligible},
		{Driver: "B", Status: model.DRSEligible},
	}
	assert.Equal(t, []DriverSummary{
		{Driver: "B", Eligible: 2, Denied: 1},
		{Driver: "C", Eligible: 1, Denied: 0},
		{Driver: "A", Eligible: 0, Denied: 1},
	}, Summarize(events))
}

func TestConfigFor(t *testing.T) {
	def := DefaultConfig()
	assert.InDelta(t, 5183.7, def.LapLengthM, 1e-9)
	assert.InDelta(t, 41469.6, def.TotalRaceM, 1e-9)

	cal := model.DefaultCalibration()
	cal.Laps = 1
	cal.LapLengthKm = 4.0
	cfg := ConfigFor(cal)
	assert.InDelta(t, 4000.0, cfg.LapLengthM, 1e-9)
	assert.InDelta(t, 4000.0, cfg.TotalRaceM, 1e-9)
	assert.InDelta(t, 4000.0, cfg.Zones[1].EndM, 1e-9)

	// beyond the race distance of the short race nothing is reported
	frames := []model.Frame{
		{TimeSec: 0, Driver: "A", DistanceKm: 7.4},
		{TimeSec: 0, Driver: "B", DistanceKm: 7.3},
		{TimeSec: 1, Driver: "A", DistanceKm: 7.6},
		{TimeSec: 1, Driver: "B", DistanceKm: 7.55},
	}
	got, err := NewScanner(cfg).Scan(frames)
	require.NoError(t, err)
	assert.Empty(t, got)
}
