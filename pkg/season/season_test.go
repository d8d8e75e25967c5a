//nolint:funlen // ok for tests
package season

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/rsim/pkg/model"
)

func TestDefaultSeason(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "F1 2025", s.Name)
	assert.Len(t, s.Grid, 20)
	assert.Len(t, s.Drivers, 20)
	assert.Equal(t, "Verstappen", s.Grid[0])

	norris, ok := s.Driver("Lando Norris")
	require.True(t, ok)
	assert.Equal(t, 25, norris.Points[0])
	assert.Equal(t, 423, norris.Points[23])

	require.NoError(t, Validate(s, model.DefaultCalibration()))
}

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, CheckVersion("v1.0.0"))
	assert.NoError(t, CheckVersion("v1.2.3"))
	assert.ErrorIs(t, CheckVersion("v0.9.0"), ErrFormatVersion)
	assert.ErrorIs(t, CheckVersion("1.0.0"), ErrFormatVersion)
	assert.ErrorIs(t, CheckVersion(""), ErrFormatVersion)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("version: v1.0.0\nname: x\nlaps: 3\n"))
	assert.Error(t, err)
}

func smallCalibration() model.Calibration {
	c := model.DefaultCalibration()
	c.Laps = 1
	c.RosterSize = 0
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		season  *model.Season
		cal     model.Calibration
		wantErr error
	}{
		{
			name: "valid",
			season: &model.Season{
				Grid: []string{"A", "B"},
				Drivers: []model.Driver{
					{Name: "A", Points: []int{1, 2, 3}},
					{Name: "B", Points: []int{0, 0, 4}},
				},
			},
			cal: smallCalibration(),
		},
		{
			name: "roster size",
			season: &model.Season{
				Grid:    []string{"A"},
				Drivers: []model.Driver{{Name: "A", Points: []int{1, 2, 3}}},
			},
			cal: func() model.Calibration {
				c := smallCalibration()
				c.RosterSize = 20
				return c
			}(),
			wantErr: ErrRosterSize,
		},
		{
			name: "driver not on grid",
			season: &model.Season{
				Grid: []string{"A"},
				Drivers: []model.Driver{
					{Name: "A", Points: []int{1, 2, 3}},
					{Name: "B", Points: []int{1, 2, 3}},
				},
			},
			cal:     smallCalibration(),
			wantErr: ErrRosterMismatch,
		},
		{
			name: "duplicate on grid",
			season: &model.Season{
				Grid:    []string{"A", "A"},
				Drivers: []model.Driver{{Name: "A", Points: []int{1, 2, 3}}},
			},
			cal:     smallCalibration(),
			wantErr: ErrDuplicateDriver,
		},
		{
			name: "round length",
			season: &model.Season{
				Grid:    []string{"A"},
				Drivers: []model.Driver{{Name: "A", Points: []int{1, 2}}},
			},
			cal:     smallCalibration(),
			wantErr: ErrRoundLength,
		},
		{
			name: "decreasing",
			season: &model.Season{
				Grid:    []string{"A"},
				Drivers: []model.Driver{{Name: "A", Points: []int{1, 3, 2}}},
			},
			cal:     smallCalibration(),
			wantErr: ErrPointsDecreasing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.season, tt.cal)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "season.yaml")
	content := "version: v1.1.0\nname: mini\ngrid: [A, B]\n" +
		"drivers:\n  - name: A\n    points: [1, 2, 3]\n  - name: B\n    points: [0, 1, 1]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mini", s.Name)
	assert.Equal(t, []string{"A", "B"}, s.Grid)
	require.NoError(t, Validate(s, smallCalibration()))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	fromDefault, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "F1 2025", fromDefault.Name)
}
