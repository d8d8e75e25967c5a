package track

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/mpapenbr/rsim/pkg/model"
)

// square with 100 px per side, 400 px total
func square() []model.Waypoint {
	return []model.Waypoint{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}, {X: 0, Y: 0},
	}
}

func TestNew(t *testing.T) {
	m, err := New(square(), 4)
	assert.NilError(t, err)
	assert.Equal(t, 400.0, m.TotalPixels())
	assert.Equal(t, 0.01, m.KmPerPixel())
	assert.Equal(t, 5, m.Len())
}

func TestIndexFor(t *testing.T) {
	m, err := New(square(), 4)
	assert.NilError(t, err)
	tests := []struct {
		name string
		km   float64
		want int
	}{
		{"start", 0, 0},
		{"exact waypoint", 2, 2},
		{"nearest", 1.2, 1},
		{"tie prefers first", 1.5, 1},
		{"next lap", 4 + 3, 3},
		{"grid behind line", -0.01, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.IndexFor(tt.km))
		})
	}
	assert.DeepEqual(t, model.Waypoint{X: 100, Y: 100}, m.PointFor(2))
}

func TestNewErrors(t *testing.T) {
	_, err := New(square()[:1], 4)
	assert.ErrorIs(t, err, ErrTooFewWaypoints)
	_, err = New([]model.Waypoint{{X: 1, Y: 1}, {X: 1, Y: 1}}, 4)
	assert.ErrorIs(t, err, ErrZeroLength)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track_waypoints.csv")
	assert.NilError(t, os.WriteFile(path, []byte("x,y\n0,0\n3,4\n"), 0o600))
	m, err := Load(path, 5.1837)
	assert.NilError(t, err)
	assert.Equal(t, 5.0, m.TotalPixels())
	assert.Equal(t, 1, m.IndexFor(5))
}
