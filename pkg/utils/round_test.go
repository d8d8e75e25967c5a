package utils

import (
	"math"
	"testing"

	"gotest.tools/v3/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		places int32
		want   float64
	}{
		{"zero", 0, 4, 0},
		{"already rounded", 1.7279, 4, 1.7279},
		{"down", 1.61793636, 4, 1.6179},
		{"up", 0.15709090, 4, 0.1571},
		{"negative", -0.0199999, 4, -0.02},
		{"time", 28.762666666, 3, 28.763},
		{"gap", 0.99949, 3, 0.999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Round(tt.v, tt.places))
		})
	}
	assert.Assert(t, math.IsNaN(Round(math.NaN(), 2)))
}

func TestFloorMod(t *testing.T) {
	assert.Equal(t, 1.0, FloorMod(6, 5))
	assert.Equal(t, 4.0, FloorMod(-1, 5))
	assert.Equal(t, 0.0, FloorMod(10, 5))
	assert.Equal(t, 0.0, FloorMod(0, 5))
	assert.Assert(t, math.Abs(FloorMod(-10, 5183.7)-5173.7) < 1e-9)
}
