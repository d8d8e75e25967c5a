// Package track maps race distances onto the traced centerline of the
// circuit.
package track

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mpapenbr/rsim/pkg/artifact"
	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/utils"
)

var (
	ErrTooFewWaypoints = errors.New("need at least two waypoints")
	ErrZeroLength      = errors.New("waypoints have zero total length")
)

type Map struct {
	points     []model.Waypoint
	lapKm      float64
	cumKm      []float64 // distance along the track at each waypoint
	totalPx    float64
	kmPerPixel float64
}

func New(points []model.Waypoint, lapKm float64) (*Map, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewWaypoints, len(points))
	}
	cum := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		cum[i] = math.Hypot(points[i].X-points[i-1].X, points[i].Y-points[i-1].Y)
	}
	floats.CumSum(cum, cum)
	total := cum[len(cum)-1]
	if total <= 0 {
		return nil, ErrZeroLength
	}
	scale := lapKm / total
	floats.Scale(scale, cum)
	return &Map{
		points:     points,
		lapKm:      lapKm,
		cumKm:      cum,
		totalPx:    total,
		kmPerPixel: scale,
	}, nil
}

// Load reads an x,y waypoint CSV.
func Load(path string, lapKm float64) (*Map, error) {
	points, err := artifact.Waypoints.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(points, lapKm)
}

func (m *Map) TotalPixels() float64 { return m.totalPx }
func (m *Map) KmPerPixel() float64  { return m.kmPerPixel }
func (m *Map) Len() int             { return len(m.points) }

// IndexFor returns the index of the waypoint closest to the race distance
// km (taken modulo the lap length). The first index wins on ties.
func (m *Map) IndexFor(km float64) int {
	d := utils.FloorMod(km, m.lapKm)
	best, bestDiff := 0, math.Inf(1)
	for i, c := range m.cumKm {
		if diff := math.Abs(c - d); diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}

func (m *Map) PointFor(km float64) model.Waypoint {
	return m.points[m.IndexFor(km)]
}
