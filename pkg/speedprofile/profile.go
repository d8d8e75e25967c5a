// Package speedprofile provides the speed of a car as a function of the
// position within a lap.
package speedprofile

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/interp"
	"gopkg.in/yaml.v3"
)

var (
	ErrTooFewBreakpoints = errors.New("profile needs at least two breakpoints")
	ErrNotIncreasing     = errors.New("breakpoints not strictly increasing")
	ErrLapCoverage       = errors.New("breakpoints do not span the lap")
)

const coverageTolerance = 1e-6

//go:embed data/profiles.yaml
var defaultProfiles []byte

// Breakpoint is a (distance [m], speed [km/h]) pair.
// In YAML it is written as a two element sequence.
type Breakpoint struct {
	DistanceM float64
	SpeedKmh  float64
}

func (b *Breakpoint) UnmarshalYAML(node *yaml.Node) error {
	var pair []float64
	if err := node.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("line %d: breakpoint needs 2 values, got %d", node.Line, len(pair))
	}
	b.DistanceM, b.SpeedKmh = pair[0], pair[1]
	return nil
}

func (b Breakpoint) MarshalYAML() (any, error) {
	return []float64{b.DistanceM, b.SpeedKmh}, nil
}

// Profile is a monotone piecewise cubic interpolant through the breakpoints.
// Positions outside the breakpoint range get the speed of the nearest end.
type Profile struct {
	points []Breakpoint
	fit    interp.FritschButland
}

func NewProfile(points []Breakpoint, lapLengthM float64) (*Profile, error) {
	if len(points) < 2 {
		return nil, ErrTooFewBreakpoints
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if i > 0 && p.DistanceM <= points[i-1].DistanceM {
			return nil, fmt.Errorf("%w: %v after %v", ErrNotIncreasing,
				p.DistanceM, points[i-1].DistanceM)
		}
		xs[i], ys[i] = p.DistanceM, p.SpeedKmh
	}
	if math.Abs(xs[0]) > coverageTolerance ||
		math.Abs(xs[len(xs)-1]-lapLengthM) > coverageTolerance {
		return nil, fmt.Errorf("%w: [%v, %v], lap %v", ErrLapCoverage,
			xs[0], xs[len(xs)-1], lapLengthM)
	}
	ret := &Profile{points: points}
	if err := ret.fit.Fit(xs, ys); err != nil {
		return nil, err
	}
	return ret, nil
}

// At returns the speed [km/h] at distanceM meters into the lap.
func (p *Profile) At(distanceM float64) float64 {
	return p.fit.Predict(distanceM)
}

func (p *Profile) Breakpoints() []Breakpoint {
	return p.points
}

// Set holds the profile of the opening lap and the one used for every other
// lap.
type Set struct {
	FirstLap *Profile
	Racing   *Profile
}

// SpeedAt selects the opening lap profile only for lap 1. Lap 0 (cars
// behind the start line) uses the racing profile.
func (s *Set) SpeedAt(distanceM float64, lap int) float64 {
	if lap == 1 {
		return s.FirstLap.At(distanceM)
	}
	return s.Racing.At(distanceM)
}

type fileFormat struct {
	FirstLap []Breakpoint `yaml:"firstLap"`
	Racing   []Breakpoint `yaml:"racing"`
}

func Parse(data []byte, lapLengthM float64) (*Set, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	first, err := NewProfile(f.FirstLap, lapLengthM)
	if err != nil {
		return nil, fmt.Errorf("firstLap: %w", err)
	}
	racing, err := NewProfile(f.Racing, lapLengthM)
	if err != nil {
		return nil, fmt.Errorf("racing: %w", err)
	}
	return &Set{FirstLap: first, Racing: racing}, nil
}

func Load(path string, lapLengthM float64) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ret, err := Parse(data, lapLengthM)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ret, nil
}

// Default returns the embedded profiles of the derived circuit.
func Default(lapLengthM float64) (*Set, error) {
	return Parse(defaultProfiles, lapLengthM)
}

// LoadOrDefault loads path if set, the embedded profiles otherwise.
func LoadOrDefault(path string, lapLengthM float64) (*Set, error) {
	if path == "" {
		return Default(lapLengthM)
	}
	return Load(path, lapLengthM)
}
