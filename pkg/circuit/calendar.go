// Package circuit derives the reference circuit from the statistics of a
// race calendar and combines sectors of real circuits into it.
package circuit

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrEmptyCalendar = errors.New("calendar contains no circuits")

//go:embed data/calendar.yaml
var defaultCalendar []byte

type Circuit struct {
	Name          string  `yaml:"name"`
	LengthKm      float64 `yaml:"lengthKm"`
	Corners       int     `yaml:"corners"`
	RightTurns    int     `yaml:"rightTurns"`
	DRSZones      int     `yaml:"drsZones"`
	FastestLapSec float64 `yaml:"fastestLapSec"`
	SpeedKmh      float64 `yaml:"speedKmh"` // official track speed
	Weather       bool    `yaml:"weather"`  // weather sensitive
}

type calendarFile struct {
	Circuits []Circuit `yaml:"circuits"`
}

func ParseCalendar(data []byte) ([]Circuit, error) {
	var f calendarFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Circuits) == 0 {
		return nil, ErrEmptyCalendar
	}
	for i, c := range f.Circuits {
		if c.LengthKm <= 0 || c.FastestLapSec <= 0 {
			return nil, fmt.Errorf("circuit %d (%s): length and fastest lap must be positive",
				i+1, c.Name)
		}
	}
	return f.Circuits, nil
}

// DefaultCalendar returns the embedded 2025 calendar.
func DefaultCalendar() []Circuit {
	ret, err := ParseCalendar(defaultCalendar)
	if err != nil {
		panic(err)
	}
	return ret
}

func LoadCalendar(path string) ([]Circuit, error) {
	if path == "" {
		return DefaultCalendar(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ret, err := ParseCalendar(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ret, nil
}
