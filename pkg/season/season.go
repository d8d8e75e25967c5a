package season

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/rsim/pkg/model"
)

// MinFormatVersion is the oldest season file format we can read.
const MinFormatVersion = "v1.0.0"

var (
	ErrFormatVersion    = errors.New("unsupported season format version")
	ErrRosterSize       = errors.New("unexpected number of drivers")
	ErrRosterMismatch   = errors.New("grid and drivers do not match")
	ErrDuplicateDriver  = errors.New("duplicate driver")
	ErrRoundLength      = errors.New("unexpected number of rounds")
	ErrPointsDecreasing = errors.New("cumulative points decrease")
)

//go:embed data/season-2025.yaml
var defaultSeason []byte

// Default returns the embedded 2025 season.
func Default() (*model.Season, error) {
	return Parse(defaultSeason)
}

func Load(path string) (*model.Season, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read season %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("season %s: %w", path, err)
	}
	return s, nil
}

// LoadOrDefault loads the season from path, the embedded season if path is empty.
func LoadOrDefault(path string) (*model.Season, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

func Parse(data []byte) (*model.Season, error) {
	var s model.Season
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode season: %w", err)
	}
	if err := CheckVersion(s.Version); err != nil {
		return nil, err
	}
	return &s, nil
}

func CheckVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrFormatVersion, v)
	}
	if semver.Compare(v, MinFormatVersion) < 0 {
		return fmt.Errorf("%w: %s is older than %s", ErrFormatVersion, v, MinFormatVersion)
	}
	return nil
}

// Validate checks the preconditions of the simulation: matching grid and
// driver set, one points entry per round and non decreasing points.
func Validate(s *model.Season, cal model.Calibration) error {
	if cal.RosterSize > 0 && len(s.Drivers) != cal.RosterSize {
		return fmt.Errorf("%w: got %d, want %d", ErrRosterSize, len(s.Drivers), cal.RosterSize)
	}
	if dup := lo.FindDuplicates(s.Grid); len(dup) > 0 {
		return fmt.Errorf("%w on grid: %v", ErrDuplicateDriver, dup)
	}
	names := lo.Map(s.Drivers, func(d model.Driver, _ int) string { return d.Name })
	if dup := lo.FindDuplicates(names); len(dup) > 0 {
		return fmt.Errorf("%w: %v", ErrDuplicateDriver, dup)
	}
	missing, extra := lo.Difference(names, s.Grid)
	if len(missing) > 0 || len(extra) > 0 {
		return fmt.Errorf("%w: not on grid %v, without points %v",
			ErrRosterMismatch, missing, extra)
	}
	rounds := cal.Rounds()
	for _, d := range s.Drivers {
		if len(d.Points) != rounds {
			return fmt.Errorf("%w: %s has %d, want %d",
				ErrRoundLength, d.Name, len(d.Points), rounds)
		}
		for i := 1; i < len(d.Points); i++ {
			if d.Points[i] < d.Points[i-1] {
				return fmt.Errorf("%w: %s round %d (%d < %d)",
					ErrPointsDecreasing, d.Name, i+1, d.Points[i], d.Points[i-1])
			}
		}
	}
	return nil
}
