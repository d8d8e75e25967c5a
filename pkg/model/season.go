package model

// Driver carries the cumulative championship points, one entry per round.
type Driver struct {
	Name   string `yaml:"name"`
	Points []int  `yaml:"points"`
}

type Season struct {
	Version string   `yaml:"version"` // file format version (semver)
	Name    string   `yaml:"name"`
	Grid    []string `yaml:"grid"` // starting grid, pole position first
	Drivers []Driver `yaml:"drivers"`
}

// GridRank returns the 0-based grid position of the driver or -1.
func (s *Season) GridRank(name string) int {
	for i, d := range s.Grid {
		if d == name {
			return i
		}
	}
	return -1
}

func (s *Season) Driver(name string) (Driver, bool) {
	for _, d := range s.Drivers {
		if d.Name == name {
			return d, true
		}
	}
	return Driver{}, false
}
