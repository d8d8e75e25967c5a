package drs

import (
	"github.com/mpapenbr/rsim/pkg/model"
)

// Activation answers whether DRS may be opened at a position, based on the
// ELIGIBLE events of the event log.
type Activation struct {
	cfg Config
	// driver -> lap -> detection point index
	eligible map[string]map[int]map[int]bool
}

func NewActivation(cfg Config, events []model.DRSEvent) *Activation {
	index := make(map[string]int, len(cfg.DetectionPoints))
	for i, dp := range cfg.DetectionPoints {
		index[dp.Label] = i
	}
	ret := &Activation{cfg: cfg, eligible: make(map[string]map[int]map[int]bool)}
	for _, ev := range events {
		if ev.Status != model.DRSEligible {
			continue
		}
		dp, ok := index[ev.DetectionPoint]
		if !ok {
			continue
		}
		laps, ok := ret.eligible[ev.Driver]
		if !ok {
			laps = make(map[int]map[int]bool)
			ret.eligible[ev.Driver] = laps
		}
		if laps[ev.Lap] == nil {
			laps[ev.Lap] = make(map[int]bool)
		}
		laps[ev.Lap][dp] = true
	}
	return ret
}

// Active reports whether driver may use DRS at intraM meters into lap.
func (a *Activation) Active(driver string, intraM float64, lap int) bool {
	laps, ok := a.eligible[driver]
	if !ok {
		return false
	}
	for _, z := range a.cfg.Zones {
		if !z.Contains(intraM) {
			continue
		}
		armedOn := lap
		if z.PreviousLap {
			armedOn--
		}
		return laps[armedOn][z.Detection]
	}
	return false
}

// ActiveAt is Active for a race distance.
func (a *Activation) ActiveAt(driver string, distanceKm float64) bool {
	lap, intra := a.cfg.Position(distanceKm)
	return a.Active(driver, intra, lap)
}

// Open returns the drivers of a frame set with open DRS.
func (a *Activation) Open(frames []model.Frame) []string {
	ret := []string{}
	for _, f := range frames {
		if a.ActiveAt(f.Driver, f.DistanceKm) {
			ret = append(ret, f.Driver)
		}
	}
	return ret
}
