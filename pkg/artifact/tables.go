package artifact

import (
	"strconv"

	"github.com/mpapenbr/rsim/pkg/model"
)

// Snapshots is the race table written by the simulation.
var Snapshots = Codec[model.Snapshot]{
	header: []string{"round", "time_sec", "position", "driver", "distance_km", "gap_to_leader_km"},
	encode: func(s model.Snapshot) []string {
		return []string{
			strconv.Itoa(s.Round),
			FormatFloat(s.TimeSec),
			strconv.Itoa(s.Position),
			s.Driver,
			FormatFloat(s.DistanceKm),
			FormatFloat(s.GapToLeaderKm),
		}
	},
	decode: func(r *Record) model.Snapshot {
		return model.Snapshot{
			Round:         r.Int("round"),
			TimeSec:       r.Float("time_sec"),
			Position:      r.Int("position"),
			Driver:        r.String("driver"),
			DistanceKm:    r.Float("distance_km"),
			GapToLeaderKm: r.Float("gap_to_leader_km"),
		}
	},
}

// Frames is the interpolated race table.
var Frames = Codec[model.Frame]{
	header: []string{"time_sec", "driver", "distance_km"},
	encode: func(f model.Frame) []string {
		return []string{FormatFloat(f.TimeSec), f.Driver, FormatFloat(f.DistanceKm)}
	},
	decode: func(r *Record) model.Frame {
		return model.Frame{
			TimeSec:    r.Float("time_sec"),
			Driver:     r.String("driver"),
			DistanceKm: r.Float("distance_km"),
		}
	},
}

// Events is the DRS event log.
var Events = Codec[model.DRSEvent]{
	header: []string{"time_sec", "lap", "driver", "detection_point", "gap_to_ahead", "status"},
	encode: func(e model.DRSEvent) []string {
		return []string{
			FormatFloat(e.TimeSec),
			strconv.Itoa(e.Lap),
			e.Driver,
			e.DetectionPoint,
			FormatFloat(e.GapToAhead),
			string(e.Status),
		}
	},
	decode: func(r *Record) model.DRSEvent {
		return model.DRSEvent{
			TimeSec:        r.Float("time_sec"),
			Lap:            r.Int("lap"),
			Driver:         r.String("driver"),
			DetectionPoint: r.String("detection_point"),
			GapToAhead:     r.Float("gap_to_ahead"),
			Status:         model.DRSStatus(r.String("status")),
		}
	},
}

// Waypoints is the traced centerline of the circuit.
var Waypoints = Codec[model.Waypoint]{
	header: []string{"x", "y"},
	encode: func(w model.Waypoint) []string {
		return []string{FormatFloat(w.X), FormatFloat(w.Y)}
	},
	decode: func(r *Record) model.Waypoint {
		return model.Waypoint{X: r.Float("x"), Y: r.Float("y")}
	},
}

// Sectors holds measured sector times of real circuits.
var Sectors = Codec[model.SectorMeasurement]{
	header: []string{"track", "sector", "time_sec", "distance_m"},
	encode: func(s model.SectorMeasurement) []string {
		return []string{s.Track, s.Sector, FormatFloat(s.TimeSec), FormatFloat(s.DistanceM)}
	},
	decode: func(r *Record) model.SectorMeasurement {
		return model.SectorMeasurement{
			Track:     r.String("track"),
			Sector:    r.String("sector"),
			TimeSec:   r.Float("time_sec"),
			DistanceM: r.Float("distance_m"),
		}
	},
}
