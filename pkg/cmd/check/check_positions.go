package check

import (
	"github.com/spf13/cobra"

	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/artifact"
	"github.com/mpapenbr/rsim/pkg/config"
	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/track"
)

var checkRound int

func NewCheckPositionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "maps the race distances of a round onto the track waypoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return positions(log.GetFromContext(cmd.Context()).Named("check"))
		},
	}
	cmd.Flags().StringVarP(&config.RaceFile, "in", "i", "simulated_race.csv",
		"race table input file")
	cmd.Flags().StringVar(&config.WaypointFile, "waypoints", "track_waypoints.csv",
		"track waypoint csv (x,y)")
	cmd.Flags().IntVarP(&checkRound, "round", "r", 1, "round to check")
	return cmd
}

func positions(logger *log.Logger) error {
	cal := model.DefaultCalibration()
	snapshots, err := artifact.Snapshots.ReadFile(config.RaceFile)
	if err != nil {
		return err
	}
	m, err := track.Load(config.WaypointFile, cal.LapLengthKm)
	if err != nil {
		return err
	}
	logger.Info("track loaded",
		log.Int("waypoints", m.Len()),
		log.Float64("pixels", m.TotalPixels()),
		log.Float64("kmPerPixel", m.KmPerPixel()))
	found := 0
	for _, s := range snapshots {
		if s.Round != checkRound {
			continue
		}
		found++
		idx := m.IndexFor(s.DistanceKm)
		p := m.PointFor(s.DistanceKm)
		logger.Info("position",
			log.Int("pos", s.Position),
			log.String("driver", s.Driver),
			log.Float64("distanceKm", s.DistanceKm),
			log.Int("waypoint", idx),
			log.Float64("x", p.X),
			log.Float64("y", p.Y))
	}
	if found == 0 {
		logger.Warn("round not found", log.Int("round", checkRound))
	}
	return nil
}
