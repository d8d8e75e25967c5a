package circuit

import (
	"github.com/spf13/cobra"

	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/artifact"
	"github.com/mpapenbr/rsim/pkg/circuit"
	"github.com/mpapenbr/rsim/pkg/config"
)

var refSpeed float64

func NewSectorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sectors",
		Short: "combines measured sectors into the reference circuit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sectors(log.GetFromContext(cmd.Context()).Named("circuit"))
		},
	}
	cmd.Flags().StringVar(&config.SectorFile, "sectors", "sectors.csv",
		"sector measurement csv (track,sector,time_sec,distance_m)")
	cmd.Flags().Float64Var(&refSpeed, "speed", 216.27, "reference speed in km/h")
	return cmd
}

func sectors(logger *log.Logger) error {
	measurements, err := artifact.Sectors.ReadFile(config.SectorFile)
	if err != nil {
		return err
	}
	c, err := circuit.Combine(measurements, refSpeed)
	if err != nil {
		return err
	}
	for _, s := range append([]circuit.SectorSpeed{c.First}, c.Rest[:]...) {
		logger.Info("sector",
			log.String("track", s.Track),
			log.String("sector", s.Sector),
			log.Float64("speedKmh", s.SpeedKmh),
			log.Float64("diff", s.Diff))
	}
	logger.Info("combination",
		log.Float64("avgKmh", c.AvgKmh),
		log.Float64("avgDiff", c.AvgDiff),
		log.Float64("variation", c.Variation),
		log.Float64("score", c.Score))
	return nil
}
