package circuit

import (
	"github.com/spf13/cobra"

	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/circuit"
	"github.com/mpapenbr/rsim/pkg/config"
)

var top int

func NewDeriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "derives the reference circuit from the season calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			return derive(log.GetFromContext(cmd.Context()).Named("circuit"))
		},
	}
	cmd.Flags().StringVar(&config.CalendarFile, "calendar", "",
		"circuit calendar yaml (embedded 2025 calendar if empty)")
	cmd.Flags().IntVar(&top, "top", 5, "number of most similar circuits to show")
	return cmd
}

func derive(logger *log.Logger) error {
	circuits, err := circuit.LoadCalendar(config.CalendarFile)
	if err != nil {
		return err
	}
	d, err := circuit.Derive(circuits, len(circuits))
	if err != nil {
		return err
	}
	logger.Info("derived circuit",
		log.Float64("lengthKm", d.LengthKm),
		log.Int("corners", d.Corners),
		log.Int("rightTurns", d.RightTurns),
		log.Int("leftTurns", d.LeftTurns),
		log.Int("drsZones", d.DRSZones),
		log.Float64("fastestLapSec", d.FastestLapSec),
		log.Float64("speedKmh", d.SpeedKmh))
	for i, s := range circuit.Rank(circuits, d.SpeedKmh) {
		if i >= top {
			break
		}
		logger.Info("similar circuit",
			log.Int("rank", i+1),
			log.String("name", s.Name),
			log.Float64("speedKmh", s.SpeedKmh),
			log.Float64("diff", s.Diff))
	}
	logger.Info("weather sensitive circuits",
		log.Strings("names", circuit.WeatherSensitive(circuits)))
	return nil
}
