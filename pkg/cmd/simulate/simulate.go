package simulate

import (
	"github.com/spf13/cobra"

	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/artifact"
	"github.com/mpapenbr/rsim/pkg/config"
	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/processing/race"
	"github.com/mpapenbr/rsim/pkg/season"
)

func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "computes the race table from the season standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return simulate(log.GetFromContext(cmd.Context()).Named("simulate"))
		},
	}
	cmd.Flags().StringVarP(&config.SeasonFile, "season", "s", "",
		"season yaml file (embedded 2025 season if empty)")
	cmd.Flags().StringVarP(&config.RaceFile, "out", "o", "simulated_race.csv",
		"race table output file")
	return cmd
}

func simulate(logger *log.Logger) error {
	cal := model.DefaultCalibration()
	s, err := season.LoadOrDefault(config.SeasonFile)
	if err != nil {
		return err
	}
	if err := season.Validate(s, cal); err != nil {
		return err
	}
	rows := race.NewSimulation(cal, s, race.WithLogger(logger)).Simulate()
	if err := artifact.Snapshots.WriteFile(config.RaceFile, rows); err != nil {
		return err
	}
	logger.Info("race table written",
		log.String("file", config.RaceFile),
		log.Int("rows", len(rows)))
	return nil
}
