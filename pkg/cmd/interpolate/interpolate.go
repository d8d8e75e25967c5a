package interpolate

import (
	"github.com/spf13/cobra"

	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/artifact"
	"github.com/mpapenbr/rsim/pkg/config"
	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/processing/interpolate"
	"github.com/mpapenbr/rsim/pkg/speedprofile"
)

var fps int

func NewInterpolateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interpolate",
		Short: "interpolates the race table into frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(log.GetFromContext(cmd.Context()).Named("interpolate"))
		},
	}
	cmd.Flags().StringVarP(&config.RaceFile, "in", "i", "simulated_race.csv",
		"race table input file")
	cmd.Flags().StringVarP(&config.InterpolatedFile, "out", "o", "interpolated_race.csv",
		"interpolated race table output file")
	cmd.Flags().StringVar(&config.ProfileFile, "profiles", "",
		"speed profile yaml file (embedded profiles if empty)")
	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second")
	return cmd
}

func run(logger *log.Logger) error {
	cal := model.DefaultCalibration()
	snapshots, err := artifact.Snapshots.ReadFile(config.RaceFile)
	if err != nil {
		return err
	}
	profiles, err := speedprofile.LoadOrDefault(config.ProfileFile, cal.LapLengthM())
	if err != nil {
		return err
	}
	cfg := interpolate.DefaultConfig(cal, profiles)
	cfg.FPS = fps
	res, err := interpolate.NewInterpolator(cfg).Run(snapshots)
	if err != nil {
		return err
	}
	if err := artifact.Frames.WriteFile(config.InterpolatedFile, res.Frames); err != nil {
		return err
	}
	logger.Info("interpolated race table written",
		log.String("file", config.InterpolatedFile),
		log.Int("rows", len(res.Frames)),
		log.String("leader", res.Leader),
		log.Float64("endTime", res.EndTime))
	return nil
}
