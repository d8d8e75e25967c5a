package check

import (
	"math"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/artifact"
	"github.com/mpapenbr/rsim/pkg/config"
	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/processing/drs"
)

var checkTime float64

func NewCheckDRSActiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drs-active",
		Short: "lists the drivers allowed to open DRS at a given time",
		RunE: func(cmd *cobra.Command, args []string) error {
			return drsActive(log.GetFromContext(cmd.Context()).Named("check"))
		},
	}
	cmd.Flags().StringVar(&config.InterpolatedFile, "frames", "interpolated_race.csv",
		"interpolated race table input file")
	cmd.Flags().StringVar(&config.DRSFile, "drs", "drs_eligibility_log.csv",
		"DRS event log input file")
	cmd.Flags().Float64VarP(&checkTime, "time", "t", 0, "race time in seconds")
	return cmd
}

func drsActive(logger *log.Logger) error {
	frames, err := artifact.Frames.ReadFile(config.InterpolatedFile)
	if err != nil {
		return err
	}
	events, err := artifact.Events.ReadFile(config.DRSFile)
	if err != nil {
		return err
	}
	at := FramesAt(frames, checkTime)
	if len(at) == 0 {
		logger.Warn("no frames found")
		return nil
	}
	open := drs.NewActivation(drs.ConfigFor(model.DefaultCalibration()), events).Open(at)
	logger.Info("drs open",
		log.Float64("time", at[0].TimeSec),
		log.Strings("drivers", open))
	return nil
}

// FramesAt returns the frames of the frame time closest to t.
func FramesAt(frames []model.Frame, t float64) []model.Frame {
	if len(frames) == 0 {
		return nil
	}
	closest := lo.MinBy(frames, func(a, b model.Frame) bool {
		return math.Abs(a.TimeSec-t) < math.Abs(b.TimeSec-t)
	}).TimeSec
	return lo.Filter(frames, func(f model.Frame, _ int) bool {
		return f.TimeSec == closest
	})
}
