package drs

import (
	"github.com/spf13/cobra"

	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/artifact"
	"github.com/mpapenbr/rsim/pkg/config"
	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/processing/drs"
)

func NewDRSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drs",
		Short: "scans the interpolated race table for DRS detection events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return scan(log.GetFromContext(cmd.Context()).Named("drs"))
		},
	}
	cmd.Flags().StringVarP(&config.InterpolatedFile, "in", "i", "interpolated_race.csv",
		"interpolated race table input file")
	cmd.Flags().StringVarP(&config.DRSFile, "out", "o", "drs_eligibility_log.csv",
		"DRS event log output file")
	return cmd
}

func scan(logger *log.Logger) error {
	frames, err := artifact.Frames.ReadFile(config.InterpolatedFile)
	if err != nil {
		return err
	}
	events, err := drs.NewScanner(drs.ConfigFor(model.DefaultCalibration())).Scan(frames)
	if err != nil {
		return err
	}
	if err := artifact.Events.WriteFile(config.DRSFile, events); err != nil {
		return err
	}
	logger.Info("DRS event log written",
		log.String("file", config.DRSFile),
		log.Int("events", len(events)))
	LogSummary(logger, events)
	return nil
}

// LogSummary logs the eligible and denied counts per driver.
func LogSummary(logger *log.Logger, events []model.DRSEvent) {
	for _, s := range drs.Summarize(events) {
		logger.Info("drs summary",
			log.String("driver", s.Driver),
			log.Int("eligible", s.Eligible),
			log.Int("denied", s.Denied))
	}
}
