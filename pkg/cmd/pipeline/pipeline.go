package pipeline

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/artifact"
	drsCmd "github.com/mpapenbr/rsim/pkg/cmd/drs"
	"github.com/mpapenbr/rsim/pkg/config"
	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/processing"
	"github.com/mpapenbr/rsim/pkg/season"
	"github.com/mpapenbr/rsim/pkg/speedprofile"
)

var ErrWatchWithoutSeason = errors.New("--watch requires --season")

func NewPipelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "runs simulate, interpolate and drs in one go",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger := log.GetFromContext(ctx).Named("pipeline")
			if config.Watch {
				return watch(ctx, logger)
			}
			return runOnce(ctx, logger)
		},
	}
	cmd.Flags().StringVarP(&config.SeasonFile, "season", "s", "",
		"season yaml file (embedded 2025 season if empty)")
	cmd.Flags().StringVar(&config.ProfileFile, "profiles", "",
		"speed profile yaml file (embedded profiles if empty)")
	cmd.Flags().StringVar(&config.RaceFile, "race-out", "simulated_race.csv",
		"race table output file")
	cmd.Flags().StringVar(&config.InterpolatedFile, "interpolated-out", "interpolated_race.csv",
		"interpolated race table output file")
	cmd.Flags().StringVar(&config.DRSFile, "drs-out", "drs_eligibility_log.csv",
		"DRS event log output file")
	cmd.Flags().BoolVarP(&config.Watch, "watch", "w", false,
		"rerun whenever the season file changes")
	return cmd
}

func runOnce(ctx context.Context, logger *log.Logger) error {
	cal := model.DefaultCalibration()
	s, err := season.LoadOrDefault(config.SeasonFile)
	if err != nil {
		return err
	}
	profiles, err := speedprofile.LoadOrDefault(config.ProfileFile, cal.LapLengthM())
	if err != nil {
		return err
	}
	proc, err := processing.NewProcessor(
		processing.WithCalibration(cal),
		processing.WithProfiles(profiles),
		processing.WithLogger(logger))
	if err != nil {
		return err
	}
	out, err := proc.Process(ctx, s)
	if err != nil {
		return err
	}
	if err := artifact.Snapshots.WriteFile(config.RaceFile, out.Snapshots); err != nil {
		return err
	}
	if err := artifact.Frames.WriteFile(config.InterpolatedFile,
		out.Interpolation.Frames); err != nil {
		return err
	}
	if err := artifact.Events.WriteFile(config.DRSFile, out.Events); err != nil {
		return err
	}
	drsCmd.LogSummary(logger, out.Events)
	return nil
}

// watch runs the pipeline and reruns it on every change of the season file
// until ctx is done.
func watch(ctx context.Context, logger *log.Logger) error {
	if config.SeasonFile == "" {
		return ErrWatchWithoutSeason
	}
	target, err := filepath.Abs(config.SeasonFile)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// editors often replace the file, so the directory is watched
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	if err := runOnce(ctx, logger); err != nil {
		logger.Error("pipeline failed", log.ErrorField(err))
	}
	logger.Info("watching season file", log.String("file", target))
	for {
		select {
		case <-ctx.Done():
			logger.Info("stop watching")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target ||
				!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			logger.Info("season file changed", log.String("op", ev.Op.String()))
			if err := runOnce(ctx, logger); err != nil {
				logger.Error("pipeline failed", log.ErrorField(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", log.ErrorField(err))
		}
	}
}
