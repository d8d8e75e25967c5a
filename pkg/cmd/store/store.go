package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/artifact"
	"github.com/mpapenbr/rsim/pkg/config"
	"github.com/mpapenbr/rsim/pkg/db/migrate"
	"github.com/mpapenbr/rsim/pkg/db/postgres"
	"github.com/mpapenbr/rsim/pkg/store"
	"github.com/mpapenbr/rsim/pkg/utils"
)

var seasonName string

func NewStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "stores the race artifacts in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return storeArtifacts(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&config.RaceFile, "race", "simulated_race.csv",
		"race table input file")
	cmd.Flags().StringVar(&config.InterpolatedFile, "frames", "interpolated_race.csv",
		"interpolated race table input file")
	cmd.Flags().StringVar(&config.DRSFile, "drs", "drs_eligibility_log.csv",
		"DRS event log input file")
	cmd.Flags().StringVar(&seasonName, "season-name", "2025", "season label of the run")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func storeArtifacts(ctx context.Context) error {
	logger := log.GetFromContext(ctx).Named("store")
	a := &store.Artifacts{Season: seasonName}
	var err error
	if a.Snapshots, err = artifact.Snapshots.ReadFile(config.RaceFile); err != nil {
		return err
	}
	if a.Frames, err = artifact.Frames.ReadFile(config.InterpolatedFile); err != nil {
		return err
	}
	if a.Events, err = artifact.Events.ReadFile(config.DRSFile); err != nil {
		return err
	}

	// wait for database
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		logger.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err = utils.WaitForTCP(ctx, postgresAddr, timeout); err != nil {
		return err
	}
	if err = migrate.MigrateDB(config.DB); err != nil {
		return err
	}

	var poolOpts []postgres.PoolConfigOption
	if config.EnableTelemetry {
		poolOpts = append(poolOpts, postgres.WithOtlpTracer())
		if err = otlpruntime.Start(
			otlpruntime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
			logger.Warn("could not start runtime metrics", log.ErrorField(err))
		}
	} else {
		poolOpts = append(poolOpts,
			postgres.WithTracer(logger, parseLogLevel(config.SQLLogLevel, log.DebugLevel)))
	}
	pool, err := postgres.InitWithURL(ctx, config.DB, poolOpts...)
	if err != nil {
		return err
	}
	defer pool.Close()

	run, err := store.Save(ctx, pool, uuid.Nil, a)
	if err != nil {
		return err
	}
	logger.Info("artifacts stored", log.String("runId", run.ID.String()))
	return nil
}
