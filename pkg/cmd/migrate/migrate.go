package migrate

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/config"
	"github.com/mpapenbr/rsim/pkg/db/migrate"
	"github.com/mpapenbr/rsim/pkg/utils"
)

var drop bool

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "revert all migrations")

	return cmd
}

func startMigration(ctx context.Context) error {
	logger := log.GetFromContext(ctx).Named("migrate")
	// wait for database
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		logger.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err = utils.WaitForTCP(ctx, postgresAddr, timeout); err != nil {
		logger.Error("database not ready", log.ErrorField(err))
		return err
	}

	if drop {
		logger.Info("Reverting all migrations")
		return migrate.DropDB(config.DB)
	}
	return migrate.MigrateDB(config.DB)
}
