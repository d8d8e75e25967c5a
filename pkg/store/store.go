// Package store persists the artifacts of a pipeline run.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/rsim/log"
	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/repository/drsevent"
	"github.com/mpapenbr/rsim/pkg/repository/frame"
	"github.com/mpapenbr/rsim/pkg/repository/run"
	"github.com/mpapenbr/rsim/pkg/repository/snapshot"
)

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Artifacts struct {
	Season    string
	Snapshots []model.Snapshot
	Frames    []model.Frame
	Events    []model.DRSEvent
}

// Save stores all artifacts as a new run in one transaction.
// The zero id creates a new random run id.
func Save(ctx context.Context, db TxBeginner, id uuid.UUID, a *Artifacts) (
	*model.Run, error,
) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	ret := &model.Run{ID: id, Season: a.Season}
	logger := log.Default().Named("store").With(log.String("runId", id.String()))
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		if err := run.Create(ctx, tx, ret); err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		n, err := snapshot.Create(ctx, tx, id, a.Snapshots)
		if err != nil {
			return fmt.Errorf("store snapshots: %w", err)
		}
		logger.Debug("stored snapshots", log.Int64("rows", n))
		if n, err = frame.Create(ctx, tx, id, a.Frames); err != nil {
			return fmt.Errorf("store frames: %w", err)
		}
		logger.Debug("stored frames", log.Int64("rows", n))
		if n, err = drsevent.Create(ctx, tx, id, a.Events); err != nil {
			return fmt.Errorf("store drs events: %w", err)
		}
		logger.Debug("stored drs events", log.Int64("rows", n))
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("run stored",
		log.Int("snapshots", len(a.Snapshots)),
		log.Int("frames", len(a.Frames)),
		log.Int("events", len(a.Events)))
	return ret, nil
}
