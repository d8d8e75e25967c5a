//nolint:whitespace // can't make both editor and linter happy
package snapshot

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/repository"
)

var columns = []string{
	"run_id", "round", "time_sec", "position", "driver", "distance_km", "gap_to_leader_km",
}

// Create stores the race table of a run, returns the number of rows written.
func Create(
	ctx context.Context,
	conn repository.Querier,
	runID uuid.UUID,
	snapshots []model.Snapshot,
) (int64, error) {
	return conn.CopyFrom(ctx, pgx.Identifier{"race_snapshot"}, columns,
		pgx.CopyFromSlice(len(snapshots), func(i int) ([]any, error) {
			s := snapshots[i]
			return []any{
				runID, s.Round, s.TimeSec, s.Position, s.Driver, s.DistanceKm, s.GapToLeaderKm,
			}, nil
		}))
}

func LoadByRun(ctx context.Context, conn repository.Querier, runID uuid.UUID) (
	[]model.Snapshot, error,
) {
	rows, err := conn.Query(ctx, `
	select round, time_sec, position, driver, distance_km, gap_to_leader_km
	from race_snapshot where run_id=$1
	order by round asc, position asc
	`, runID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Snapshot, error) {
		var s model.Snapshot
		err := row.Scan(&s.Round, &s.TimeSec, &s.Position, &s.Driver,
			&s.DistanceKm, &s.GapToLeaderKm)
		return s, err
	})
}
