//nolint:whitespace // can't make both editor and linter happy
package frame

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/repository"
)

func Create(
	ctx context.Context,
	conn repository.Querier,
	runID uuid.UUID,
	frames []model.Frame,
) (int64, error) {
	return conn.CopyFrom(ctx, pgx.Identifier{"race_frame"},
		[]string{"run_id", "time_sec", "driver", "distance_km"},
		pgx.CopyFromSlice(len(frames), func(i int) ([]any, error) {
			return []any{runID, frames[i].TimeSec, frames[i].Driver, frames[i].DistanceKm}, nil
		}))
}

func CountByRun(ctx context.Context, conn repository.Querier, runID uuid.UUID) (
	int, error,
) {
	var ret int
	err := conn.QueryRow(ctx,
		"select count(*) from race_frame where run_id=$1", runID).Scan(&ret)
	return ret, err
}

// LoadByRun returns the frames in [from, to) ordered by time and driver.
func LoadByRun(
	ctx context.Context,
	conn repository.Querier,
	runID uuid.UUID,
	from, to float64,
) ([]model.Frame, error) {
	rows, err := conn.Query(ctx, `
	select time_sec, driver, distance_km from race_frame
	where run_id=$1 and time_sec >= $2 and time_sec < $3
	order by time_sec asc, driver asc
	`, runID, from, to)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Frame, error) {
		var f model.Frame
		err := row.Scan(&f.TimeSec, &f.Driver, &f.DistanceKm)
		return f, err
	})
}
