//nolint:whitespace // can't make both editor and linter happy
package drsevent

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
	events []model.DRSEvent,
) (int64, error) {
	return conn.CopyFrom(ctx, pgx.Identifier{"drs_event"},
		[]string{
			"run_id", "time_sec", "lap", "driver", "detection_point", "gap_to_ahead", "status",
		},
		pgx.CopyFromSlice(len(events), func(i int) ([]any, error) {
			e := events[i]
			return []any{
				runID, e.TimeSec, e.Lap, e.Driver, e.DetectionPoint, e.GapToAhead, string(e.Status),
			}, nil
		}))
}

func LoadByRun(ctx context.Context, conn repository.Querier, runID uuid.UUID) (
	[]model.DRSEvent, error,
) {
	rows, err := conn.Query(ctx, `
	select time_sec, lap, driver, detection_point, gap_to_ahead, status
	from drs_event where run_id=$1
	order by id asc
	`, runID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.DRSEvent, error) {
		var e model.DRSEvent
		var status string
		err := row.Scan(&e.TimeSec, &e.Lap, &e.Driver, &e.DetectionPoint,
			&e.GapToAhead, &status)
		e.Status = model.DRSStatus(status)
		return e, err
	})
}

// CountEligible returns the number of ELIGIBLE events per driver.
func CountEligible(ctx context.Context, conn repository.Querier, runID uuid.UUID) (
	map[string]int, error,
) {
	rows, err := conn.Query(ctx, `
	select driver, count(*) from drs_event
	where run_id=$1 and status='ELIGIBLE'
	group by driver
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make(map[string]int)
	for rows.Next() {
		var driver string
		var count int
		if err := rows.Scan(&driver, &count); err != nil {
			return nil, err
		}
		ret[driver] = count
	}
	return ret, rows.Err()
}
