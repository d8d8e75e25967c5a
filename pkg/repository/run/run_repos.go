//nolint:whitespace // can't make both editor and linter happy
package run

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/repository"
)

var selector = `select r.id, r.season, r.created from race_run r`

func Create(ctx context.Context, conn repository.Querier, run *model.Run) error {
	row := conn.QueryRow(ctx, `
	insert into race_run (id, season) values ($1,$2)
	returning created
	`, run.ID, run.Season)
	return row.Scan(&run.Created)
}

func LoadByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	*model.Run, error,
) {
	row := conn.QueryRow(ctx, selector+" where r.id=$1", id)
	ret, err := readData(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNoData
	}
	return ret, err
}

// LoadAll returns all runs, latest first.
func LoadAll(ctx context.Context, conn repository.Querier) ([]*model.Run, error) {
	rows, err := conn.Query(ctx, selector+" order by r.created desc, r.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.Run, 0)
	for rows.Next() {
		item, err := readData(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

// deletes a run including all of its data, returns number of runs deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from race_run where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.Run, error) {
	var item model.Run
	if err := row.Scan(&item.ID, &item.Season, &item.Created); err != nil {
		return nil, err
	}
	return &item, nil
}
