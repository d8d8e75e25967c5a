package snapshot

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gotest.tools/v3/assert"

	"github.com/mpapenbr/rsim/pkg/model"
	runrepo "github.com/mpapenbr/rsim/pkg/repository/run"
	"github.com/mpapenbr/rsim/testsupport/testdb"
)

func TestCreateAndLoad(t *testing.T) {
	ctx := context.Background()
	pool := testdb.InitTestDb(t)
	run := &model.Run{ID: uuid.New(), Season: "2025"}
	assert.NilError(t, runrepo.Create(ctx, pool, run))

	// stored in reverse to check the ordering on load
	rows := []model.Snapshot{
		{Round: 1, TimeSec: 28.763, Position: 2, Driver: "B", DistanceKm: 1.7179, GapToLeaderKm: 0.01},
		{Round: 1, TimeSec: 28.763, Position: 1, Driver: "A", DistanceKm: 1.7279},
		{Round: 0, TimeSec: 0, Position: 2, Driver: "A", DistanceKm: -0.01, GapToLeaderKm: 0.01},
		{Round: 0, TimeSec: 0, Position: 1, Driver: "B", DistanceKm: 0},
	}
	n, err := Create(ctx, pool, run.ID, rows)
	assert.NilError(t, err)
	assert.Equal(t, int64(4), n)

	got, err := LoadByRun(ctx, pool, run.ID)
	assert.NilError(t, err)
	assert.DeepEqual(t, []model.Snapshot{rows[3], rows[2], rows[1], rows[0]}, got)

	_, err = Create(ctx, pool, run.ID, rows[:1])
	assert.ErrorContains(t, err, "duplicate key")

	empty, err := LoadByRun(ctx, pool, uuid.New())
	assert.NilError(t, err)
	assert.Equal(t, 0, len(empty))
}
