package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gotest.tools/v3/assert"

	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/repository"
	"github.com/mpapenbr/rsim/pkg/repository/drsevent"
	"github.com/mpapenbr/rsim/pkg/repository/frame"
	"github.com/mpapenbr/rsim/pkg/repository/run"
	"github.com/mpapenbr/rsim/pkg/repository/snapshot"
	"github.com/mpapenbr/rsim/testsupport/testdb"
)

func sampleArtifacts() *Artifacts {
	return &Artifacts{
		Season: "2025",
		Snapshots: []model.Snapshot{
			{Round: 0, Position: 1, Driver: "A"},
			{Round: 0, Position: 2, Driver: "B", DistanceKm: -0.01, GapToLeaderKm: 0.01},
		},
		Frames: []model.Frame{
			{TimeSec: 0, Driver: "A"},
			{TimeSec: 0, Driver: "B", DistanceKm: -0.01},
		},
		Events: []model.DRSEvent{
			{TimeSec: 60, Lap: 2, Driver: "B", DetectionPoint: "DP1 (3510m)", GapToAhead: 0.5, Status: model.DRSEligible},
		},
	}
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	pool := testdb.InitTestDb(t)

	r, err := Save(ctx, pool, uuid.Nil, sampleArtifacts())
	assert.NilError(t, err)
	assert.Assert(t, r.ID != uuid.Nil)

	snaps, err := snapshot.LoadByRun(ctx, pool, r.ID)
	assert.NilError(t, err)
	assert.Equal(t, 2, len(snaps))
	count, err := frame.CountByRun(ctx, pool, r.ID)
	assert.NilError(t, err)
	assert.Equal(t, 2, count)
	events, err := drsevent.LoadByRun(ctx, pool, r.ID)
	assert.NilError(t, err)
	assert.DeepEqual(t, sampleArtifacts().Events, events)
}

func TestSaveRollsBack(t *testing.T) {
	ctx := context.Background()
	pool := testdb.InitTestDb(t)

	a := sampleArtifacts()
	a.Events[0].Status = "UNKNOWN" // violates the status check
	id := uuid.New()
	_, err := Save(ctx, pool, id, a)
	assert.ErrorContains(t, err, "store drs events")

	_, err = run.LoadByID(ctx, pool, id)
	assert.Assert(t, errors.Is(err, repository.ErrNoData))
}
