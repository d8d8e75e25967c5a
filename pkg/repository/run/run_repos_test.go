package run

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"gotest.tools/v3/assert"

	"github.com/mpapenbr/rsim/pkg/model"
	"github.com/mpapenbr/rsim/pkg/repository"
	"github.com/mpapenbr/rsim/testsupport/testdb"
)

func createSampleEntry(t *testing.T, db *pgxpool.Pool) *model.Run {
	t.Helper()
	run := &model.Run{ID: uuid.New(), Season: "2025"}
	err := pgx.BeginFunc(context.Background(), db, func(tx pgx.Tx) error {
		return Create(context.Background(), tx, run)
	})
	assert.NilError(t, err)
	return run
}

func TestCreate(t *testing.T) {
	pool := testdb.InitTestDb(t)
	sample := createSampleEntry(t, pool)
	assert.Assert(t, !sample.Created.IsZero())

	tests := []struct {
		name    string
		run     *model.Run
		wantErr bool
	}{
		{name: "new entry", run: &model.Run{ID: uuid.New(), Season: "2024"}},
		{name: "duplicate", run: &model.Run{ID: sample.ID, Season: "2025"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Create(context.Background(), pool, tt.run)
			if (err != nil) != tt.wantErr {
				t.Errorf("Create error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadByID(t *testing.T) {
	pool := testdb.InitTestDb(t)
	sample := createSampleEntry(t, pool)

	got, err := LoadByID(context.Background(), pool, sample.ID)
	assert.NilError(t, err)
	assert.Equal(t, sample.ID, got.ID)
	assert.Equal(t, "2025", got.Season)

	_, err = LoadByID(context.Background(), pool, uuid.New())
	assert.Assert(t, errors.Is(err, repository.ErrNoData))
}

func TestLoadAllAndDelete(t *testing.T) {
	pool := testdb.InitTestDb(t)
	a := createSampleEntry(t, pool)
	b := createSampleEntry(t, pool)

	all, err := LoadAll(context.Background(), pool)
	assert.NilError(t, err)
	ids := lo.Map(all, func(r *model.Run, _ int) uuid.UUID { return r.ID })
	assert.Assert(t, lo.Contains(ids, a.ID))
	assert.Assert(t, lo.Contains(ids, b.ID))

	n, err := DeleteByID(context.Background(), pool, a.ID)
	assert.NilError(t, err)
	assert.Equal(t, 1, n)

	n, err = DeleteByID(context.Background(), pool, a.ID)
	assert.NilError(t, err)
	assert.Equal(t, 0, n)
}
