package testdb

import (
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"

	tcpg "github.com/mpapenbr/rsim/testsupport/tcpostgres"
)

// InitTestDb returns a pool to a migrated database shared by all test
// packages. Tests only look at the runs they created themselves.
// The test is skipped if neither TESTDB_URL nor a container runtime is available.
func InitTestDb(t *testing.T) *pgxpool.Pool {
	t.Helper()
	var pool *pgxpool.Pool

	if os.Getenv("TESTDB_URL") != "" {
		pool = tcpg.SetupExternalTestDb()
	} else {
		testcontainers.SkipIfProviderIsNotHealthy(t)
		pool = tcpg.SetupTestDb()
	}
	t.Cleanup(pool.Close)
	return pool
}
