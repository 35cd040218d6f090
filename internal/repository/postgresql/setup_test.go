package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS attendances (
		id          UUID PRIMARY KEY,
		employee_id TEXT NOT NULL,
		work_date   DATE NOT NULL,
		check_in    TIMESTAMPTZ,
		check_out   TIMESTAMPTZ,
		type        TEXT NOT NULL,
		notes       TEXT,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		UNIQUE (employee_id, work_date)
	)`,
	`CREATE TABLE IF NOT EXISTS leave_requests (
		id               UUID PRIMARY KEY,
		employee_id      TEXT NOT NULL,
		type             TEXT NOT NULL,
		start_date       DATE NOT NULL,
		end_date         DATE NOT NULL,
		reason           TEXT NOT NULL,
		status           TEXT NOT NULL,
		approver_id      TEXT,
		decided_at       TIMESTAMPTZ,
		approver_comment TEXT,
		cancelled_at     TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
}

// newTestDB connects to TEST_DATABASE_URL, creates the tables and empties them.
// The test is skipped when no database is configured.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 10, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	for _, stmt := range schema {
		_, err := db.Exec(ctx, stmt)
		require.NoError(t, err)
	}
	_, err = db.Exec(ctx, "TRUNCATE TABLE attendances, leave_requests")
	require.NoError(t, err)

	return db
}
