package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/geomap/internal/db"
	"github.com/udisondev/geomap/internal/testutil"
)

func TestRunMigrationsIsRepeatable(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)

	// SetupTestDB already migrated; a second run finds nothing pending.
	require.NoError(t, db.RunMigrations(ctx, pool.Config().ConnString()))

	var version int64
	err := pool.QueryRow(ctx, `SELECT max(version_id) FROM goose_db_version WHERE is_applied`).Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	for _, table := range []string{"analyses", "areas", "connectors"} {
		var exists bool
		err := pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, table)
	}
}
