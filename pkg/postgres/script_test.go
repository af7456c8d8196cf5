package postgres_test

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/gunnhildr/library-api/pkg/postgres"
)

func TestExecScript(t *testing.T) {
	dsn := os.Getenv("BOOKS_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("BOOKS_TEST_DB_DSN is not set")
	}
	ctx := context.Background()
	pool, err := postgres.Connect(ctx, dsn, 2, nil)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	fsys := fstest.MapFS{
		"dataset.sql": {Data: []byte(
			"drop table if exists seed_check;" +
				"create table seed_check (id int);" +
				"insert into seed_check values (1), (2);")},
	}
	require.NoError(t, postgres.ExecScript(ctx, pool, fsys, "dataset.sql"))
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "drop table if exists seed_check")
	})

	var count int
	require.NoError(t, pool.QueryRow(ctx, "select count(*) from seed_check").Scan(&count))
	require.Equal(t, 2, count)

	require.Error(t, postgres.ExecScript(ctx, pool, fsys, "missing.sql"))
}
