package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/localauth/internal/logging"
	"github.com/dmitrijs2005/localauth/internal/models"
)

func openSQLite(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "localauth.db")
	repo, err := OpenSQLite(context.Background(), dsn, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, dsn
}

func TestSQLite_EmptyAfterMigrations(t *testing.T) {
	repo, _ := openSQLite(t)

	records, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSQLite_SaveReplacesAllRows(t *testing.T) {
	repo, _ := openSQLite(t)
	ctx := context.Background()

	first := map[string]models.Record{
		"alice": {Salt: "cw==", Key: "aw==", Profile: models.DefaultProfile()},
		"bob":   {Salt: "cw==", Key: "aw=="},
	}
	require.NoError(t, repo.Save(ctx, first))

	second := map[string]models.Record{
		"alice": {Salt: "c2FsdA==", Key: "a2V5", Profile: models.Profile{"example_data": json.RawMessage("0")}},
	}
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestSQLite_NilProfileLoadsAsEmpty(t *testing.T) {
	repo, _ := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, map[string]models.Record{"bob": {Salt: "cw==", Key: "aw=="}}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cw==", got["bob"].Salt)
	assert.Empty(t, got["bob"].Profile)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	repo, dsn := openSQLite(t)
	ctx := context.Background()

	in := map[string]models.Record{"alice": {Salt: "cw==", Key: "aw==", Profile: models.DefaultProfile()}}
	require.NoError(t, repo.Save(ctx, in))
	require.NoError(t, repo.Close())

	again, err := OpenSQLite(ctx, dsn, nil)
	require.NoError(t, err)
	defer again.Close()

	got, err := again.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='credentials'`).Scan(&n))
	assert.Equal(t, 1, n)
}
