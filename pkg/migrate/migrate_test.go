package migrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/cropclimate/migrations"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "config.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
	require.NoError(t, err)
	return count > 0
}

func TestMigrateUpAndDown(t *testing.T) {
	db := openSQLite(t)
	m := NewMigrator(db, NewFSProvider(migrations.Config(), "", DriverSQLite))

	pending, err := m.GetPendingMigrations()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, 1, pending[0].Version)
	require.Equal(t, "initial schema", pending[0].Name)

	require.NoError(t, m.MigrateUp())
	version, err := m.GetCurrentVersion()
	require.NoError(t, err)
	require.Equal(t, 2, version)
	require.True(t, tableExists(t, db, "analytics_configs"))

	// nothing left to apply
	require.NoError(t, m.MigrateUp())
	pending, err = m.GetPendingMigrations()
	require.NoError(t, err)
	require.Empty(t, pending)

	require.NoError(t, m.MigrateDown(1))
	version, err = m.GetCurrentVersion()
	require.NoError(t, err)
	require.Equal(t, 1, version)
	require.False(t, tableExists(t, db, "analytics_configs"))
	require.True(t, tableExists(t, db, "configs"))

	require.NoError(t, m.MigrateTo(0))
	version, err = m.GetCurrentVersion()
	require.NoError(t, err)
	require.Equal(t, 0, version)
	require.False(t, tableExists(t, db, "configs"))

	require.NoError(t, m.MigrateTo(2))
	version, err = m.GetCurrentVersion()
	require.NoError(t, err)
	require.Equal(t, 2, version)
}

func TestMigrateDownRejectsBadTarget(t *testing.T) {
	db := openSQLite(t)
	m := NewMigrator(db, NewFSProvider(migrations.Config(), "", DriverSQLite))
	require.NoError(t, m.MigrateUp())

	require.Error(t, m.MigrateDown(2))
	require.Error(t, m.MigrateDown(-1))
}

func TestFailedMigrationRollsBack(t *testing.T) {
	fsys := fstest.MapFS{
		"001_good.up.sql":   {Data: []byte("CREATE TABLE good (id INTEGER);")},
		"001_good.down.sql": {Data: []byte("DROP TABLE good;")},
		"002_bad.up.sql":    {Data: []byte("CREATE TABLE half (id INTEGER); SELECT * FROM missing_table;")},
		"002_bad.down.sql":  {Data: []byte("DROP TABLE half;")},
	}

	db := openSQLite(t)
	m := NewMigrator(db, NewFSProvider(fsys, "", DriverSQLite))

	require.Error(t, m.MigrateUp())

	version, err := m.GetCurrentVersion()
	require.NoError(t, err)
	require.Equal(t, 1, version)
	require.True(t, tableExists(t, db, "good"))
	require.False(t, tableExists(t, db, "half"))
}

func TestGetMigrationsPairsFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"010_later.up.sql":     {Data: []byte("SELECT 1;")},
		"002_earlier.up.sql":   {Data: []byte("SELECT 2;")},
		"002_earlier.down.sql": {Data: []byte("SELECT 3;")},
		"README.md":            {Data: []byte("not a migration")},
	}

	got, err := NewFSProvider(fsys, "", DriverSQLite).GetMigrations()
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 2, got[0].Version)
	require.Equal(t, "SELECT 2;", got[0].Up)
	require.Equal(t, "SELECT 3;", got[0].Down)
	require.Equal(t, 10, got[1].Version)
	require.Empty(t, got[1].Down)
}
