package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectApplied(t *testing.T) {
	files := []string{"000001_init.up.sql", "000002_more.up.sql", "000003_last.up.sql"}
	assert.Equal(t, []string{"000002_more.up.sql", "000003_last.up.sql"}, selectApplied(files, 1, 3))
	assert.Empty(t, selectApplied(files, 3, 3))
	assert.Equal(t, uint64(2), parseVersion("000002_more.up.sql"))
	assert.Zero(t, parseVersion("readme.md"))
}

func TestListMigrationFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"sqlite/000002_b.up.sql":   {},
		"sqlite/000001_a.up.sql":   {},
		"sqlite/000001_a.down.sql": {},
		"postgres/000001_a.up.sql": {},
	}
	assert.Equal(t, []string{"000001_a.up.sql", "000002_b.up.sql"}, listMigrationFiles(fsys, "sqlite"))
}

func TestRunMigrationsSQLite(t *testing.T) {
	fsys := fstest.MapFS{
		"sqlite/000001_items.up.sql":   {Data: []byte("CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL);")},
		"sqlite/000001_items.down.sql": {Data: []byte("DROP TABLE items;")},
	}
	cfg := Config{Driver: DriverSQLite, URL: ":memory:"}
	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, cfg.Normalize())
	require.NoError(t, RunMigrations(db, cfg, fsys))
	// Second run is a no-op.
	require.NoError(t, RunMigrations(db, cfg, fsys))

	_, err = db.Exec(db.Rebind("INSERT INTO items (name) VALUES (?)"), "x")
	require.NoError(t, err)
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM items"))
	assert.Equal(t, 1, n)
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{Host: "db", Name: "apps", User: "bot", Password: "p@ss"}
	require.NoError(t, cfg.Normalize())
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, "postgres://bot:p%40ss@db:5432/apps?sslmode=disable", cfg.DSN())
	assert.Equal(t, "db:5432/apps", cfg.Target())

	bad := Config{Driver: "mysql", URL: "x"}
	assert.Error(t, bad.Normalize())

	lite := Config{Driver: "SQLite", Name: "bot.db", MaxConnections: 10}
	require.NoError(t, lite.Normalize())
	assert.Equal(t, "bot.db", lite.DSN())
	assert.Equal(t, 1, lite.MaxConnections)
	assert.Equal(t, DriverSQLite, lite.Dialect())
}
