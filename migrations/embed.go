// Package migrations embeds the SQL schema migrations shipped with the
// binaries.
package migrations

import (
	"embed"
	"io/fs"
)

var (
	//go:embed config/*.sql
	configFiles embed.FS

	//go:embed cropdb/*.sql
	cropdbFiles embed.FS

	// BaseTables creates the crop and country source tables the analytics
	// queries read. Production databases already have them; the seeder and
	// the integration tests use it.
	//
	//go:embed fixtures/base_tables.sql
	BaseTables string
)

// Config returns the SQLite configuration store migrations
func Config() fs.FS {
	return mustSub(configFiles, "config")
}

// CropDB returns the PostgreSQL index and materialized view migrations
func CropDB() fs.FS {
	return mustSub(cropdbFiles, "cropdb")
}

func mustSub(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
