// Package migrations embeds the SQL schema of the applications store.
package migrations

import "embed"

// FS holds one directory per SQL dialect.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
