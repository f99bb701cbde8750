// Package migrations carries the numbered SQLite schema files applied at
// startup by db.OpenSQLite.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
