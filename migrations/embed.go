// Package migrations carries the schema as numbered SQL files applied in
// order by db.OpenSQLite.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
