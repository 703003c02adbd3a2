// Package migrations embeds the archive schema migrations.
package migrations

import "embed"

// FS holds the migration files shipped inside the binary.
//
//go:embed *.sql
var FS embed.FS
