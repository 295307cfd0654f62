// Package migrations embeds the outlet schema migrations, one directory per SQL dialect.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
