// Package migrations embeds the SQL migration files for the Postgres state
// backend so they can be applied with the goose programmatic API.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Pass this to goose.NewProvider instead of relying on a filesystem path.
//
//go:embed *.sql
var FS embed.FS
