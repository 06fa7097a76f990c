// Package migrations embeds the SQL migration files so the server and the
// integration tests can apply them through the goose programmatic API.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time. Pass it to
// goose.NewProvider instead of relying on a filesystem path at runtime.
//
//go:embed *.sql
var FS embed.FS
