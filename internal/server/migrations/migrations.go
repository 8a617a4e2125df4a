// Package migrations embeds the goose SQL migrations that bootstrap the
// metadata index schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
