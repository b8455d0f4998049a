// Package migrations embeds the Postgres schema migrations so the binary can
// apply them without a migrations directory next to it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
