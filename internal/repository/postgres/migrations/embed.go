// Package migrations embeds the SQL schema migrations so the binary can run
// them without a checkout of the repository.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
