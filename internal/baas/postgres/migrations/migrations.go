// Package migrations embeds the schema of the postgres backend.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
