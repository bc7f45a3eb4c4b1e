// Package migrations embeds the snapshot store schema.
package migrations

import "embed"

// FS holds the snapshot store migrations.
//
//go:embed *.sql
var FS embed.FS
