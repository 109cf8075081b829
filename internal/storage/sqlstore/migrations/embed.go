package migrations

import "embed"

// FS contains the embedded guest table migrations.
//
//go:embed *.sql
var FS embed.FS
