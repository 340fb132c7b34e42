// Package migrations holds the versioned SQL schema
package migrations

import "embed"

// FS contains every *.up.sql and *.down.sql file
//
//go:embed *.sql
var FS embed.FS
