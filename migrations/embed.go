// Package migrations holds the goose SQL migrations for the notification schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
