// Package migrations embeds the sqlite schema applied by goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
