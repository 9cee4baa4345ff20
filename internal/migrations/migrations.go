// Package migrations embeds the goose SQL migrations for the local
// database: the notes replica, the remote snapshot mirror, the conflict
// queue and the sync metadata table.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
