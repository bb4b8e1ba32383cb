// Package sql embeds the serving-schema migrations and queries.
package sql

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
