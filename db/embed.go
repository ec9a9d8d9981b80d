// Package db embeds the SQL migrations so binaries carry their schema.
package db

import "embed"

// Migrations holds the golang-migrate files under migrations/
//
//go:embed migrations/*.sql
var Migrations embed.FS
