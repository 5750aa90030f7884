package database

import "embed"

// Migrations holds the SQL files applied by golang-migrate.
//
//go:embed migration/*.sql
var Migrations embed.FS
