package db

import "embed"

// migrationsFS holds one directory of goose SQL migrations per dialect.
//
//go:embed migrations
var migrationsFS embed.FS
