package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every schema change, registered from the numbered files of this package.
var Migrations = migrate.NewMigrations()
