package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the schema steps, one file per step.
var Migrations = migrate.NewMigrations()
