// Package watchdb holds all the migrations for the watcher database
package watchdb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the watcher database
var Migrations = migrate.NewMigrations()
