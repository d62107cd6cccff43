// Package database handles database connections and schema inspection.
//
// It wraps GORM and configures MySQL, PostgreSQL or SQLite connections from
// the application's configuration.
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and pings the
// server with a timeout. Errors are translated by GORM so duplicate keys
// surface as gorm.ErrDuplicatedKey on every driver.
//
// # Unique violations
//
// IsUniqueViolation recognises duplicate key failures across drivers. The
// reconciler relies on it to turn an insert race into an update.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns report the live table layout. The schema
// command uses them after migrating to verify every synchronized table.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "venda")
package database
