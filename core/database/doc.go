// Package database handles database connections for the inventory manager.
//
// It provides a wrapper around GORM that configures a MySQL connection (or a
// pure-Go sqlite one for tests and small deployments) from the application's
// configuration, with sane pool limits and connection timeouts.
//
// Error translation is enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey regardless of driver; the inventory stores rely on
// that to report duplicate references and duplicate rows.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
