// Package dbtest opens throwaway in-memory databases with the service schema.
package dbtest

import (
	"dapptrack/internal/db" // Database setup
	"testing"               // Testing framework

	"github.com/glebarez/sqlite" // Pure Go SQLite driver
	"gorm.io/gorm"               // ORM
	"gorm.io/gorm/logger"        // GORM logging
)

// Open returns a migrated in-memory SQLite database. A single connection keeps
// every query on the same in-memory database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}
