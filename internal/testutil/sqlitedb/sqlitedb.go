// Package sqlitedb opens a migrated in-memory ledger database for tests.
package sqlitedb

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"loan-ledger/internal/infrastructure/db"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenGormWithDialector(sqlite.Open(":memory:"), "silent")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
