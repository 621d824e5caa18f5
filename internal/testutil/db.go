// Package testutil provides shared test fixtures.
package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mlisik/walletd/infra/repository"
)

// NewTestDB opens an in-memory SQLite database with the full schema
// migrated. Each call gets its own database, so tests can run in parallel.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	// With a private in-memory DSN every pool connection is a separate
	// empty database, so the pool must stay at exactly one connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrapping test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(repository.Models()...); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}
