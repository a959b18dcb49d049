package migrate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestGetMigrationsPath(t *testing.T) {
	t.Run("default path", func(t *testing.T) {
		t.Setenv("MIGRATIONS_PATH", "")
		assert.Equal(t, "migrations", GetMigrationsPath())
	})

	t.Run("custom path from env", func(t *testing.T) {
		t.Setenv("MIGRATIONS_PATH", "db/custom")
		assert.Equal(t, "db/custom", GetMigrationsPath())
	})
}

// createTestDB creates a test SQLite database connection.
func createTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

// closeTestDB closes a test database connection.
func closeTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func TestMigrateWithNilDatabase(t *testing.T) {
	err := Migrate(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database connection is nil")
}

func TestMigrateWithNonExistentDirectory(t *testing.T) {
	t.Setenv("MIGRATIONS_PATH", "/non/existent/path")

	db := createTestDB(t)
	defer closeTestDB(t, db)

	err := Migrate(db)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations directory does not exist")
}

func TestMigrateWithDBError(t *testing.T) {
	db := createTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = Migrate(db)
	assert.Error(t, err)
}

func TestMigrateWithPostgresDriverError(t *testing.T) {
	t.Setenv("MIGRATIONS_PATH", t.TempDir())

	db := createTestDB(t)
	defer closeTestDB(t, db)

	err := Migrate(db)
	assert.Error(t, err)
	assert.True(t,
		strings.Contains(err.Error(), "failed to create postgres driver") ||
			strings.Contains(err.Error(), "failed to create migrate instance"),
		"error should be related to postgres driver: %s", err.Error())
}

func TestMigrateWithInvalidPathFormat(t *testing.T) {
	t.Setenv("MIGRATIONS_PATH", t.TempDir())

	db := createTestDB(t)
	defer closeTestDB(t, db)

	err := Migrate(db)
	assert.Error(t, err)
}

func TestMigrateHandlesErrNoChange(t *testing.T) {
	// ErrNoChange from an already-migrated schema is treated as success;
	// exercised against real PostgreSQL in the e2e suite.
	t.Skip("requires a PostgreSQL database")
}
