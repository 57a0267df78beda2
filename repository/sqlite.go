package repository

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteDSN opens the database file at path. Timestamps are written in a sortable
// text layout so range queries compare them correctly.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_time_format=sqlite", path)
}

// MemoryDSN names a private in-memory database that lives as long as its store.
func MemoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_time_format=sqlite", uuid.NewString())
}

// NewSQLiteStore runs the gorm store on the pure-Go SQLite driver and migrates the schema.
// SQLite has no row locks, so a single connection serializes transactions instead.
func NewSQLiteStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return NewGormStore(db), nil
}
