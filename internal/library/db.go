// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package library stores captured IR codes in a local SQLite database so
// they can be named, listed, and replayed later.
package library

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/Thermoquad/zephyr/internal/logging"
)

// DB wraps the GORM database instance backing the code library
type DB struct {
	db *gorm.DB
}

// Open opens (or creates) the library database at path using the pure Go
// SQLite driver and migrates the schema.
func Open(path string) (*DB, error) {
	dialector := sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open library database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := configureSQLite(sqlDB); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Code{}); err != nil {
		return nil, fmt.Errorf("failed to migrate library schema: %w", err)
	}

	logging.Debug("library database opened", zap.String("path", path))
	return &DB{db: db}, nil
}

func configureSQLite(sqlDB *sql.DB) error {
	pragmaSettings := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmaSettings {
		if _, err := sqlDB.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}

// GetDB returns the underlying GORM database instance
func (db *DB) GetDB() *gorm.DB {
	return db.db
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
